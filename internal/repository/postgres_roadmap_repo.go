package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// PostgresRoadmapRepo はPostgreSQLを使用したロードマップリポジトリ。
// DeliverablesはJSONB配列として保存し、挿入順（表示順）を保持する。
type PostgresRoadmapRepo struct {
	db *sql.DB
}

// NewPostgresRoadmapRepo はPostgresRoadmapRepoを生成する。
func NewPostgresRoadmapRepo(db *sql.DB) *PostgresRoadmapRepo {
	return &PostgresRoadmapRepo{db: db}
}

func scanRoadmapPhase(row interface{ Scan(...any) error }) (*model.RoadmapPhase, error) {
	phase := &model.RoadmapPhase{}
	var deliverables []byte

	err := row.Scan(
		&phase.ID, &phase.PhaseLabel, &phase.DateLabel, &phase.Title,
		&phase.Description, &phase.Status, &phase.Health,
		&deliverables, &phase.CreatedAt, &phase.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(deliverables, &phase.Deliverables); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deliverables: %w", err)
	}

	return phase, nil
}

// FindByID は指定IDのフェーズを取得する。見つからない場合はnilを返す。
func (r *PostgresRoadmapRepo) FindByID(ctx context.Context, id string) (*model.RoadmapPhase, error) {
	phase, err := scanRoadmapPhase(r.db.QueryRowContext(ctx,
		`SELECT id, phase_label, date_label, title, description, status, health, deliverables, created_at, updated_at
		 FROM roadmap_phases WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ロードマップフェーズの取得に失敗しました: %w", err)
	}
	return phase, nil
}

// List は全フェーズをcreated_at昇順で返す。
func (r *PostgresRoadmapRepo) List(ctx context.Context) ([]*model.RoadmapPhase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, phase_label, date_label, title, description, status, health, deliverables, created_at, updated_at
		 FROM roadmap_phases ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ロードマップ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var phases []*model.RoadmapPhase
	for rows.Next() {
		phase, err := scanRoadmapPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roadmap phase: %w", err)
		}
		phases = append(phases, phase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roadmap phases: %w", err)
	}

	return phases, nil
}

// Create はフェーズを作成する。
func (r *PostgresRoadmapRepo) Create(ctx context.Context, phase *model.RoadmapPhase) error {
	deliverables, err := marshalDeliverables(phase.Deliverables)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO roadmap_phases (id, phase_label, date_label, title, description, status, health, deliverables, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		phase.ID, phase.PhaseLabel, phase.DateLabel, phase.Title,
		phase.Description, phase.Status, phase.Health,
		deliverables, phase.CreatedAt, phase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ロードマップフェーズの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はフェーズを更新する。対象が存在しない場合はfalseを返す。
func (r *PostgresRoadmapRepo) Update(ctx context.Context, phase *model.RoadmapPhase) (bool, error) {
	deliverables, err := marshalDeliverables(phase.Deliverables)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE roadmap_phases SET
		    phase_label = $2, date_label = $3, title = $4, description = $5,
		    status = $6, health = $7, deliverables = $8, updated_at = $9
		 WHERE id = $1`,
		phase.ID, phase.PhaseLabel, phase.DateLabel, phase.Title,
		phase.Description, phase.Status, phase.Health,
		deliverables, phase.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("ロードマップフェーズの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定IDのフェーズを削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresRoadmapRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM roadmap_phases WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("ロードマップフェーズの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// marshalDeliverables は成果物リストをJSONBに変換する。
// nilスライスは空配列として保存し、NULLとの混在を避ける。
func marshalDeliverables(deliverables []model.Deliverable) ([]byte, error) {
	if deliverables == nil {
		deliverables = []model.Deliverable{}
	}
	data, err := json.Marshal(deliverables)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deliverables: %w", err)
	}
	return data, nil
}

// compile-time interface check
var _ RoadmapRepository = (*PostgresRoadmapRepo)(nil)
