package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// PostgresFeatureStatusRepo はPostgreSQLを使用した機能ステータスリポジトリ。
type PostgresFeatureStatusRepo struct {
	db *sql.DB
}

// NewPostgresFeatureStatusRepo はPostgresFeatureStatusRepoを生成する。
func NewPostgresFeatureStatusRepo(db *sql.DB) *PostgresFeatureStatusRepo {
	return &PostgresFeatureStatusRepo{db: db}
}

func scanFeatureStatus(row interface{ Scan(...any) error }) (*model.FeatureStatus, error) {
	fs := &model.FeatureStatus{}
	var linkedTicket sql.NullString

	err := row.Scan(
		&fs.ID, &fs.Name, &fs.Status, &fs.PublicNote,
		&linkedTicket, &fs.CreatedAt, &fs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if linkedTicket.Valid {
		fs.LinkedTicket = &linkedTicket.String
	}

	return fs, nil
}

// FindByID は指定IDの機能ステータスを取得する。見つからない場合はnilを返す。
func (r *PostgresFeatureStatusRepo) FindByID(ctx context.Context, id string) (*model.FeatureStatus, error) {
	fs, err := scanFeatureStatus(r.db.QueryRowContext(ctx,
		`SELECT id, name, status, public_note, linked_ticket, created_at, updated_at
		 FROM feature_statuses WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("機能ステータスの取得に失敗しました: %w", err)
	}
	return fs, nil
}

// List は全機能ステータスを名前昇順で返す。
func (r *PostgresFeatureStatusRepo) List(ctx context.Context) ([]*model.FeatureStatus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, status, public_note, linked_ticket, created_at, updated_at
		 FROM feature_statuses ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("機能ステータス一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var statuses []*model.FeatureStatus
	for rows.Next() {
		fs, err := scanFeatureStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feature status: %w", err)
		}
		statuses = append(statuses, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feature statuses: %w", err)
	}

	return statuses, nil
}

// Create は機能ステータスを作成する。
func (r *PostgresFeatureStatusRepo) Create(ctx context.Context, fs *model.FeatureStatus) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feature_statuses (id, name, status, public_note, linked_ticket, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		fs.ID, fs.Name, fs.Status, fs.PublicNote, fs.LinkedTicket,
		fs.CreatedAt, fs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("機能ステータスの作成に失敗しました: %w", err)
	}
	return nil
}

// Update は機能ステータスを更新する。対象が存在しない場合はfalseを返す。
func (r *PostgresFeatureStatusRepo) Update(ctx context.Context, fs *model.FeatureStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feature_statuses SET
		    name = $2, status = $3, public_note = $4, linked_ticket = $5, updated_at = $6
		 WHERE id = $1`,
		fs.ID, fs.Name, fs.Status, fs.PublicNote, fs.LinkedTicket, fs.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("機能ステータスの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定IDの機能ステータスを削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresFeatureStatusRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM feature_statuses WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("機能ステータスの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ FeatureStatusRepository = (*PostgresFeatureStatusRepo)(nil)
