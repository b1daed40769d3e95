package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// PostgresActivityLogRepo はPostgreSQLを使用した監査ログリポジトリ。
// レコードは追記専用で、UPDATE文は存在しない。
type PostgresActivityLogRepo struct {
	db *sql.DB
}

// NewPostgresActivityLogRepo はPostgresActivityLogRepoを生成する。
func NewPostgresActivityLogRepo(db *sql.DB) *PostgresActivityLogRepo {
	return &PostgresActivityLogRepo{db: db}
}

// Create は監査レコードを作成する。
// DetailsはJSONBとしてシリアライズして保存する。nilの場合はNULLを格納する。
func (r *PostgresActivityLogRepo) Create(ctx context.Context, entry *model.ActivityLog) error {
	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal activity details: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, user_id, user_name, user_role, action, target_type, target_id, target_name, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.UserID, entry.UserName, entry.UserRole,
		entry.Action, entry.TargetType, entry.TargetID, entry.TargetName,
		details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("監査レコードの作成に失敗しました: %w", err)
	}
	return nil
}

// List はフィルタに合致するレコードをcreated_at降順で返す。
func (r *PostgresActivityLogRepo) List(ctx context.Context, filter model.ActivityFilter, limit, offset int) ([]*model.ActivityLog, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.ActorID != "" {
		conds = append(conds, "user_id = "+arg(filter.ActorID))
	}
	if filter.Action != "" {
		conds = append(conds, "action = "+arg(filter.Action))
	}
	if !filter.From.IsZero() {
		conds = append(conds, "created_at >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "created_at < "+arg(filter.To))
	}

	query := `SELECT id, user_id, user_name, user_role, action, target_type, target_id, target_name, details, created_at FROM activity_logs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("監査ログ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var entries []*model.ActivityLog
	for rows.Next() {
		entry := &model.ActivityLog{}
		var details []byte

		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.UserName, &entry.UserRole,
			&entry.Action, &entry.TargetType, &entry.TargetID, &entry.TargetName,
			&details, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}

		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal activity details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity logs: %w", err)
	}

	return entries, nil
}

// compile-time interface check
var _ ActivityLogRepository = (*PostgresActivityLogRepo)(nil)
