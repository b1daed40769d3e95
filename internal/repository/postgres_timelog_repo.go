package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// PostgresTimeLogRepo はPostgreSQLを使用した工数エントリリポジトリ。
type PostgresTimeLogRepo struct {
	db *sql.DB
}

// NewPostgresTimeLogRepo はPostgresTimeLogRepoを生成する。
func NewPostgresTimeLogRepo(db *sql.DB) *PostgresTimeLogRepo {
	return &PostgresTimeLogRepo{db: db}
}

const timeLogColumns = `id, user_id, user_name, user_role, date, hours, summary, tickets, work_type, status, approved_by, manager_comment, idempotency_key, created_at, updated_at`

func scanTimeLog(row interface{ Scan(...any) error }) (*model.TimeLog, error) {
	entry := &model.TimeLog{}
	var approvedBy, managerComment, idempotencyKey sql.NullString

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.UserName, &entry.UserRole,
		&entry.Date, &entry.Hours, &entry.Summary, pq.Array(&entry.Tickets),
		&entry.WorkType, &entry.Status,
		&approvedBy, &managerComment, &idempotencyKey,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		entry.ApprovedBy = &approvedBy.String
	}
	if managerComment.Valid {
		entry.ManagerComment = &managerComment.String
	}
	if idempotencyKey.Valid {
		entry.IdempotencyKey = &idempotencyKey.String
	}

	return entry, nil
}

// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
func (r *PostgresTimeLogRepo) FindByID(ctx context.Context, id string) (*model.TimeLog, error) {
	entry, err := scanTimeLog(r.db.QueryRowContext(ctx,
		`SELECT `+timeLogColumns+` FROM time_logs WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("工数エントリの取得に失敗しました: %w", err)
	}
	return entry, nil
}

// FindByIdempotencyKey はユーザーIDと冪等キーでエントリを検索する。見つからない場合はnilを返す。
func (r *PostgresTimeLogRepo) FindByIdempotencyKey(ctx context.Context, userID, key string) (*model.TimeLog, error) {
	entry, err := scanTimeLog(r.db.QueryRowContext(ctx,
		`SELECT `+timeLogColumns+` FROM time_logs WHERE user_id = $1 AND idempotency_key = $2`,
		userID, key,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("冪等キーによる工数エントリの検索に失敗しました: %w", err)
	}
	return entry, nil
}

// Create はエントリを作成する。
func (r *PostgresTimeLogRepo) Create(ctx context.Context, entry *model.TimeLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_logs (id, user_id, user_name, user_role, date, hours, summary, tickets, work_type, status, approved_by, manager_comment, idempotency_key, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		entry.ID, entry.UserID, entry.UserName, entry.UserRole,
		entry.Date, entry.Hours, entry.Summary, pq.Array(entry.Tickets),
		entry.WorkType, entry.Status,
		entry.ApprovedBy, entry.ManagerComment, entry.IdempotencyKey,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("工数エントリの作成に失敗しました: %w", err)
	}
	return nil
}

// List はフィルタに合致するエントリをdate降順・created_at降順で返す。
// ゼロ値のフィルタフィールドは条件として適用されない。
func (r *PostgresTimeLogRepo) List(ctx context.Context, filter model.TimeLogFilter) ([]*model.TimeLog, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.UserID != "" {
		conds = append(conds, "user_id = "+arg(filter.UserID))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if !filter.From.IsZero() {
		conds = append(conds, "date >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "date < "+arg(filter.To))
	}

	query := `SELECT ` + timeLogColumns + ` FROM time_logs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("工数エントリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectTimeLogs(rows)
}

// UpdateStatusIfPending はステータスがpendingの場合に限り承認結果を原子的に書き込む。
// WHERE句のstatus = 'pending'条件により、並行する承認・却下のうち
// 先に到達した1件だけが成功し、後続は0行更新となる。
func (r *PostgresTimeLogRepo) UpdateStatusIfPending(
	ctx context.Context,
	id string,
	status model.TimeLogStatus,
	approverID string,
	comment *string,
	updatedAt time.Time,
) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE time_logs SET
		    status = $2, approved_by = $3, manager_comment = $4, updated_at = $5
		 WHERE id = $1 AND status = 'pending'`,
		id, status, approverID, comment, updatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("工数エントリのステータス更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定IDのエントリを物理削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresTimeLogRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM time_logs WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("工数エントリの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListByPeriod は指定期間（date >= from かつ date < to）の全エントリを返す。
func (r *PostgresTimeLogRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*model.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+timeLogColumns+` FROM time_logs
		 WHERE date >= $1 AND date < $2
		 ORDER BY date ASC, user_id ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("期間指定の工数エントリ取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectTimeLogs(rows)
}

func collectTimeLogs(rows *sql.Rows) ([]*model.TimeLog, error) {
	var entries []*model.TimeLog
	for rows.Next() {
		entry, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time logs: %w", err)
	}
	return entries, nil
}

// compile-time interface check
var _ TimeLogRepository = (*PostgresTimeLogRepo)(nil)
