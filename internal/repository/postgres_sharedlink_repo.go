package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// PostgresSharedLinkRepo はPostgreSQLを使用した共有リンクリポジトリ。
type PostgresSharedLinkRepo struct {
	db *sql.DB
}

// NewPostgresSharedLinkRepo はPostgresSharedLinkRepoを生成する。
func NewPostgresSharedLinkRepo(db *sql.DB) *PostgresSharedLinkRepo {
	return &PostgresSharedLinkRepo{db: db}
}

// FindByToken は指定トークンの共有リンクを取得する。見つからない場合はnilを返す。
// 期限切れ判定はサービス層で行う。
func (r *PostgresSharedLinkRepo) FindByToken(ctx context.Context, token string) (*model.SharedLink, error) {
	link := &model.SharedLink{}
	var expiresAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, created_by, expires_at, created_at
		 FROM shared_links WHERE token = $1`,
		token,
	).Scan(&link.ID, &link.Token, &link.CreatedBy, &expiresAt, &link.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("共有リンクの取得に失敗しました: %w", err)
	}

	if expiresAt.Valid {
		link.ExpiresAt = &expiresAt.Time
	}

	return link, nil
}

// Create は共有リンクを作成する。
func (r *PostgresSharedLinkRepo) Create(ctx context.Context, link *model.SharedLink) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shared_links (id, token, created_by, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		link.ID, link.Token, link.CreatedBy, link.ExpiresAt, link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("共有リンクの作成に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの共有リンクを削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresSharedLinkRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shared_links WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("共有リンクの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ SharedLinkRepository = (*PostgresSharedLinkRepo)(nil)
