// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List は全ユーザーを名前昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザー情報を更新する。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// TimeLogRepository は工数エントリの永続化インターフェース。
type TimeLogRepository interface {
	// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.TimeLog, error)

	// FindByIdempotencyKey はユーザーIDと冪等キーでエントリを検索する。
	// 見つからない場合はnilを返す。
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*model.TimeLog, error)

	// Create はエントリを作成する。
	Create(ctx context.Context, entry *model.TimeLog) error

	// List はフィルタに合致するエントリをdate降順・created_at降順で返す。
	List(ctx context.Context, filter model.TimeLogFilter) ([]*model.TimeLog, error)

	// UpdateStatusIfPending はステータスがpendingの場合に限り、
	// ステータス・承認者・コメント・updated_atを原子的に更新する。
	// 条件付きUPDATEにより並行する承認・却下を直列化する。
	// 更新できた場合はtrue、対象が存在しないかpendingでない場合はfalseを返す。
	UpdateStatusIfPending(ctx context.Context, id string, status model.TimeLogStatus, approverID string, comment *string, updatedAt time.Time) (bool, error)

	// DeleteByID は指定IDのエントリを物理削除する。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)

	// ListByPeriod は指定期間（date >= from かつ date < to）の全エントリを返す。
	// レポート集計用で、ステータスを問わず取得する。
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*model.TimeLog, error)
}

// ActivityLogRepository は監査ログの永続化インターフェース。
// レコードは追記専用で、更新操作は提供しない。
type ActivityLogRepository interface {
	// Create は監査レコードを作成する。
	Create(ctx context.Context, entry *model.ActivityLog) error

	// List はフィルタに合致するレコードをcreated_at降順で返す。
	// limit/offsetによるページネーションを行う。
	List(ctx context.Context, filter model.ActivityFilter, limit, offset int) ([]*model.ActivityLog, error)
}

// RoadmapRepository はロードマップフェーズの永続化インターフェース。
type RoadmapRepository interface {
	// FindByID は指定IDのフェーズを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.RoadmapPhase, error)

	// List は全フェーズをcreated_at昇順で返す。
	List(ctx context.Context) ([]*model.RoadmapPhase, error)

	// Create はフェーズを作成する。
	Create(ctx context.Context, phase *model.RoadmapPhase) error

	// Update はフェーズを更新する。対象が存在しない場合はfalseを返す。
	Update(ctx context.Context, phase *model.RoadmapPhase) (bool, error)

	// DeleteByID は指定IDのフェーズを削除する。対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// FeatureStatusRepository は機能ステータスの永続化インターフェース。
type FeatureStatusRepository interface {
	// FindByID は指定IDの機能ステータスを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.FeatureStatus, error)

	// List は全機能ステータスを名前昇順で返す。
	List(ctx context.Context) ([]*model.FeatureStatus, error)

	// Create は機能ステータスを作成する。
	Create(ctx context.Context, fs *model.FeatureStatus) error

	// Update は機能ステータスを更新する。対象が存在しない場合はfalseを返す。
	Update(ctx context.Context, fs *model.FeatureStatus) (bool, error)

	// DeleteByID は指定IDの機能ステータスを削除する。対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// TaskRepository はカンバンタスクの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// List は全タスクをcreated_at昇順で返す。
	List(ctx context.Context) ([]*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// Update はタスクを更新する。対象が存在しない場合はfalseを返す。
	Update(ctx context.Context, task *model.Task) (bool, error)

	// DeleteByID は指定IDのタスクを削除する。対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// SharedLinkRepository は共有リンクの永続化インターフェース。
type SharedLinkRepository interface {
	// FindByToken は指定トークンの共有リンクを取得する。見つからない場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.SharedLink, error)

	// Create は共有リンクを作成する。
	Create(ctx context.Context, link *model.SharedLink) error

	// DeleteByID は指定IDの共有リンクを削除する。対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}
