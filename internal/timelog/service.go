// Package timelog は工数エントリの登録・一覧・承認フローのドメインロジックを提供する。
//
// 承認フローはこのシステムで唯一の状態機械である:
//
//	pending（初期） → approved（終端） | pending → rejected（終端）
//
// approvedまたはrejectedからの遷移は存在しない。並行する承認・却下は
// リポジトリの条件付きUPDATEで直列化され、後着はInvalidStateTransitionになる。
package timelog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/repository"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/security"
)

// dateLayout は工数エントリの日付形式。時刻成分は持たない。
const dateLayout = "2006-01-02"

// ActivityRecorder は監査ログへの記録インターフェース。
// activity.Serviceの部分集合として定義する。
type ActivityRecorder interface {
	Record(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error)
}

// MetricsRecorder は工数エントリ関連のメトリクス収集インターフェース。
type MetricsRecorder interface {
	RecordEntryCreated()
	RecordEntryDecided(status string)
}

// Service は工数エントリのサービス層。
// すべての操作は呼び出し側のフィルタリングを信用せず、Scopeを自身で適用する。
type Service struct {
	repo      repository.TimeLogRepository
	userRepo  repository.UserRepository
	sanitizer security.TextSanitizerService
	recorder  ActivityRecorder
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderとmetricsはnil許容（テスト用）。
func NewService(
	repo repository.TimeLogRepository,
	userRepo repository.UserRepository,
	sanitizer security.TextSanitizerService,
	recorder ActivityRecorder,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		repo:      repo,
		userRepo:  userRepo,
		sanitizer: sanitizer,
		recorder:  recorder,
		metrics:   metrics,
	}
}

// CreateInput は工数エントリ作成の入力。
type CreateInput struct {
	UserID         string
	Date           string // "2006-01-02" 形式
	Hours          float64
	Summary        string
	Tickets        []string
	WorkType       string
	IdempotencyKey string // 任意。再送時の二重登録を防ぐ
}

// CreateEntry は工数エントリを検証して作成する。
// 検証内容: hours ∈ (0, 24]、サマリー非空、日付形式、チケット参照の非空、作業分類。
// 作成されたエントリは必ずpendingステータスで永続化される。
// 冪等キーが指定済みかつ登録済みの場合は、新規作成せず既存エントリを返す。
func (s *Service) CreateEntry(ctx context.Context, scope model.Scope, input CreateInput) (*model.TimeLog, error) {
	if !scope.Allows(input.UserID) {
		return nil, model.NewAuthorizationError("他ユーザーの工数登録")
	}

	date, err := time.ParseInLocation(dateLayout, input.Date, time.UTC)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("日付は%s形式で指定してください", dateLayout))
	}

	if input.Hours <= 0 || input.Hours > 24 {
		return nil, model.NewValidationError("作業時間は0より大きく24以下で指定してください")
	}

	summary := s.sanitizer.Sanitize(input.Summary)
	if summary == "" {
		return nil, model.NewValidationError("作業サマリーを入力してください")
	}

	tickets := make([]string, 0, len(input.Tickets))
	for _, ticket := range input.Tickets {
		ticket = strings.TrimSpace(ticket)
		if ticket == "" {
			return nil, model.NewValidationError("空のチケット参照は指定できません")
		}
		tickets = append(tickets, ticket)
	}

	workType := model.WorkType(input.WorkType)
	if !workType.IsValid() {
		return nil, model.NewValidationError("作業分類が不正です")
	}

	// ユーザーの存在確認（外部キー制約ではなくアプリケーションレベルの検証）
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewValidationError("存在しないユーザーです")
	}

	// 冪等キーが既に使われている場合は登録済みエントリをそのまま返す
	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, input.UserID, input.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("冪等キーの確認に失敗しました: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	now := time.Now().UTC()
	entry := &model.TimeLog{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserName:  user.Name,
		UserRole:  user.Role,
		Date:      date,
		Hours:     input.Hours,
		Summary:   summary,
		Tickets:   tickets,
		WorkType:  workType,
		Status:    model.TimeLogStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		entry.IdempotencyKey = &key
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("工数エントリの作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordEntryCreated()
	}

	s.recordActivity(ctx, model.Actor{ID: user.ID, Name: user.Name, Role: user.Role},
		"created timesheet", entry, nil)

	return entry, nil
}

// ListEntries はスコープとフィルタに合致するエントリをdate降順で返す。
// ScopeSelfの場合、フィルタのUserID指定に関わらず自分のエントリのみを返す。
func (s *Service) ListEntries(ctx context.Context, scope model.Scope, filter model.TimeLogFilter) ([]*model.TimeLog, error) {
	if !scope.IsAll() {
		filter.UserID = scope.UserID()
	}
	return s.repo.List(ctx, filter)
}

// SetStatus は未承認エントリを承認または却下する。
// approverのロールがマネージャーでない場合はAuthorizationError、
// エントリが存在しない場合はNotFound、pendingでない場合はInvalidStateTransitionを返す。
// 遷移判定はリポジトリの条件付きUPDATEで原子的に行われる。
func (s *Service) SetStatus(ctx context.Context, approver model.Actor, entryID string, newStatus model.TimeLogStatus, comment string) (*model.TimeLog, error) {
	if newStatus != model.TimeLogStatusApproved && newStatus != model.TimeLogStatusRejected {
		return nil, model.NewValidationError("ステータスはapprovedまたはrejectedを指定してください")
	}

	if approver.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("工数エントリの承認・却下")
	}

	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("工数エントリの取得に失敗しました: %w", err)
	}
	if entry == nil {
		return nil, model.NewTimeLogNotFoundError(entryID)
	}

	var commentPtr *string
	if trimmed := s.sanitizer.Sanitize(comment); trimmed != "" {
		commentPtr = &trimmed
	}

	updated, err := s.repo.UpdateStatusIfPending(ctx, entryID, newStatus, approver.ID, commentPtr, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("工数エントリのステータス更新に失敗しました: %w", err)
	}
	if !updated {
		// 条件付きUPDATEが0行: 並行する操作に先を越されたか、すでに処理済み
		current, err := s.repo.FindByID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("工数エントリの再取得に失敗しました: %w", err)
		}
		if current == nil {
			return nil, model.NewTimeLogNotFoundError(entryID)
		}
		return nil, model.NewInvalidStateTransitionError(current.Status)
	}

	result, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("更新後の工数エントリの取得に失敗しました: %w", err)
	}
	if result == nil {
		return nil, model.NewTimeLogNotFoundError(entryID)
	}

	if s.metrics != nil {
		s.metrics.RecordEntryDecided(string(newStatus))
	}

	action := "approved timesheet"
	if newStatus == model.TimeLogStatusRejected {
		action = "rejected timesheet"
	}
	s.recordActivity(ctx, approver, action, result, map[string]any{
		"hours": result.Hours,
		"date":  result.Date.Format(dateLayout),
	})

	return result, nil
}

// DeleteEntry は工数エントリを物理削除する。
// ScopeSelfの場合は自分のpendingエントリのみ削除できる。
// 削除前に監査レコードを書き込み、物理削除後も保持期間内は痕跡が残るようにする。
// 監査レコードの書き込みに失敗した場合、削除は実行しない。
func (s *Service) DeleteEntry(ctx context.Context, scope model.Scope, actor model.Actor, entryID string) error {
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("工数エントリの取得に失敗しました: %w", err)
	}
	if entry == nil {
		return model.NewTimeLogNotFoundError(entryID)
	}

	if !scope.IsAll() {
		if entry.UserID != scope.UserID() {
			return model.NewAuthorizationError("他ユーザーの工数削除")
		}
		if entry.Status != model.TimeLogStatusPending {
			return model.NewAuthorizationError("処理済みエントリの削除")
		}
	}

	if s.recorder != nil {
		_, err := s.recorder.Record(ctx, actor, "deleted timesheet",
			model.ActivityTarget{Type: "timelog", ID: entry.ID, Name: entry.UserName},
			map[string]any{
				"hours":  entry.Hours,
				"date":   entry.Date.Format(dateLayout),
				"status": string(entry.Status),
			},
		)
		if err != nil {
			return fmt.Errorf("削除の監査レコード書き込みに失敗しました: %w", err)
		}
	}

	deleted, err := s.repo.DeleteByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("工数エントリの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewTimeLogNotFoundError(entryID)
	}

	return nil
}

// recordActivity は監査レコードを書き込む。
// 作成・承認の監査は副作用であり、失敗しても本操作は成功扱いとしてログのみ残す。
func (s *Service) recordActivity(ctx context.Context, actor model.Actor, action string, entry *model.TimeLog, details map[string]any) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, actor, action,
		model.ActivityTarget{Type: "timelog", ID: entry.ID, Name: entry.UserName}, details)
	if err != nil {
		slog.Warn("監査レコードの書き込みに失敗しました",
			slog.String("action", action),
			slog.String("entry_id", entry.ID),
			slog.String("error", err.Error()),
		)
	}
}
