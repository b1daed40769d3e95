// Package activity は操作履歴（アクティビティログ）の記録と照会を提供する。
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/repository"
)

// DefaultQueryLimit は照会時のデフォルト取得件数。
const DefaultQueryLimit = 50

// MaxQueryLimit は照会時の取得件数の上限。
const MaxQueryLimit = 200

// MetricsRecorder はアクティビティ記録のメトリクス収集インターフェース。
type MetricsRecorder interface {
	RecordActivity()
}

// Service はアクティビティログのサービス層。
type Service struct {
	repo          repository.ActivityLogRepository
	retentionDays int
	metrics       MetricsRecorder
	now           func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnil許容。
func NewService(repo repository.ActivityLogRepository, retentionDays int, metrics MetricsRecorder) *Service {
	return &Service{
		repo:          repo,
		retentionDays: retentionDays,
		metrics:       metrics,
		now:           time.Now,
	}
}

// Record は操作履歴を1件記録する。
// 匿名の操作は記録できない。actor IDが空の場合は認証エラーを返す。
func (s *Service) Record(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error) {
	if actor.ID == "" {
		return nil, model.NewAuthenticationError()
	}
	if action == "" {
		return nil, model.NewValidationError("操作内容を指定してください")
	}

	entry := &model.ActivityLog{
		ID:         uuid.New().String(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		Action:     action,
		TargetType: target.Type,
		TargetID:   target.ID,
		TargetName: target.Name,
		Details:    details,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("アクティビティログの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordActivity()
	}

	return entry, nil
}

// QueryInput はアクティビティ照会の条件。
type QueryInput struct {
	ActorID string
	Action  string
	From    time.Time
	To      time.Time
	Limit   int
	Offset  int
}

// Query はアクティビティログを新しい順に照会する。
// 期間未指定の場合は保持期間ぶん（直近retentionDays日）を対象とする。
// scopeが本人限定の場合、ActorIDの指定は無視され本人の操作のみ返す。
func (s *Service) Query(ctx context.Context, scope model.Scope, input QueryInput) ([]*model.ActivityLog, error) {
	filter := model.ActivityFilter{
		ActorID: input.ActorID,
		Action:  input.Action,
		From:    input.From,
		To:      input.To,
	}
	if !scope.IsAll() {
		filter.ActorID = scope.UserID()
	}

	if filter.From.IsZero() && filter.To.IsZero() {
		now := s.now().UTC()
		filter.From = now.AddDate(0, 0, -s.retentionDays)
		filter.To = now
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, model.NewValidationError("期間の終了日時は開始日時より後を指定してください")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("アクティビティログの取得に失敗しました: %w", err)
	}
	return entries, nil
}
