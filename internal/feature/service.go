// Package feature はプロダクト機能の稼働状況ボードの管理を提供する。
package feature

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/repository"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/security"
)

// ActivityRecorder は監査ログへの記録インターフェース。
type ActivityRecorder interface {
	Record(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error)
}

// Service は機能ステータスのサービス層。
// 参照は全ロールに開かれ、変更はマネージャーのみ許可される。
type Service struct {
	repo      repository.FeatureStatusRepository
	sanitizer security.TextSanitizerService
	recorder  ActivityRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil許容。
func NewService(repo repository.FeatureStatusRepository, sanitizer security.TextSanitizerService, recorder ActivityRecorder) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// Input は機能ステータスの作成・更新の入力。
type Input struct {
	Name         string
	Status       string
	PublicNote   string
	LinkedTicket string // 空文字列の場合はチケット参照なし
}

// ListFeatures は全機能ステータスを名前順で返す。
func (s *Service) ListFeatures(ctx context.Context) ([]*model.FeatureStatus, error) {
	features, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("機能ステータスの取得に失敗しました: %w", err)
	}
	return features, nil
}

// CreateFeature は機能ステータスを作成する。マネージャーのみ実行できる。
func (s *Service) CreateFeature(ctx context.Context, actor model.Actor, input Input) (*model.FeatureStatus, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("機能ステータスの編集")
	}

	fs, err := s.build(input)
	if err != nil {
		return nil, err
	}
	fs.ID = uuid.New().String()
	now := time.Now().UTC()
	fs.CreatedAt = now
	fs.UpdatedAt = now

	if err := s.repo.Create(ctx, fs); err != nil {
		return nil, fmt.Errorf("機能ステータスの作成に失敗しました: %w", err)
	}

	s.record(ctx, actor, "created feature status", fs, nil)
	return fs, nil
}

// UpdateFeature は機能ステータスを全項目更新する。マネージャーのみ実行できる。
// 稼働状態が変化した場合は監査レコードに遷移前後を残す。
func (s *Service) UpdateFeature(ctx context.Context, actor model.Actor, id string, input Input) (*model.FeatureStatus, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("機能ステータスの編集")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("機能ステータスの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewNotFoundError("feature status", id)
	}

	fs, err := s.build(input)
	if err != nil {
		return nil, err
	}
	fs.ID = existing.ID
	fs.CreatedAt = existing.CreatedAt
	fs.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, fs)
	if err != nil {
		return nil, fmt.Errorf("機能ステータスの更新に失敗しました: %w", err)
	}
	if !updated {
		return nil, model.NewNotFoundError("feature status", id)
	}

	var details map[string]any
	if existing.Status != fs.Status {
		details = map[string]any{
			"from": string(existing.Status),
			"to":   string(fs.Status),
		}
	}
	s.record(ctx, actor, "updated feature status", fs, details)
	return fs, nil
}

// DeleteFeature は機能ステータスを削除する。マネージャーのみ実行できる。
func (s *Service) DeleteFeature(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleManager {
		return model.NewAuthorizationError("機能ステータスの編集")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("機能ステータスの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewNotFoundError("feature status", id)
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("機能ステータスの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError("feature status", id)
	}

	s.record(ctx, actor, "deleted feature status", existing, nil)
	return nil
}

func (s *Service) build(input Input) (*model.FeatureStatus, error) {
	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, model.NewValidationError("機能名を入力してください")
	}

	status := model.FeatureHealth(input.Status)
	if !status.IsValid() {
		return nil, model.NewValidationError("稼働状態が不正です")
	}

	fs := &model.FeatureStatus{
		Name:       name,
		Status:     status,
		PublicNote: s.sanitizer.Sanitize(input.PublicNote),
	}
	if ticket := s.sanitizer.Sanitize(input.LinkedTicket); ticket != "" {
		fs.LinkedTicket = &ticket
	}
	return fs, nil
}

func (s *Service) record(ctx context.Context, actor model.Actor, action string, fs *model.FeatureStatus, details map[string]any) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, actor, action,
		model.ActivityTarget{Type: "feature_status", ID: fs.ID, Name: fs.Name}, details)
	if err != nil {
		slog.Warn("failed to record activity", "action", action, "error", err)
	}
}
