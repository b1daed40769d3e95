// Package sharedlink はロードマップと機能ステータスの読み取り専用共有リンクを提供する。
//
// マネージャーが発行したトークンを知っていれば、認証なしでスナップショットを
// 閲覧できる。スナップショットに工数・金額・ユーザー情報は一切含まれない。
package sharedlink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/repository"
)

// ActivityRecorder は監査ログへの記録インターフェース。
type ActivityRecorder interface {
	Record(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error)
}

// Service は共有リンクのサービス層。
type Service struct {
	repo        repository.SharedLinkRepository
	roadmapRepo repository.RoadmapRepository
	featureRepo repository.FeatureStatusRepository
	recorder    ActivityRecorder
	now         func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil許容。
func NewService(
	repo repository.SharedLinkRepository,
	roadmapRepo repository.RoadmapRepository,
	featureRepo repository.FeatureStatusRepository,
	recorder ActivityRecorder,
) *Service {
	return &Service{
		repo:        repo,
		roadmapRepo: roadmapRepo,
		featureRepo: featureRepo,
		recorder:    recorder,
		now:         time.Now,
	}
}

// Snapshot は共有リンク経由で公開される読み取り専用ビュー。
type Snapshot struct {
	Phases   []*model.RoadmapPhase
	Features []*model.FeatureStatus
}

// Mint は新しい共有リンクを発行する。マネージャーのみ実行できる。
// expiresAtがnilの場合は無期限のリンクになる。
func (s *Service) Mint(ctx context.Context, actor model.Actor, expiresAt *time.Time) (*model.SharedLink, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("共有リンクの発行")
	}
	if expiresAt != nil && expiresAt.Before(s.now().UTC()) {
		return nil, model.NewValidationError("有効期限は未来の日時を指定してください")
	}

	link := &model.SharedLink{
		ID:        uuid.New().String(),
		Token:     uuid.New().String(),
		CreatedBy: actor.ID,
		ExpiresAt: expiresAt,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("共有リンクの作成に失敗しました: %w", err)
	}

	s.record(ctx, actor, "created shared link", link)
	return link, nil
}

// Resolve はトークンから共有スナップショットを解決する。認証不要。
// トークンが存在しないか期限切れの場合はNotFoundを返す
// （期限切れを区別して返すとトークンの実在が漏れるため）。
func (s *Service) Resolve(ctx context.Context, token string) (*Snapshot, error) {
	if token == "" {
		return nil, model.NewNotFoundError("shared link", token)
	}

	link, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("共有リンクの取得に失敗しました: %w", err)
	}
	if link == nil || link.IsExpired(s.now().UTC()) {
		return nil, model.NewNotFoundError("shared link", token)
	}

	phases, err := s.roadmapRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ロードマップの取得に失敗しました: %w", err)
	}
	features, err := s.featureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("機能ステータスの取得に失敗しました: %w", err)
	}

	return &Snapshot{Phases: phases, Features: features}, nil
}

// Revoke は共有リンクを失効させる。マネージャーのみ実行できる。
func (s *Service) Revoke(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleManager {
		return model.NewAuthorizationError("共有リンクの失効")
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("共有リンクの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError("shared link", id)
	}

	s.record(ctx, actor, "revoked shared link", &model.SharedLink{ID: id})
	return nil
}

func (s *Service) record(ctx context.Context, actor model.Actor, action string, link *model.SharedLink) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, actor, action,
		model.ActivityTarget{Type: "shared_link", ID: link.ID}, nil)
	if err != nil {
		slog.Warn("failed to record activity", "action", action, "error", err)
	}
}
