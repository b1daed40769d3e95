// Package roadmap はデリバリーロードマップ（フェーズと成果物）の管理を提供する。
package roadmap

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

// Service はロードマップフェーズのサービス層。
// 参照は全ロールに開かれ、変更はマネージャーのみ許可される。
type Service struct {
	repo      repository.RoadmapRepository
	sanitizer security.TextSanitizerService
	recorder  ActivityRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil許容。
func NewService(repo repository.RoadmapRepository, sanitizer security.TextSanitizerService, recorder ActivityRecorder) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// PhaseInput はフェーズの作成・更新の入力。
type PhaseInput struct {
	PhaseLabel   string
	DateLabel    string
	Title        string
	Description  string
	Status       string
	Health       string
	Deliverables []DeliverableInput
}

// DeliverableInput は成果物1件の入力。
type DeliverableInput struct {
	Text   string
	Status string
}

// ListPhases は全フェーズを作成順で返す。
func (s *Service) ListPhases(ctx context.Context) ([]*model.RoadmapPhase, error) {
	phases, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ロードマップの取得に失敗しました: %w", err)
	}
	return phases, nil
}

// CreatePhase はロードマップフェーズを作成する。マネージャーのみ実行できる。
func (s *Service) CreatePhase(ctx context.Context, actor model.Actor, input PhaseInput) (*model.RoadmapPhase, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("ロードマップの編集")
	}

	phase, err := s.buildPhase(input)
	if err != nil {
		return nil, err
	}
	phase.ID = uuid.New().String()
	now := time.Now().UTC()
	phase.CreatedAt = now
	phase.UpdatedAt = now

	if err := s.repo.Create(ctx, phase); err != nil {
		return nil, fmt.Errorf("ロードマップフェーズの作成に失敗しました: %w", err)
	}

	s.record(ctx, actor, "created roadmap phase", phase)
	return phase, nil
}

// UpdatePhase はロードマップフェーズを全項目更新する。マネージャーのみ実行できる。
func (s *Service) UpdatePhase(ctx context.Context, actor model.Actor, id string, input PhaseInput) (*model.RoadmapPhase, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("ロードマップの編集")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ロードマップフェーズの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewNotFoundError("roadmap phase", id)
	}

	phase, err := s.buildPhase(input)
	if err != nil {
		return nil, err
	}
	phase.ID = existing.ID
	phase.CreatedAt = existing.CreatedAt
	phase.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, phase)
	if err != nil {
		return nil, fmt.Errorf("ロードマップフェーズの更新に失敗しました: %w", err)
	}
	if !updated {
		return nil, model.NewNotFoundError("roadmap phase", id)
	}

	s.record(ctx, actor, "updated roadmap phase", phase)
	return phase, nil
}

// DeletePhase はロードマップフェーズを削除する。マネージャーのみ実行できる。
func (s *Service) DeletePhase(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleManager {
		return model.NewAuthorizationError("ロードマップの編集")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ロードマップフェーズの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewNotFoundError("roadmap phase", id)
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ロードマップフェーズの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError("roadmap phase", id)
	}

	s.record(ctx, actor, "deleted roadmap phase", existing)
	return nil
}

// buildPhase は入力を検証して永続化前のフェーズを組み立てる。
func (s *Service) buildPhase(input PhaseInput) (*model.RoadmapPhase, error) {
	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, model.NewValidationError("フェーズのタイトルを入力してください")
	}

	status := model.PhaseStatus(input.Status)
	if !status.IsValid() {
		return nil, model.NewValidationError("フェーズの進行状態が不正です")
	}
	health := model.PhaseHealth(input.Health)
	if !health.IsValid() {
		return nil, model.NewValidationError("フェーズの健全性が不正です")
	}

	// 成果物の並び順は入力順をそのまま保持する
	deliverables := make([]model.Deliverable, 0, len(input.Deliverables))
	for _, d := range input.Deliverables {
		text := s.sanitizer.Sanitize(d.Text)
		if text == "" {
			return nil, model.NewValidationError("成果物の内容を入力してください")
		}
		dStatus := model.DeliverableStatus(d.Status)
		if !dStatus.IsValid() {
			return nil, model.NewValidationError("成果物の進捗状態が不正です")
		}
		deliverables = append(deliverables, model.Deliverable{Text: text, Status: dStatus})
	}

	return &model.RoadmapPhase{
		PhaseLabel:   s.sanitizer.Sanitize(input.PhaseLabel),
		DateLabel:    s.sanitizer.Sanitize(input.DateLabel),
		Title:        title,
		Description:  s.sanitizer.Sanitize(input.Description),
		Status:       status,
		Health:       health,
		Deliverables: deliverables,
	}, nil
}

func (s *Service) record(ctx context.Context, actor model.Actor, action string, phase *model.RoadmapPhase) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, actor, action,
		model.ActivityTarget{Type: "roadmap_phase", ID: phase.ID, Name: phase.Title}, nil)
	if err != nil {
		// 監査は副作用であり、失敗しても本操作は巻き戻さない
		slog.Warn("failed to record activity", "action", action, "error", err)
	}
}
