// Package task はカンバンボード上のタスク管理を提供する。
package task

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

// dueDateLayout はタスク期限の日付形式。
const dueDateLayout = "2006-01-02"

// ActivityRecorder は監査ログへの記録インターフェース。
type ActivityRecorder interface {
	Record(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error)
}

// Service はカンバンタスクのサービス層。
// 参照は全ロールに開かれ、変更はマネージャーのみ許可される。
type Service struct {
	repo      repository.TaskRepository
	sanitizer security.TextSanitizerService
	recorder  ActivityRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil許容。
func NewService(repo repository.TaskRepository, sanitizer security.TextSanitizerService, recorder ActivityRecorder) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// Input はタスクの作成・更新の入力。
type Input struct {
	Name     string
	Assignee string
	Status   string
	DueDate  string // "2006-01-02" 形式。空文字列の場合は期限なし
	Priority string
}

// ListTasks は全タスクを作成順で返す。
func (s *Service) ListTasks(ctx context.Context) ([]*model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	return tasks, nil
}

// CreateTask はタスクを作成する。マネージャーのみ実行できる。
func (s *Service) CreateTask(ctx context.Context, actor model.Actor, input Input) (*model.Task, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("タスクボードの編集")
	}

	task, err := s.build(input)
	if err != nil {
		return nil, err
	}
	task.ID = uuid.New().String()
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	s.record(ctx, actor, "created task", task, nil)
	return task, nil
}

// UpdateTask はタスクを全項目更新する。マネージャーのみ実行できる。
// ボード上の列移動（ステータス変更）も本操作で行う。
func (s *Service) UpdateTask(ctx context.Context, actor model.Actor, id string, input Input) (*model.Task, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("タスクボードの編集")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewNotFoundError("task", id)
	}

	task, err := s.build(input)
	if err != nil {
		return nil, err
	}
	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}
	if !updated {
		return nil, model.NewNotFoundError("task", id)
	}

	var details map[string]any
	if existing.Status != task.Status {
		details = map[string]any{
			"from": string(existing.Status),
			"to":   string(task.Status),
		}
	}
	s.record(ctx, actor, "updated task", task, details)
	return task, nil
}

// DeleteTask はタスクを削除する。マネージャーのみ実行できる。
func (s *Service) DeleteTask(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleManager {
		return model.NewAuthorizationError("タスクボードの編集")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewNotFoundError("task", id)
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError("task", id)
	}

	s.record(ctx, actor, "deleted task", existing, nil)
	return nil
}

func (s *Service) build(input Input) (*model.Task, error) {
	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, model.NewValidationError("タスク名を入力してください")
	}

	status := model.TaskStatus(input.Status)
	if !status.IsValid() {
		return nil, model.NewValidationError("タスク状態が不正です")
	}
	priority := model.TaskPriority(input.Priority)
	if !priority.IsValid() {
		return nil, model.NewValidationError("優先度が不正です")
	}

	task := &model.Task{
		Name:     name,
		Assignee: s.sanitizer.Sanitize(input.Assignee),
		Status:   status,
		Priority: priority,
	}
	if input.DueDate != "" {
		due, err := time.ParseInLocation(dueDateLayout, input.DueDate, time.UTC)
		if err != nil {
			return nil, model.NewValidationError(fmt.Sprintf("期限は%s形式で指定してください", dueDateLayout))
		}
		task.DueDate = &due
	}
	return task, nil
}

func (s *Service) record(ctx context.Context, actor model.Actor, action string, task *model.Task, details map[string]any) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, actor, action,
		model.ActivityTarget{Type: "task", ID: task.ID, Name: task.Name}, details)
	if err != nil {
		slog.Warn("failed to record activity", "action", action, "error", err)
	}
}
