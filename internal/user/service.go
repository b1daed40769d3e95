// Package user はユーザーアカウントの管理（マネージャー向け）を提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/auth"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/repository"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/security"
)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 8

// ActivityRecorder は監査ログへの記録インターフェース。
type ActivityRecorder interface {
	Record(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error)
}

// Service はユーザー管理のサービス層。
// すべての変更操作はマネージャーのみ許可される。
type Service struct {
	repo      repository.UserRepository
	sanitizer security.TextSanitizerService
	recorder  ActivityRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnil許容。
func NewService(repo repository.UserRepository, sanitizer security.TextSanitizerService, recorder ActivityRecorder) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// CreateInput はユーザー作成の入力。
type CreateInput struct {
	Email            string
	Name             string
	Role             string
	Password         string
	HourlyRate       float64
	Department       string
	DailyHoursTarget float64
}

// UpdateInput はユーザー更新の入力。
// Passwordが空文字列の場合、パスワードは変更しない。
type UpdateInput struct {
	Name             string
	Role             string
	Password         string
	HourlyRate       float64
	Department       string
	DailyHoursTarget float64
}

// ListUsers は全ユーザーを名前順で返す。マネージャーのみ実行できる。
func (s *Service) ListUsers(ctx context.Context, actor model.Actor) ([]*model.User, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("ユーザー一覧の閲覧")
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// GetUser は指定IDのユーザーを取得する。
// マネージャーは任意のユーザー、それ以外は自分自身のみ取得できる。
func (s *Service) GetUser(ctx context.Context, actor model.Actor, id string) (*model.User, error) {
	if actor.Role != model.RoleManager && actor.ID != id {
		return nil, model.NewAuthorizationError("他ユーザー情報の閲覧")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user", id)
	}
	return user, nil
}

// CreateUser はユーザーを作成する。マネージャーのみ実行できる。
// メールアドレスは小文字化せずそのまま保持し、重複はエラーとする。
func (s *Service) CreateUser(ctx context.Context, actor model.Actor, input CreateInput) (*model.User, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("ユーザーの作成")
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, model.NewValidationError("メールアドレスの形式が不正です")
	}
	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, model.NewValidationError("氏名を入力してください")
	}
	role := model.Role(input.Role)
	if !role.IsValid() {
		return nil, model.NewValidationError("ロールが不正です")
	}
	if len(input.Password) < minPasswordLength {
		return nil, model.NewValidationError(fmt.Sprintf("パスワードは%d文字以上で指定してください", minPasswordLength))
	}
	if input.HourlyRate < 0 {
		return nil, model.NewValidationError("時給は0以上で指定してください")
	}
	if input.DailyHoursTarget < 0 || input.DailyHoursTarget > 24 {
		return nil, model.NewValidationError("1日の目標時間は0以上24以下で指定してください")
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewValidationError("このメールアドレスは既に登録されています")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:               uuid.New().String(),
		Email:            input.Email,
		Name:             name,
		Role:             role,
		PasswordHash:     hash,
		HourlyRate:       input.HourlyRate,
		Department:       s.sanitizer.Sanitize(input.Department),
		DailyHoursTarget: input.DailyHoursTarget,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	s.record(ctx, actor, "created user", user, map[string]any{"role": string(role)})
	return user, nil
}

// UpdateUser はユーザー情報を更新する。マネージャーのみ実行できる。
// メールアドレスは変更できない。スーパー管理者のロールは変更できない。
func (s *Service) UpdateUser(ctx context.Context, actor model.Actor, id string, input UpdateInput) (*model.User, error) {
	if actor.Role != model.RoleManager {
		return nil, model.NewAuthorizationError("ユーザーの更新")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user", id)
	}

	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, model.NewValidationError("氏名を入力してください")
	}
	role := model.Role(input.Role)
	if !role.IsValid() {
		return nil, model.NewValidationError("ロールが不正です")
	}
	if user.IsSuperAdmin && role != user.Role {
		return nil, model.NewValidationError("スーパー管理者のロールは変更できません")
	}
	if input.HourlyRate < 0 {
		return nil, model.NewValidationError("時給は0以上で指定してください")
	}
	if input.DailyHoursTarget < 0 || input.DailyHoursTarget > 24 {
		return nil, model.NewValidationError("1日の目標時間は0以上24以下で指定してください")
	}

	user.Name = name
	user.Role = role
	user.HourlyRate = input.HourlyRate
	user.Department = s.sanitizer.Sanitize(input.Department)
	user.DailyHoursTarget = input.DailyHoursTarget
	if input.Password != "" {
		if len(input.Password) < minPasswordLength {
			return nil, model.NewValidationError(fmt.Sprintf("パスワードは%d文字以上で指定してください", minPasswordLength))
		}
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	s.record(ctx, actor, "updated user", user, nil)
	return user, nil
}

// DeleteUser はユーザーを削除する。マネージャーのみ実行できる。
// スーパー管理者と自分自身は削除できない。
func (s *Service) DeleteUser(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleManager {
		return model.NewAuthorizationError("ユーザーの削除")
	}
	if actor.ID == id {
		return model.NewValidationError("自分自身は削除できません")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewNotFoundError("user", id)
	}
	if user.IsSuperAdmin {
		return model.NewValidationError("スーパー管理者は削除できません")
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError("user", id)
	}

	s.record(ctx, actor, "deleted user", user, map[string]any{"role": string(user.Role)})
	return nil
}

func (s *Service) record(ctx context.Context, actor model.Actor, action string, user *model.User, details map[string]any) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, actor, action,
		model.ActivityTarget{Type: "user", ID: user.ID, Name: user.Name}, details)
	if err != nil {
		slog.Warn("failed to record activity", "action", action, "error", err)
	}
}
