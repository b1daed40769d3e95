package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/user"
)

// UserServiceInterface はユーザー管理ハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	ListUsers(ctx context.Context, actor model.Actor) ([]*model.User, error)
	GetUser(ctx context.Context, actor model.Actor, id string) (*model.User, error)
	CreateUser(ctx context.Context, actor model.Actor, input user.CreateInput) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.Actor, id string, input user.UpdateInput) (*model.User, error)
	DeleteUser(ctx context.Context, actor model.Actor, id string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュは決して含めない。
type userResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	HourlyRate       float64   `json:"hourly_rate"`
	Department       string    `json:"department"`
	DailyHoursTarget float64   `json:"daily_hours_target"`
	IsSuperAdmin     bool      `json:"is_super_admin"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// toUserResponse はドメインのUserをレスポンス型に変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             string(u.Role),
		HourlyRate:       u.HourlyRate,
		Department:       u.Department,
		DailyHoursTarget: u.DailyHoursTarget,
		IsSuperAdmin:     u.IsSuperAdmin,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// createUserRequest はユーザー作成リクエストのボディ。
type createUserRequest struct {
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	Password         string  `json:"password"`
	HourlyRate       float64 `json:"hourly_rate"`
	Department       string  `json:"department"`
	DailyHoursTarget float64 `json:"daily_hours_target"`
}

// updateUserRequest はユーザー更新リクエストのボディ。
type updateUserRequest struct {
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	Password         string  `json:"password"`
	HourlyRate       float64 `json:"hourly_rate"`
	Department       string  `json:"department"`
	DailyHoursTarget float64 `json:"daily_hours_target"`
}

// ListUsers はユーザー一覧を返す。
// GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	users, err := h.service.ListUsers(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]userResponse, len(users))
	for i, u := range users {
		results[i] = toUserResponse(u)
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// GetUser はユーザー詳細を返す。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	u, err := h.service.GetUser(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, toUserResponse(u))
}

// CreateUser はユーザーを作成する。
// POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	u, err := h.service.CreateUser(r.Context(), actor, user.CreateInput{
		Email:            req.Email,
		Name:             req.Name,
		Role:             req.Role,
		Password:         req.Password,
		HourlyRate:       req.HourlyRate,
		Department:       req.Department,
		DailyHoursTarget: req.DailyHoursTarget,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, toUserResponse(u))
}

// UpdateUser はユーザーを更新する。
// PUT /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	u, err := h.service.UpdateUser(r.Context(), actor, chi.URLParam(r, "id"), user.UpdateInput{
		Name:             req.Name,
		Role:             req.Role,
		Password:         req.Password,
		HourlyRate:       req.HourlyRate,
		Department:       req.Department,
		DailyHoursTarget: req.DailyHoursTarget,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, toUserResponse(u))
}

// DeleteUser はユーザーを削除する。
// DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	if err := h.service.DeleteUser(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "ユーザーを削除しました。"})
}
