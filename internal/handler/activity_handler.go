package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/activity"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// ActivityServiceInterface はアクティビティハンドラーが必要とするサービスインターフェース。
type ActivityServiceInterface interface {
	Query(ctx context.Context, scope model.Scope, input activity.QueryInput) ([]*model.ActivityLog, error)
}

// ActivityHandler はアクティビティログのHTTPハンドラー。
type ActivityHandler struct {
	service ActivityServiceInterface
}

// NewActivityHandler はActivityHandlerを生成する。
func NewActivityHandler(service ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// activityResponse は監査レコードのAPIレスポンス。
type activityResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	UserName   string         `json:"user_name"`
	UserRole   string         `json:"user_role"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	TargetName string         `json:"target_name"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

// toActivityResponse はドメインのActivityLogをレスポンス型に変換する。
func toActivityResponse(entry *model.ActivityLog) activityResponse {
	return activityResponse{
		ID:         entry.ID,
		UserID:     entry.UserID,
		UserName:   entry.UserName,
		UserRole:   string(entry.UserRole),
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		TargetName: entry.TargetName,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt,
	}
}

// ListOwn は認証済みユーザー自身の操作履歴を新しい順に返す。
// GET /api/activity
func (h *ActivityHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	h.list(w, r, model.ScopeSelf(actor.ID))
}

// ListAll は全ユーザーの操作履歴を新しい順に返す。
// GET /api/activity/all
func (h *ActivityHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	h.list(w, r, viewScope(actor))
}

func (h *ActivityHandler) list(w http.ResponseWriter, r *http.Request, scope model.Scope) {
	input := activity.QueryInput{
		ActorID: r.URL.Query().Get("actor_id"),
		Action:  r.URL.Query().Get("action"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("fromはRFC3339形式で指定してください"))
			return
		}
		input.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("toはRFC3339形式で指定してください"))
			return
		}
		input.To = to
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("limitを数値で指定してください"))
			return
		}
		input.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("offsetを数値で指定してください"))
			return
		}
		input.Offset = offset
	}

	entries, err := h.service.Query(r.Context(), scope, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]activityResponse, len(entries))
	for i, entry := range entries {
		results[i] = toActivityResponse(entry)
	}
	writeJSONResponse(w, http.StatusOK, results)
}
