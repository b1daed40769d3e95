package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/timelog"
)

// TimeLogServiceInterface は工数ハンドラーが必要とするサービスインターフェース。
type TimeLogServiceInterface interface {
	CreateEntry(ctx context.Context, scope model.Scope, input timelog.CreateInput) (*model.TimeLog, error)
	ListEntries(ctx context.Context, scope model.Scope, filter model.TimeLogFilter) ([]*model.TimeLog, error)
	SetStatus(ctx context.Context, approver model.Actor, entryID string, newStatus model.TimeLogStatus, comment string) (*model.TimeLog, error)
	DeleteEntry(ctx context.Context, scope model.Scope, actor model.Actor, entryID string) error
}

// TimeLogHandler は工数エントリのHTTPハンドラー。
type TimeLogHandler struct {
	service TimeLogServiceInterface
}

// NewTimeLogHandler はTimeLogHandlerを生成する。
func NewTimeLogHandler(service TimeLogServiceInterface) *TimeLogHandler {
	return &TimeLogHandler{service: service}
}

// createTimeLogRequest は工数エントリ作成リクエストのボディ。
// UserIDを省略した場合は認証済みユーザー自身のエントリとして作成する。
type createTimeLogRequest struct {
	UserID         string   `json:"user_id"`
	Date           string   `json:"date"`
	Hours          float64  `json:"hours"`
	Summary        string   `json:"summary"`
	Tickets        []string `json:"tickets"`
	WorkType       string   `json:"work_type"`
	IdempotencyKey string   `json:"idempotency_key"`
}

// setStatusRequest は承認・却下リクエストのボディ。
type setStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// timeLogResponse は工数エントリのAPIレスポンス。
type timeLogResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	UserName       string    `json:"user_name"`
	UserRole       string    `json:"user_role"`
	Date           string    `json:"date"`
	Hours          float64   `json:"hours"`
	Summary        string    `json:"summary"`
	Tickets        []string  `json:"tickets"`
	WorkType       string    `json:"work_type"`
	Status         string    `json:"status"`
	ApprovedBy     *string   `json:"approved_by"`
	ManagerComment *string   `json:"manager_comment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// toTimeLogResponse はドメインのTimeLogをレスポンス型に変換する。
func toTimeLogResponse(entry *model.TimeLog) timeLogResponse {
	tickets := entry.Tickets
	if tickets == nil {
		tickets = []string{}
	}
	return timeLogResponse{
		ID:             entry.ID,
		UserID:         entry.UserID,
		UserName:       entry.UserName,
		UserRole:       string(entry.UserRole),
		Date:           entry.Date.Format("2006-01-02"),
		Hours:          entry.Hours,
		Summary:        entry.Summary,
		Tickets:        tickets,
		WorkType:       string(entry.WorkType),
		Status:         string(entry.Status),
		ApprovedBy:     entry.ApprovedBy,
		ManagerComment: entry.ManagerComment,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
	}
}

// CreateEntry は工数エントリ作成を処理する。
// POST /api/timelogs
func (h *TimeLogHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req createTimeLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = actor.ID
	}

	entry, err := h.service.CreateEntry(r.Context(), editScope(actor), timelog.CreateInput{
		UserID:         userID,
		Date:           req.Date,
		Hours:          req.Hours,
		Summary:        req.Summary,
		Tickets:        req.Tickets,
		WorkType:       req.WorkType,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toTimeLogResponse(entry))
}

// ListEntries は工数エントリ一覧を返す。
// GET /api/timelogs?user_id=&status=&from=&to=
func (h *TimeLogHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	filter := model.TimeLogFilter{
		UserID: r.URL.Query().Get("user_id"),
		Status: model.TimeLogStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("fromは2006-01-02形式で指定してください"))
			return
		}
		filter.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("toは2006-01-02形式で指定してください"))
			return
		}
		filter.To = to
	}

	entries, err := h.service.ListEntries(r.Context(), viewScope(actor), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]timeLogResponse, len(entries))
	for i, entry := range entries {
		results[i] = toTimeLogResponse(entry)
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// SetStatus は工数エントリの承認・却下を処理する。
// PATCH /api/timelogs/{id}/status
func (h *TimeLogHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	entry, err := h.service.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), model.TimeLogStatus(req.Status), req.Comment)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTimeLogResponse(entry))
}

// DeleteEntry は工数エントリの削除を処理する。
// DELETE /api/timelogs/{id}
func (h *TimeLogHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	if err := h.service.DeleteEntry(r.Context(), editScope(actor), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "工数エントリを削除しました。"})
}
