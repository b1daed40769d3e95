package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	ListTasks(ctx context.Context) ([]*model.Task, error)
	CreateTask(ctx context.Context, actor model.Actor, input task.Input) (*model.Task, error)
	UpdateTask(ctx context.Context, actor model.Actor, id string, input task.Input) (*model.Task, error)
	DeleteTask(ctx context.Context, actor model.Actor, id string) error
}

// TaskHandler はカンバンタスクのHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskRequest はタスク作成・更新リクエストのボディ。
type taskRequest struct {
	Name     string `json:"name"`
	Assignee string `json:"assignee"`
	Status   string `json:"status"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
}

// taskResponse はタスクのAPIレスポンス。
type taskResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Assignee  string    `json:"assignee"`
	Status    string    `json:"status"`
	DueDate   *string   `json:"due_date"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toTaskResponse はドメインのTaskをレスポンス型に変換する。
func toTaskResponse(t *model.Task) taskResponse {
	resp := taskResponse{
		ID:        t.ID,
		Name:      t.Name,
		Assignee:  t.Assignee,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}

// ListTasks はタスク一覧を返す。
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		results[i] = toTaskResponse(t)
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// CreateTask はタスクを作成する。
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	t, err := h.service.CreateTask(r.Context(), actor, task.Input{
		Name:     req.Name,
		Assignee: req.Assignee,
		Status:   req.Status,
		DueDate:  req.DueDate,
		Priority: req.Priority,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, toTaskResponse(t))
}

// UpdateTask はタスクを更新する。
// PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	t, err := h.service.UpdateTask(r.Context(), actor, chi.URLParam(r, "id"), task.Input{
		Name:     req.Name,
		Assignee: req.Assignee,
		Status:   req.Status,
		DueDate:  req.DueDate,
		Priority: req.Priority,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, toTaskResponse(t))
}

// DeleteTask はタスクを削除する。
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	if err := h.service.DeleteTask(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "タスクを削除しました。"})
}
