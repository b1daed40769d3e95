package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/roadmap"
)

// RoadmapServiceInterface はロードマップハンドラーが必要とするサービスインターフェース。
type RoadmapServiceInterface interface {
	ListPhases(ctx context.Context) ([]*model.RoadmapPhase, error)
	CreatePhase(ctx context.Context, actor model.Actor, input roadmap.PhaseInput) (*model.RoadmapPhase, error)
	UpdatePhase(ctx context.Context, actor model.Actor, id string, input roadmap.PhaseInput) (*model.RoadmapPhase, error)
	DeletePhase(ctx context.Context, actor model.Actor, id string) error
}

// RoadmapHandler はロードマップのHTTPハンドラー。
type RoadmapHandler struct {
	service RoadmapServiceInterface
}

// NewRoadmapHandler はRoadmapHandlerを生成する。
func NewRoadmapHandler(service RoadmapServiceInterface) *RoadmapHandler {
	return &RoadmapHandler{service: service}
}

// deliverableBody は成果物1件のリクエスト・レスポンス共用ボディ。
type deliverableBody struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// phaseRequest はフェーズ作成・更新リクエストのボディ。
type phaseRequest struct {
	PhaseLabel   string            `json:"phase_label"`
	DateLabel    string            `json:"date_label"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	Health       string            `json:"health"`
	Deliverables []deliverableBody `json:"deliverables"`
}

// phaseResponse はフェーズのAPIレスポンス。
type phaseResponse struct {
	ID           string            `json:"id"`
	PhaseLabel   string            `json:"phase_label"`
	DateLabel    string            `json:"date_label"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	Health       string            `json:"health"`
	Deliverables []deliverableBody `json:"deliverables"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// toPhaseResponse はドメインのRoadmapPhaseをレスポンス型に変換する。
func toPhaseResponse(phase *model.RoadmapPhase) phaseResponse {
	deliverables := make([]deliverableBody, len(phase.Deliverables))
	for i, d := range phase.Deliverables {
		deliverables[i] = deliverableBody{Text: d.Text, Status: string(d.Status)}
	}
	return phaseResponse{
		ID:           phase.ID,
		PhaseLabel:   phase.PhaseLabel,
		DateLabel:    phase.DateLabel,
		Title:        phase.Title,
		Description:  phase.Description,
		Status:       string(phase.Status),
		Health:       string(phase.Health),
		Deliverables: deliverables,
		CreatedAt:    phase.CreatedAt,
		UpdatedAt:    phase.UpdatedAt,
	}
}

// toPhaseInput はリクエストボディをサービス入力に変換する。
func toPhaseInput(req phaseRequest) roadmap.PhaseInput {
	deliverables := make([]roadmap.DeliverableInput, len(req.Deliverables))
	for i, d := range req.Deliverables {
		deliverables[i] = roadmap.DeliverableInput{Text: d.Text, Status: d.Status}
	}
	return roadmap.PhaseInput{
		PhaseLabel:   req.PhaseLabel,
		DateLabel:    req.DateLabel,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Health:       req.Health,
		Deliverables: deliverables,
	}
}

// ListPhases はロードマップの全フェーズを返す。
// GET /api/roadmap
func (h *RoadmapHandler) ListPhases(w http.ResponseWriter, r *http.Request) {
	phases, err := h.service.ListPhases(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]phaseResponse, len(phases))
	for i, phase := range phases {
		results[i] = toPhaseResponse(phase)
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// CreatePhase はフェーズを作成する。
// POST /api/roadmap
func (h *RoadmapHandler) CreatePhase(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req phaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	phase, err := h.service.CreatePhase(r.Context(), actor, toPhaseInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, toPhaseResponse(phase))
}

// UpdatePhase はフェーズを更新する。
// PUT /api/roadmap/{id}
func (h *RoadmapHandler) UpdatePhase(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req phaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	phase, err := h.service.UpdatePhase(r.Context(), actor, chi.URLParam(r, "id"), toPhaseInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, toPhaseResponse(phase))
}

// DeletePhase はフェーズを削除する。
// DELETE /api/roadmap/{id}
func (h *RoadmapHandler) DeletePhase(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	if err := h.service.DeletePhase(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "ロードマップフェーズを削除しました。"})
}
