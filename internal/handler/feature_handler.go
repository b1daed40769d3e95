package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/feature"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// FeatureServiceInterface は機能ステータスハンドラーが必要とするサービスインターフェース。
type FeatureServiceInterface interface {
	ListFeatures(ctx context.Context) ([]*model.FeatureStatus, error)
	CreateFeature(ctx context.Context, actor model.Actor, input feature.Input) (*model.FeatureStatus, error)
	UpdateFeature(ctx context.Context, actor model.Actor, id string, input feature.Input) (*model.FeatureStatus, error)
	DeleteFeature(ctx context.Context, actor model.Actor, id string) error
}

// FeatureHandler は機能ステータスのHTTPハンドラー。
type FeatureHandler struct {
	service FeatureServiceInterface
}

// NewFeatureHandler はFeatureHandlerを生成する。
func NewFeatureHandler(service FeatureServiceInterface) *FeatureHandler {
	return &FeatureHandler{service: service}
}

// featureRequest は機能ステータス作成・更新リクエストのボディ。
type featureRequest struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	PublicNote   string `json:"public_note"`
	LinkedTicket string `json:"linked_ticket"`
}

// featureResponse は機能ステータスのAPIレスポンス。
type featureResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	PublicNote   string    `json:"public_note"`
	LinkedTicket *string   `json:"linked_ticket"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// toFeatureResponse はドメインのFeatureStatusをレスポンス型に変換する。
func toFeatureResponse(fs *model.FeatureStatus) featureResponse {
	return featureResponse{
		ID:           fs.ID,
		Name:         fs.Name,
		Status:       string(fs.Status),
		PublicNote:   fs.PublicNote,
		LinkedTicket: fs.LinkedTicket,
		CreatedAt:    fs.CreatedAt,
		UpdatedAt:    fs.UpdatedAt,
	}
}

// ListFeatures は機能ステータス一覧を返す。
// GET /api/features
func (h *FeatureHandler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := h.service.ListFeatures(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]featureResponse, len(features))
	for i, fs := range features {
		results[i] = toFeatureResponse(fs)
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// CreateFeature は機能ステータスを作成する。
// POST /api/features
func (h *FeatureHandler) CreateFeature(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req featureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	fs, err := h.service.CreateFeature(r.Context(), actor, feature.Input{
		Name:         req.Name,
		Status:       req.Status,
		PublicNote:   req.PublicNote,
		LinkedTicket: req.LinkedTicket,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, toFeatureResponse(fs))
}

// UpdateFeature は機能ステータスを更新する。
// PUT /api/features/{id}
func (h *FeatureHandler) UpdateFeature(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req featureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	fs, err := h.service.UpdateFeature(r.Context(), actor, chi.URLParam(r, "id"), feature.Input{
		Name:         req.Name,
		Status:       req.Status,
		PublicNote:   req.PublicNote,
		LinkedTicket: req.LinkedTicket,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, toFeatureResponse(fs))
}

// DeleteFeature は機能ステータスを削除する。
// DELETE /api/features/{id}
func (h *FeatureHandler) DeleteFeature(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	if err := h.service.DeleteFeature(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "機能ステータスを削除しました。"})
}
