package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/sharedlink"
)

// SharedLinkServiceInterface は共有リンクハンドラーが必要とするサービスインターフェース。
type SharedLinkServiceInterface interface {
	Mint(ctx context.Context, actor model.Actor, expiresAt *time.Time) (*model.SharedLink, error)
	Resolve(ctx context.Context, token string) (*sharedlink.Snapshot, error)
	Revoke(ctx context.Context, actor model.Actor, id string) error
}

// SharedLinkHandler は共有リンクのHTTPハンドラー。
type SharedLinkHandler struct {
	service SharedLinkServiceInterface
}

// NewSharedLinkHandler はSharedLinkHandlerを生成する。
func NewSharedLinkHandler(service SharedLinkServiceInterface) *SharedLinkHandler {
	return &SharedLinkHandler{service: service}
}

// mintRequest は共有リンク発行リクエストのボディ。
type mintRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

// sharedLinkResponse は共有リンクのAPIレスポンス。
type sharedLinkResponse struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	CreatedBy string     `json:"created_by"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// snapshotResponse は共有リンク経由で公開される読み取り専用ビュー。
type snapshotResponse struct {
	Phases   []phaseResponse   `json:"phases"`
	Features []featureResponse `json:"features"`
}

// Mint は共有リンクを発行する。
// POST /api/shared-links
func (h *SharedLinkHandler) Mint(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	link, err := h.service.Mint(r.Context(), actor, req.ExpiresAt)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, sharedLinkResponse{
		ID:        link.ID,
		Token:     link.Token,
		CreatedBy: link.CreatedBy,
		ExpiresAt: link.ExpiresAt,
		CreatedAt: link.CreatedAt,
	})
}

// Revoke は共有リンクを失効させる。
// DELETE /api/shared-links/{id}
func (h *SharedLinkHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	if err := h.service.Revoke(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "共有リンクを失効しました。"})
}

// ResolvePublic はトークンから共有スナップショットを返す。認証不要。
// GET /public/shared/{token}
func (h *SharedLinkHandler) ResolvePublic(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := snapshotResponse{
		Phases:   make([]phaseResponse, len(snapshot.Phases)),
		Features: make([]featureResponse, len(snapshot.Features)),
	}
	for i, phase := range snapshot.Phases {
		resp.Phases[i] = toPhaseResponse(phase)
	}
	for i, fs := range snapshot.Features {
		resp.Features[i] = toFeatureResponse(fs)
	}
	writeJSONResponse(w, http.StatusOK, resp)
}
