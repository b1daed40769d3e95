package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// --- テストヘルパー ---

// withActor はテスト用にリクエストコンテキストに操作主体を注入するヘルパー。
func withActor(r *http.Request, actor model.Actor) *http.Request {
	return r.WithContext(middleware.ContextWithActor(r.Context(), actor))
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからエラーレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) apiErrorResponse {
	t.Helper()
	var result apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

var (
	managerActor   = model.Actor{ID: "mgr-1", Name: "Manager", Role: model.RoleManager}
	developerActor = model.Actor{ID: "user-1", Name: "Dev A", Role: model.RoleDeveloper}
)
