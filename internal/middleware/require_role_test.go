package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

func TestRequireRoleMiddleware_AllowsMatchingRole(t *testing.T) {
	mw := NewRequireRoleMiddleware(model.RoleManager)

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	req = req.WithContext(ContextWithActor(req.Context(), model.Actor{ID: "mgr-1", Role: model.RoleManager}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !called {
		t.Error("handler should be called")
	}
}

func TestRequireRoleMiddleware_RejectsOtherRole(t *testing.T) {
	mw := NewRequireRoleMiddleware(model.RoleManager)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	req = req.WithContext(ContextWithActor(req.Context(), model.Actor{ID: "user-1", Role: model.RoleDeveloper}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

func TestRequireRoleMiddleware_AllowsAnyListedRole(t *testing.T) {
	mw := NewRequireRoleMiddleware(model.RoleManager, model.RoleLeadership)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports/summary", nil)
	req = req.WithContext(ContextWithActor(req.Context(), model.Actor{ID: "lead-1", Role: model.RoleLeadership}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRequireRoleMiddleware_MissingActorReturns401(t *testing.T) {
	mw := NewRequireRoleMiddleware(model.RoleManager)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
