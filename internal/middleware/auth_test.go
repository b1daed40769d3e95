package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/auth"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// --- モック ---

type mockValidator struct {
	validateFn func(tokenString string) (*auth.Claims, error)
}

func (m *mockValidator) ValidateToken(tokenString string) (*auth.Claims, error) {
	if m.validateFn != nil {
		return m.validateFn(tokenString)
	}
	return nil, errors.New("invalid token")
}

func TestAuthMiddleware_MissingHeaderReturns401(t *testing.T) {
	mw := NewAuthMiddleware(&mockValidator{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/timelogs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if body.Code != model.ErrCodeAuthentication {
		t.Errorf("error code = %q, want %q", body.Code, model.ErrCodeAuthentication)
	}
}

func TestAuthMiddleware_NonBearerHeaderReturns401(t *testing.T) {
	mw := NewAuthMiddleware(&mockValidator{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/timelogs", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidTokenReturns401(t *testing.T) {
	validator := &mockValidator{
		validateFn: func(tokenString string) (*auth.Claims, error) {
			return nil, errors.New("token is expired")
		},
	}
	mw := NewAuthMiddleware(validator)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/timelogs", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidTokenStoresActor(t *testing.T) {
	validator := &mockValidator{
		validateFn: func(tokenString string) (*auth.Claims, error) {
			if tokenString != "valid-token" {
				t.Errorf("token = %q, want %q", tokenString, "valid-token")
			}
			return &auth.Claims{UserID: "user-1", Name: "Dev A", Role: model.RoleDeveloper}, nil
		},
	}
	mw := NewAuthMiddleware(validator)

	var gotActor model.Actor
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		if err != nil {
			t.Fatalf("ActorFromContext() error = %v", err)
		}
		gotActor = actor
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/timelogs", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if gotActor.ID != "user-1" || gotActor.Role != model.RoleDeveloper {
		t.Errorf("actor = %+v, want user-1/developer", gotActor)
	}
}

func TestActorFromContext_MissingReturnsError(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	if !errors.Is(err, ErrActorNotFound) {
		t.Errorf("error = %v, want ErrActorNotFound", err)
	}
}

func TestUserIDFromContext_RoundTrip(t *testing.T) {
	ctx := ContextWithActor(context.Background(), model.Actor{ID: "user-9", Role: model.RoleManager})

	id, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext() error = %v", err)
	}
	if id != "user-9" {
		t.Errorf("id = %q, want %q", id, "user-9")
	}
}
