package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error)    { return nil, nil }
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func testConfig() ServiceConfig {
	return ServiceConfig{
		JWTSecret:     "test-secret-for-unit-tests",
		JWTExpiration: time.Hour,
	}
}

func userWithPassword(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return &model.User{
		ID:           "user-1",
		Email:        "dev@example.com",
		Name:         "Dev A",
		Role:         model.RoleDeveloper,
		PasswordHash: hash,
	}
}

func TestLogin_Success(t *testing.T) {
	user := userWithPassword(t, "correct horse")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "dev@example.com" {
				return user, nil
			}
			return nil, nil
		},
	}
	svc := NewService(repo, testConfig())

	token, got, err := svc.Login(context.Background(), "dev@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Error("token should not be empty")
	}
	if got.ID != "user-1" {
		t.Errorf("user.ID = %s, want user-1", got.ID)
	}
}

func TestLogin_UnknownEmailAndWrongPasswordReturnSameError(t *testing.T) {
	user := userWithPassword(t, "correct horse")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "dev@example.com" {
				return user, nil
			}
			return nil, nil
		},
	}
	svc := NewService(repo, testConfig())

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, errWrongPw := svc.Login(context.Background(), "dev@example.com", "wrong password")

	var apiErr1, apiErr2 *model.APIError
	if !errors.As(errUnknown, &apiErr1) || !errors.As(errWrongPw, &apiErr2) {
		t.Fatalf("errors = %v, %v, want APIError", errUnknown, errWrongPw)
	}
	// 列挙攻撃対策: どちらのケースも見分けがつかないこと
	if apiErr1.Code != apiErr2.Code || apiErr1.Message != apiErr2.Message {
		t.Errorf("errors differ: %v vs %v", apiErr1, apiErr2)
	}
	if apiErr1.Code != model.ErrCodeAuthentication {
		t.Errorf("code = %s, want %s", apiErr1.Code, model.ErrCodeAuthentication)
	}
}

func TestValidateToken_RoundTrip(t *testing.T) {
	svc := NewService(&mockUserRepo{}, testConfig())

	user := &model.User{ID: "mgr-1", Name: "Manager", Role: model.RoleManager}
	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "mgr-1" || claims.Role != model.RoleManager {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewService(&mockUserRepo{}, testConfig())
	other := NewService(&mockUserRepo{}, ServiceConfig{JWTSecret: "different-secret", JWTExpiration: time.Hour})

	token, err := svc.GenerateToken(&model.User{ID: "user-1", Role: model.RoleDeveloper})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret should be rejected")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewService(&mockUserRepo{}, ServiceConfig{
		JWTSecret:     "test-secret-for-unit-tests",
		JWTExpiration: -time.Minute,
	})

	token, err := svc.GenerateToken(&model.User{ID: "user-1", Role: model.RoleDeveloper})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("expired token should be rejected")
	}
}
