package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login はメールアドレスとパスワードを検証し、JWTとユーザー情報を返す。
	Login(ctx context.Context, email, password string) (string, *model.User, error)
}

// UserFinder は認証済みユーザーの取得インターフェース。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	users   UserFinder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, users UserFinder) *AuthHandler {
	return &AuthHandler{
		service: service,
		users:   users,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Login はログインを処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("メールアドレスとパスワードを入力してください"))
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// Me は認証済みユーザー自身の情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	user, err := h.users.FindByID(r.Context(), actor.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if user == nil {
		// トークンは有効だがユーザーが削除済みの場合
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}
