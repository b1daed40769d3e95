package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/auth"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// contextKey はコンテキストキーの衝突を防ぐための専用型。
type contextKey string

const actorContextKey contextKey = "actor"

// ErrActorNotFound はコンテキストに認証情報が存在しないことを示す。
var ErrActorNotFound = errors.New("actor not found in context")

// TokenValidator はJWTの検証インターフェース。auth.Serviceの部分集合。
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// 操作主体（Actor）をリクエストコンテキストに格納するミドルウェアを返す。
// トークンが欠落・不正・期限切れの場合は401を返す。
func NewAuthMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
				return
			}

			actor := model.Actor{
				ID:   claims.UserID,
				Name: claims.Name,
				Role: claims.Role,
			}
			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext はコンテキストから操作主体を取り出す。
func ActorFromContext(ctx context.Context) (model.Actor, error) {
	actor, ok := ctx.Value(actorContextKey).(model.Actor)
	if !ok || actor.ID == "" {
		return model.Actor{}, ErrActorNotFound
	}
	return actor, nil
}

// UserIDFromContext はコンテキストから認証済みユーザーIDを取り出す。
func UserIDFromContext(ctx context.Context) (string, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return "", err
	}
	return actor.ID, nil
}

// ContextWithActor は操作主体を格納したコンテキストを返す。テスト用。
func ContextWithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}
