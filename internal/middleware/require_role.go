package middleware

import (
	"net/http"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// NewRequireRoleMiddleware は指定ロールのいずれかを持つユーザーのみ通過させる
// ミドルウェアを返す。認証ミドルウェアの後段に配置すること。
// ロールが合致しない場合は403を返す。
// ハンドラー配線の誤りに対する防波堤であり、権限判定の本体はサービス層が持つ。
func NewRequireRoleMiddleware(roles ...model.Role) func(next http.Handler) http.Handler {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := ActorFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError())
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				WriteErrorResponse(w, http.StatusForbidden, model.NewAuthorizationError("この操作"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
