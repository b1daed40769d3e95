package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/metrics"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/middleware"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// HealthChecker はDBへの疎通確認を行う。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	TokenValidator    middleware.TokenValidator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusObserver    middleware.StatusObserver

	// メトリクス公開
	MetricsRegistry *prometheus.Registry

	// サービス
	AuthService       AuthServiceInterface
	UserFinder        UserFinder
	TimeLogService    TimeLogServiceInterface
	ReportService     ReportServiceInterface
	ActivityService   ActivityServiceInterface
	RoadmapService    RoadmapServiceInterface
	FeatureService    FeatureServiceInterface
	TaskService       TaskServiceInterface
	UserService       UserServiceInterface
	SharedLinkService SharedLinkServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → (認証ルートのみ) Auth → RateLimit(General)
//
// /health・/metrics・/auth/login・/public/* は認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusObserver))

	authHandler := NewAuthHandler(deps.AuthService, deps.UserFinder)
	timeLogHandler := NewTimeLogHandler(deps.TimeLogService)
	reportHandler := NewReportHandler(deps.ReportService)
	activityHandler := NewActivityHandler(deps.ActivityService)
	roadmapHandler := NewRoadmapHandler(deps.RoadmapService)
	featureHandler := NewFeatureHandler(deps.FeatureService)
	taskHandler := NewTaskHandler(deps.TaskService)
	userHandler := NewUserHandler(deps.UserService)
	sharedLinkHandler := NewSharedLinkHandler(deps.SharedLinkService)

	requireManager := middleware.NewRequireRoleMiddleware(model.RoleManager)
	requireViewAll := middleware.NewRequireRoleMiddleware(model.RoleManager, model.RoleLeadership)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.SetupMetricsRoute(deps.MetricsRegistry))
	}

	// ログインはIP単位のレート制限のみ適用
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/auth/login", authHandler.Login)

	// 共有リンクの公開ビュー
	r.Get("/public/shared/{token}", sharedLinkHandler.ResolvePublic)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenValidator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/auth/me", authHandler.Me)

		// 工数エントリ
		r.Route("/api/timelogs", func(r chi.Router) {
			r.Post("/", timeLogHandler.CreateEntry)
			r.Get("/", timeLogHandler.ListEntries)

			r.Route("/{id}", func(r chi.Router) {
				// 承認・却下の本判定はサービス層が持つ。ここは配線ミスの防波堤
				r.With(requireManager).Patch("/status", timeLogHandler.SetStatus)
				r.Delete("/", timeLogHandler.DeleteEntry)
			})
		})

		// レポート
		r.Route("/api/reports", func(r chi.Router) {
			r.Use(requireViewAll)
			r.Get("/summary", reportHandler.Summary)
			r.Get("/export", reportHandler.Export)
		})

		// アクティビティログ
		r.Route("/api/activity", func(r chi.Router) {
			r.Get("/", activityHandler.ListOwn)
			r.With(requireViewAll).Get("/all", activityHandler.ListAll)
		})

		// ロードマップ
		r.Route("/api/roadmap", func(r chi.Router) {
			r.Get("/", roadmapHandler.ListPhases)
			r.With(requireManager).Post("/", roadmapHandler.CreatePhase)
			r.With(requireManager).Put("/{id}", roadmapHandler.UpdatePhase)
			r.With(requireManager).Delete("/{id}", roadmapHandler.DeletePhase)
		})

		// 機能ステータス
		r.Route("/api/features", func(r chi.Router) {
			r.Get("/", featureHandler.ListFeatures)
			r.With(requireManager).Post("/", featureHandler.CreateFeature)
			r.With(requireManager).Put("/{id}", featureHandler.UpdateFeature)
			r.With(requireManager).Delete("/{id}", featureHandler.DeleteFeature)
		})

		// タスクボード
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.With(requireManager).Post("/", taskHandler.CreateTask)
			r.With(requireManager).Put("/{id}", taskHandler.UpdateTask)
			r.With(requireManager).Delete("/{id}", taskHandler.DeleteTask)
		})

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.With(requireManager).Get("/", userHandler.ListUsers)
			r.With(requireManager).Post("/", userHandler.CreateUser)
			r.Get("/{id}", userHandler.GetUser)
			r.With(requireManager).Put("/{id}", userHandler.UpdateUser)
			r.With(requireManager).Delete("/{id}", userHandler.DeleteUser)
		})

		// 共有リンク
		r.Route("/api/shared-links", func(r chi.Router) {
			r.Use(requireManager)
			r.Post("/", sharedLinkHandler.Mint)
			r.Delete("/{id}", sharedLinkHandler.Revoke)
		})
	})

	return r
}
