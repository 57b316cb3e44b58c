package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Collector         metrics.MetricsCollector

	// サービス
	VerificationService VerificationServiceInterface
	AccountService      AccountServiceInterface
	AuthConfig          AuthHandlerConfig
	BudgetService       BudgetServiceInterface
	TransactionService  TransactionServiceInterface
	ReportService       ReportServiceInterface
	NotificationService NotificationServiceInterface
	UserService         UserServiceInterface

	// ヘルスチェック用DB
	DB *sql.DB

	// /metrics ハンドラー
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → Recovery → Logging → RateLimit(General)
//
// /send-otp には一般レート制限に加えて専用のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))

	verifHandler := NewVerificationHandler(deps.VerificationService)
	authHandler := NewAuthHandler(deps.AccountService, deps.AuthConfig)
	budgetHandler := NewBudgetHandler(deps.BudgetService)
	txHandler := NewTransactionHandler(deps.TransactionService)
	reportHandler := NewReportHandler(deps.ReportService)
	notiHandler := NewNotificationHandler(deps.NotificationService)
	userHandler := NewUserHandler(deps.UserService)

	// 稼働確認
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "kakeibo API",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{
					"success": false,
					"message": "database unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "ok",
		})
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// APIルート
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ワンタイムコード。発行は専用レート制限を重ねる
		r.With(deps.RateLimiter.OTPMiddleware()).Post("/send-otp", verifHandler.SendOTP)
		r.Post("/verify-otp", verifHandler.VerifyOTP)

		// アカウント
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)
		r.Post("/reset-password", authHandler.ResetPassword)

		// 予算
		r.Post("/add-budget", budgetHandler.AddBudget)
		r.Post("/get-budgets", budgetHandler.GetBudgets)

		// 収支明細
		r.Post("/add-transaction", txHandler.AddTransaction)
		r.Post("/get-transactions", txHandler.GetTransactions)
		r.Post("/edit-transaction", txHandler.EditTransaction)
		r.Post("/delete-transaction", txHandler.DeleteTransaction)

		// レポート
		r.Post("/add-report", reportHandler.AddReport)
		r.Post("/get-reports", reportHandler.GetReports)

		// 通知
		r.Post("/add-notification", notiHandler.AddNotification)
		r.Post("/get-notifications", notiHandler.GetNotifications)
		r.Post("/mark-notification-read", notiHandler.MarkNotificationRead)

		// ユーザー
		r.Post("/get-user", userHandler.GetUser)
		r.Post("/get-user-profile", userHandler.GetUserProfile)
		r.Post("/get-user-id", userHandler.GetUserID)
		r.Post("/dashboard", userHandler.Dashboard)
	})

	return r
}
