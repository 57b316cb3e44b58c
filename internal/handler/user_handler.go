package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	GetProfile(ctx context.Context, email string) (*model.User, error)
	GetDashboard(ctx context.Context, email string) (*model.DashboardCounts, error)
}

// UserHandler はユーザー参照のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// userProfileResponse はプロフィールのAPIレスポンス。
type userProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// GetUser はメールアドレスからユーザー名を返す。
// POST /get-user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": user.Username,
	})
}

// GetUserProfile はメールアドレスからプロフィールを返す。
// POST /get-user-profile
func (h *UserHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": userProfileResponse{
			ID:        user.ID,
			Email:     user.Email,
			Username:  user.Username,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		},
	})
}

// GetUserID はメールアドレスからユーザーIDのみを返す。
// POST /get-user-id
func (h *UserHandler) GetUserID(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user_id": user.ID,
	})
}

// Dashboard はダッシュボード集計を返す。
// POST /dashboard
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	counts, err := h.service.GetDashboard(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dashboard": map[string]int{
			"budget_count":      counts.BudgetCount,
			"transaction_count": counts.TransactionCount,
			"report_count":      counts.ReportCount,
		},
	})
}
