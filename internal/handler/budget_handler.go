package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// BudgetServiceInterface は予算ハンドラーが必要とするサービスインターフェース。
type BudgetServiceInterface interface {
	AddBudget(ctx context.Context, email, name, amount string) error
	ListBudgets(ctx context.Context, email string) ([]*model.Budget, error)
}

// BudgetHandler は予算のHTTPハンドラー。
type BudgetHandler struct {
	service BudgetServiceInterface
}

// NewBudgetHandler はBudgetHandlerを生成する。
func NewBudgetHandler(service BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{service: service}
}

type addBudgetRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// budgetResponse は予算のAPIレスポンス。金額は小数2桁の文字列で返す。
type budgetResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// AddBudget は予算登録を処理する。同名予算は金額が上書きされる。
// POST /add-budget
func (h *BudgetHandler) AddBudget(w http.ResponseWriter, r *http.Request) {
	var req addBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" {
		writeInvalidRequest(w, "emailは必須です")
		return
	}

	if err := h.service.AddBudget(r.Context(), req.Email, req.Name, req.Amount); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "予算を登録しました。",
	})
}

// GetBudgets は予算一覧を返す。
// 未登録ユーザーはエラーではなく空一覧のレスポンスになる。
// POST /get-budgets
func (h *BudgetHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	budgets, err := h.service.ListBudgets(r.Context(), email)
	if err != nil {
		if isUserNotFound(err) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": false,
				"budgets": []budgetResponse{},
			})
			return
		}
		handleServiceError(w, err)
		return
	}

	resp := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, budgetResponse{
			ID:        b.ID,
			Name:      b.Name,
			Amount:    model.FormatCents(b.AmountCents),
			CreatedAt: b.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"budgets": resp,
	})
}
