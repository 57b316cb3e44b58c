package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// TransactionServiceInterface は明細ハンドラーが必要とするサービスインターフェース。
type TransactionServiceInterface interface {
	AddTransaction(ctx context.Context, email, txType, amount, description, date string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, email string) ([]*model.Transaction, error)
	EditTransaction(ctx context.Context, email, id, txType, amount, description string) error
	DeleteTransaction(ctx context.Context, email, id string) error
}

// TransactionHandler は収支明細のHTTPハンドラー。
type TransactionHandler struct {
	service TransactionServiceInterface
}

// NewTransactionHandler はTransactionHandlerを生成する。
func NewTransactionHandler(service TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type addTransactionRequest struct {
	Email       string `json:"email"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"` // 省略可。YYYY-MM-DD
}

// editTransactionRequest のフィールド名は旧クライアントの送信フォーマットに合わせる。
// 種別はcategoryという名前で送られてくる。
type editTransactionRequest struct {
	Email         string `json:"email"`
	TransactionID string `json:"transaction_id"`
	Category      string `json:"category"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}

type deleteTransactionRequest struct {
	Email         string `json:"email"`
	TransactionID string `json:"transaction_id"`
}

// transactionResponse は明細のAPIレスポンス。金額は小数2桁の文字列で返す。
type transactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// AddTransaction は明細登録を処理する。
// POST /add-transaction
func (h *TransactionHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" {
		writeInvalidRequest(w, "emailは必須です")
		return
	}

	tx, err := h.service.AddTransaction(r.Context(), req.Email, req.Type, req.Amount, req.Description, req.Date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"message":     "明細を登録しました。",
		"transaction": toTransactionResponse(tx),
	})
}

// GetTransactions は明細一覧を返す。
// 未登録ユーザーはエラーではなく空一覧のレスポンスになる。
// POST /get-transactions
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	txs, err := h.service.ListTransactions(r.Context(), email)
	if err != nil {
		if isUserNotFound(err) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success":      false,
				"transactions": []transactionResponse{},
			})
			return
		}
		handleServiceError(w, err)
		return
	}

	resp := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": resp,
	})
}

// EditTransaction は明細更新を処理する。
// POST /edit-transaction
func (h *TransactionHandler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	var req editTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" || req.TransactionID == "" {
		writeInvalidRequest(w, "emailとtransaction_idは必須です")
		return
	}

	if err := h.service.EditTransaction(r.Context(), req.Email, req.TransactionID, req.Category, req.Amount, req.Description); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "明細を更新しました。",
	})
}

// DeleteTransaction は明細削除を処理する。
// POST /delete-transaction
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	var req deleteTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" || req.TransactionID == "" {
		writeInvalidRequest(w, "emailとtransaction_idは必須です")
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), req.Email, req.TransactionID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "明細を削除しました。",
	})
}

func toTransactionResponse(tx *model.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      model.FormatCents(tx.AmountCents),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}
