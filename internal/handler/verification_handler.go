package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/kakeibo/internal/verification"
)

// VerificationServiceInterface はワンタイムコードハンドラーが必要とするサービスインターフェース。
type VerificationServiceInterface interface {
	RequestCode(ctx context.Context, email string, purpose verification.Purpose) error
	ConfirmCode(ctx context.Context, email, code string) error
}

// VerificationHandler はワンタイムコードのHTTPハンドラー。
type VerificationHandler struct {
	service VerificationServiceInterface
}

// NewVerificationHandler はVerificationHandlerを生成する。
func NewVerificationHandler(service VerificationServiceInterface) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// sendOTPRequest はコード発行リクエストのボディ。
type sendOTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// verifyOTPRequest はコード検証リクエストのボディ。
type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendOTP はワンタイムコードの発行とメール送信を処理する。
// POST /send-otp
func (h *VerificationHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" {
		writeInvalidRequest(w, "emailは必須です")
		return
	}

	purpose, ok := verification.ParsePurpose(req.Purpose)
	if !ok {
		writeInvalidRequest(w, "purposeはsignupまたはforgotを指定してください")
		return
	}

	if err := h.service.RequestCode(r.Context(), req.Email, purpose); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "ワンタイムコードを送信しました。",
	})
}

// VerifyOTP はワンタイムコードの検証を処理する。
// POST /verify-otp
func (h *VerificationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" || req.OTP == "" {
		writeInvalidRequest(w, "emailとotpは必須です")
		return
	}

	if err := h.service.ConfirmCode(r.Context(), req.Email, req.OTP); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "コードを確認しました。",
	})
}
