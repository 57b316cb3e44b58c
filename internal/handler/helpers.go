// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/kakeibo/internal/model"
)

const sessionCookieName = "session_id"

// apiErrorResponse は統一エラーフォーマットのレスポンス。
// successフィールドは旧クライアントとの互換のため常にfalse。
type apiErrorResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Success:  false,
		Message:  apiErr.Message,
		Code:     apiErr.Code,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeInvalidRequest は入力不備の400レスポンスを書き込む。
func writeInvalidRequest(w http.ResponseWriter, reason string) {
	writeErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(reason))
}

type emailRequest struct {
	Email string `json:"email"`
}

// decodeEmailRequest はemailのみを要求するPOSTボディを解釈する。
// 不備がある場合はエラーレスポンスを書き込み、falseを返す。
func decodeEmailRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return "", false
	}
	if req.Email == "" {
		writeInvalidRequest(w, "emailは必須です")
		return "", false
	}
	return req.Email, true
}

// isUserNotFound は未登録ユーザーを示すエラーかを判定する。
func isUserNotFound(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest,
		model.ErrCodeEmailAlreadyRegistered,
		model.ErrCodeUsernameTaken,
		model.ErrCodeOTPNotFound,
		model.ErrCodeOTPExpired,
		model.ErrCodeOTPMismatch,
		model.ErrCodeWeakPassword,
		model.ErrCodeInvalidAmount:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials,
		model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeUserNotFound,
		model.ErrCodeTransactionNotFound,
		model.ErrCodeNotificationNotFound:
		return http.StatusNotFound
	case model.ErrCodeMailDeliveryFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
