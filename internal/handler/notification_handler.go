package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// NotificationServiceInterface は通知ハンドラーが必要とするサービスインターフェース。
type NotificationServiceInterface interface {
	AddNotification(ctx context.Context, email, message string) (*model.Notification, error)
	ListNotifications(ctx context.Context, email string) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, email, id string) error
}

// NotificationHandler は通知のHTTPハンドラー。
type NotificationHandler struct {
	service NotificationServiceInterface
}

// NewNotificationHandler はNotificationHandlerを生成する。
func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type addNotificationRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type markNotificationReadRequest struct {
	Email          string `json:"email"`
	NotificationID string `json:"notification_id"`
}

type notificationResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// AddNotification は通知作成を処理する。
// POST /add-notification
func (h *NotificationHandler) AddNotification(w http.ResponseWriter, r *http.Request) {
	var req addNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" {
		writeInvalidRequest(w, "emailは必須です")
		return
	}

	n, err := h.service.AddNotification(r.Context(), req.Email, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "通知を作成しました。",
		"notification": notificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		},
	})
}

// GetNotifications は通知一覧を新しい順で返す。
// POST /get-notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	notifications, err := h.service.ListNotifications(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, notificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"notifications": resp,
	})
}

// MarkNotificationRead は通知の既読化を処理する。
// POST /mark-notification-read
func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	var req markNotificationReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" || req.NotificationID == "" {
		writeInvalidRequest(w, "emailとnotification_idは必須です")
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), req.Email, req.NotificationID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "通知を既読にしました。",
	})
}
