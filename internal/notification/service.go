// Package notification はアプリ内通知の作成・参照・既読管理を提供する。
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
	"github.com/microcosm-cc/bluemonday"
)

// Service は通知に関するビジネスロジックを提供する。
// 通知本文はHTMLタグを全て除去してから保存する。
type Service struct {
	userRepo  repository.UserRepository
	notiRepo  repository.NotificationRepository
	sanitizer *bluemonday.Policy
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, notiRepo repository.NotificationRepository) *Service {
	return &Service{
		userRepo:  userRepo,
		notiRepo:  notiRepo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// AddNotification は通知を作成する。作成直後の通知は未読。
func (s *Service) AddNotification(ctx context.Context, email, message string) (*model.Notification, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(s.sanitizer.Sanitize(message))
	if message == "" {
		return nil, model.NewInvalidRequestError("通知メッセージを指定してください")
	}

	n := &model.Notification{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.notiRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

// ListNotifications はユーザーの通知一覧を新しい順で返す。
func (s *Service) ListNotifications(ctx context.Context, email string) ([]*model.Notification, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	notifications, err := s.notiRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead は通知を既読にする。
func (s *Service) MarkNotificationRead(ctx context.Context, email, id string) error {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	if err := s.notiRepo.MarkRead(ctx, id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewNotificationNotFoundError(id)
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

func (s *Service) resolveUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}
