// Package account はユーザー登録・ログイン・パスワード再設定を提供する。
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/password"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// ServiceConfig はアカウントサービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はアカウントに関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	collector   metrics.MetricsCollector
	logger      *slog.Logger
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		collector:   collector,
		logger:      logger,
		config:      config,
	}
}

// Register は新規ユーザーを作成する。
// メールアドレスとユーザー名の一意性を検査し、パスワードはポリシー検査の上
// argon2idでハッシュ化して保存する。平文は保存しない。
func (s *Service) Register(ctx context.Context, email, username, plainPassword string) (*model.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, model.NewEmailAlreadyRegisteredError()
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	if existing != nil {
		return nil, model.NewUsernameTakenError()
	}

	if violations := password.ValidatePolicy(plainPassword); len(violations) > 0 {
		return nil, model.NewWeakPasswordError(violations)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))

	return user, nil
}

// Login はユーザー名とパスワードを検証し、セッションを発行する。
// 未登録ユーザー名とパスワード不一致は同じエラーを返す。
func (s *Service) Login(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.collector.RecordLoginFailure()
		return nil, nil, model.NewInvalidCredentialsError()
	}

	ok, err := password.Verify(plainPassword, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.collector.RecordLoginFailure()
		return nil, nil, model.NewInvalidCredentialsError()
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return user, session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetCurrentUser はセッションIDから現在のユーザーを取得する。
// セッションが無効または期限切れの場合はUnauthorizedを返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// ResetCredential はワンタイムコード検証済みのユーザーのパスワードを再設定する。
// 新パスワードはポリシー検査の上ハッシュ化して保存し、既存セッションを全て失効させる。
func (s *Service) ResetCredential(ctx context.Context, email, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	if violations := password.ValidatePolicy(newPassword); len(violations) > 0 {
		return model.NewWeakPasswordError(violations)
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdateCredential(ctx, email, hash); err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	// 再設定後は全セッションを失効させ、再ログインを要求する
	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.logger.Info("credential reset", slog.String("user_id", user.ID))

	return nil
}
