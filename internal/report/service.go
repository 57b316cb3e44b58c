// Package report はテキストレポートの作成・参照を提供する。
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
	"github.com/microcosm-cc/bluemonday"
)

// Service はレポートに関するビジネスロジックを提供する。
// タイトルと本文はHTMLタグを全て除去してから保存する。
type Service struct {
	userRepo   repository.UserRepository
	reportRepo repository.ReportRepository
	sanitizer  *bluemonday.Policy
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, reportRepo repository.ReportRepository) *Service {
	return &Service{
		userRepo:   userRepo,
		reportRepo: reportRepo,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// AddReport はレポートを作成する。
func (s *Service) AddReport(ctx context.Context, email, title, content string) (*model.Report, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(s.sanitizer.Sanitize(title))
	content = strings.TrimSpace(s.sanitizer.Sanitize(content))
	if title == "" {
		return nil, model.NewInvalidRequestError("タイトルを指定してください")
	}

	report := &model.Report{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

// ListReports はユーザーのレポート一覧を返す。
func (s *Service) ListReports(ctx context.Context, email string) ([]*model.Report, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	reports, err := s.reportRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
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
