// Package user はユーザープロフィールとダッシュボード集計を提供する。
package user

import (
	"context"
	"fmt"

	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// Service はユーザー参照に関するビジネスロジックを提供する。
type Service struct {
	userRepo   repository.UserRepository
	budgetRepo repository.BudgetRepository
	txRepo     repository.TransactionRepository
	reportRepo repository.ReportRepository
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	budgetRepo repository.BudgetRepository,
	txRepo repository.TransactionRepository,
	reportRepo repository.ReportRepository,
) *Service {
	return &Service{
		userRepo:   userRepo,
		budgetRepo: budgetRepo,
		txRepo:     txRepo,
		reportRepo: reportRepo,
	}
}

// GetProfile はメールアドレスからユーザープロフィールを取得する。
func (s *Service) GetProfile(ctx context.Context, email string) (*model.User, error) {
	return s.resolveUser(ctx, email)
}

// GetDashboard はダッシュボード表示用の集計値を返す。
func (s *Service) GetDashboard(ctx context.Context, email string) (*model.DashboardCounts, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count budgets: %w", err)
	}
	txs, err := s.txRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	reports, err := s.reportRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	return &model.DashboardCounts{
		BudgetCount:      budgets,
		TransactionCount: txs,
		ReportCount:      reports,
	}, nil
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
