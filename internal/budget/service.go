// Package budget は予算の登録・参照を提供する。
package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// Service は予算に関するビジネスロジックを提供する。
type Service struct {
	userRepo   repository.UserRepository
	budgetRepo repository.BudgetRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, budgetRepo repository.BudgetRepository) *Service {
	return &Service{userRepo: userRepo, budgetRepo: budgetRepo}
}

// AddBudget は予算を登録する。同名の予算が既にあれば金額を上書きする。
// 金額は小数2桁までの10進文字列で受け取り、セント単位の整数で保存する。
func (s *Service) AddBudget(ctx context.Context, email, name, amount string) error {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return model.NewInvalidRequestError("予算名を指定してください")
	}

	cents, err := model.ParseAmountToCents(amount)
	if err != nil {
		if errors.Is(err, model.ErrInvalidAmount) {
			return model.NewInvalidAmountError()
		}
		return fmt.Errorf("failed to parse amount: %w", err)
	}

	budget := &model.Budget{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Name:        name,
		AmountCents: cents,
		CreatedAt:   time.Now(),
	}
	if err := s.budgetRepo.Upsert(ctx, budget); err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	return nil
}

// ListBudgets はユーザーの予算一覧を返す。
func (s *Service) ListBudgets(ctx context.Context, email string) ([]*model.Budget, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	return budgets, nil
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
