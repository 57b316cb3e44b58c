// Package transaction は収支明細の登録・参照・編集・削除を提供する。
package transaction

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

// Service は収支明細に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	txRepo   repository.TransactionRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, txRepo repository.TransactionRepository) *Service {
	return &Service{userRepo: userRepo, txRepo: txRepo}
}

// AddTransaction は明細を登録する。
// 種別はクライアント定義のカテゴリ文字列をそのまま保存する。
// dateが指定された場合はその日付を計上日時として保存し、空なら現在時刻を使う。
func (s *Service) AddTransaction(ctx context.Context, email, txType, amount, description, date string) (*model.Transaction, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	txType = strings.TrimSpace(txType)
	if txType == "" {
		return nil, model.NewInvalidRequestError("種別を指定してください")
	}

	cents, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now()
	if strings.TrimSpace(date) != "" {
		createdAt, err = parseDate(date)
		if err != nil {
			return nil, model.NewInvalidRequestError("日付の形式が正しくありません")
		}
	}

	tx := &model.Transaction{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Type:        txType,
		AmountCents: cents,
		Description: strings.TrimSpace(description),
		CreatedAt:   createdAt,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions はユーザーの明細一覧を登録順で返す。
func (s *Service) ListTransactions(ctx context.Context, email string) ([]*model.Transaction, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	txs, err := s.txRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txs, nil
}

// EditTransaction は明細を更新する。他ユーザーの明細は見えないものとして扱う。
func (s *Service) EditTransaction(ctx context.Context, email, id, txType, amount, description string) error {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	txType = strings.TrimSpace(txType)
	if txType == "" {
		return model.NewInvalidRequestError("種別を指定してください")
	}

	cents, err := parseAmount(amount)
	if err != nil {
		return err
	}

	tx := &model.Transaction{
		ID:          id,
		UserID:      user.ID,
		Type:        txType,
		AmountCents: cents,
		Description: strings.TrimSpace(description),
	}
	if err := s.txRepo.Update(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewTransactionNotFoundError(id)
		}
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

// DeleteTransaction は明細を削除する。
func (s *Service) DeleteTransaction(ctx context.Context, email, id string) error {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	if err := s.txRepo.Delete(ctx, id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewTransactionNotFoundError(id)
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
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

// parseDate はクライアントから渡される計上日を解釈する。
// 日付のみ（YYYY-MM-DD）とRFC3339の両方を受け付ける。
func parseDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, date)
}

func parseAmount(amount string) (int64, error) {
	cents, err := model.ParseAmountToCents(amount)
	if err != nil {
		if errors.Is(err, model.ErrInvalidAmount) {
			return 0, model.NewInvalidAmountError()
		}
		return 0, fmt.Errorf("failed to parse amount: %w", err)
	}
	return cents, nil
}
