package transaction

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
)

type mockUserRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (m *mockUserRepo) Create(_ context.Context, _ *model.User) error {
	return nil
}

func (m *mockUserRepo) UpdateCredential(_ context.Context, _, _ string) error {
	return nil
}

type mockTransactionRepo struct {
	createFn       func(ctx context.Context, tx *model.Transaction) error
	listByUserIDFn func(ctx context.Context, userID string) ([]*model.Transaction, error)
	updateFn       func(ctx context.Context, tx *model.Transaction) error
	deleteFn       func(ctx context.Context, id, userID string) error
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Transaction, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, tx *model.Transaction) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockTransactionRepo) CountByUserID(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func knownUserRepo() *mockUserRepo {
	return &mockUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u1", Email: email}, nil
		},
	}
}

func apiErrCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.Code
}

func TestAddTransaction_Success(t *testing.T) {
	var saved *model.Transaction
	txs := &mockTransactionRepo{
		createFn: func(_ context.Context, tx *model.Transaction) error {
			saved = tx
			return nil
		},
	}
	svc := NewService(knownUserRepo(), txs)

	tx, err := svc.AddTransaction(context.Background(), "taro@example.com", "expense", "1200.50", "昼食", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected transaction to be saved")
	}
	if tx.AmountCents != 120050 {
		t.Errorf("expected 120050 cents, got %d", tx.AmountCents)
	}
	if tx.UserID != "u1" || tx.Type != "expense" || tx.Description != "昼食" {
		t.Errorf("unexpected transaction: %+v", tx)
	}
}

func TestAddTransaction_ExplicitDate(t *testing.T) {
	var saved *model.Transaction
	txs := &mockTransactionRepo{
		createFn: func(_ context.Context, tx *model.Transaction) error {
			saved = tx
			return nil
		},
	}
	svc := NewService(knownUserRepo(), txs)

	_, err := svc.AddTransaction(context.Background(), "taro@example.com", "expense", "100", "家賃", "2025-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected transaction to be saved")
	}
	// 指定された日付が計上日時として保存される
	if y, m, d := saved.CreatedAt.Date(); y != 2025 || m != time.June || d != 1 {
		t.Errorf("expected created_at 2025-06-01, got %v", saved.CreatedAt)
	}
}

func TestAddTransaction_InvalidDate(t *testing.T) {
	svc := NewService(knownUserRepo(), &mockTransactionRepo{})

	_, err := svc.AddTransaction(context.Background(), "taro@example.com", "expense", "100", "", "06/01/2025")
	if got := apiErrCode(t, err); got != model.ErrCodeInvalidRequest {
		t.Errorf("expected INVALID_REQUEST, got %s", got)
	}
}

func TestAddTransaction_UnknownUser(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockTransactionRepo{})

	_, err := svc.AddTransaction(context.Background(), "nobody@example.com", "expense", "100", "", "")
	if got := apiErrCode(t, err); got != model.ErrCodeUserNotFound {
		t.Errorf("expected USER_NOT_FOUND, got %s", got)
	}
}

func TestAddTransaction_InvalidAmount(t *testing.T) {
	svc := NewService(knownUserRepo(), &mockTransactionRepo{})

	_, err := svc.AddTransaction(context.Background(), "taro@example.com", "expense", "abc", "", "")
	if got := apiErrCode(t, err); got != model.ErrCodeInvalidAmount {
		t.Errorf("expected INVALID_AMOUNT, got %s", got)
	}
}

func TestAddTransaction_EmptyType(t *testing.T) {
	svc := NewService(knownUserRepo(), &mockTransactionRepo{})

	_, err := svc.AddTransaction(context.Background(), "taro@example.com", " ", "100", "", "")
	if got := apiErrCode(t, err); got != model.ErrCodeInvalidRequest {
		t.Errorf("expected INVALID_REQUEST, got %s", got)
	}
}

func TestEditTransaction_Success(t *testing.T) {
	var updated *model.Transaction
	txs := &mockTransactionRepo{
		updateFn: func(_ context.Context, tx *model.Transaction) error {
			updated = tx
			return nil
		},
	}
	svc := NewService(knownUserRepo(), txs)

	err := svc.EditTransaction(context.Background(), "taro@example.com", "t1", "income", "5000", "給料")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil || updated.ID != "t1" || updated.UserID != "u1" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if updated.AmountCents != 500000 {
		t.Errorf("expected 500000 cents, got %d", updated.AmountCents)
	}
}

func TestEditTransaction_NotFound(t *testing.T) {
	txs := &mockTransactionRepo{
		updateFn: func(_ context.Context, tx *model.Transaction) error {
			return fmt.Errorf("transaction %s: %w", tx.ID, repository.ErrNotFound)
		},
	}
	svc := NewService(knownUserRepo(), txs)

	err := svc.EditTransaction(context.Background(), "taro@example.com", "missing", "income", "100", "")
	if got := apiErrCode(t, err); got != model.ErrCodeTransactionNotFound {
		t.Errorf("expected TRANSACTION_NOT_FOUND, got %s", got)
	}
}

func TestDeleteTransaction_Success(t *testing.T) {
	var deletedID, deletedUserID string
	txs := &mockTransactionRepo{
		deleteFn: func(_ context.Context, id, userID string) error {
			deletedID, deletedUserID = id, userID
			return nil
		},
	}
	svc := NewService(knownUserRepo(), txs)

	if err := svc.DeleteTransaction(context.Background(), "taro@example.com", "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != "t1" || deletedUserID != "u1" {
		t.Errorf("unexpected delete: id=%s user=%s", deletedID, deletedUserID)
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	txs := &mockTransactionRepo{
		deleteFn: func(_ context.Context, id, _ string) error {
			return fmt.Errorf("transaction %s: %w", id, repository.ErrNotFound)
		},
	}
	svc := NewService(knownUserRepo(), txs)

	err := svc.DeleteTransaction(context.Background(), "taro@example.com", "missing")
	if got := apiErrCode(t, err); got != model.ErrCodeTransactionNotFound {
		t.Errorf("expected TRANSACTION_NOT_FOUND, got %s", got)
	}
}

func TestListTransactions(t *testing.T) {
	txs := &mockTransactionRepo{
		listByUserIDFn: func(_ context.Context, userID string) ([]*model.Transaction, error) {
			return []*model.Transaction{
				{ID: "t1", UserID: userID, Type: "expense", AmountCents: 120050},
				{ID: "t2", UserID: userID, Type: "income", AmountCents: 500000},
			}, nil
		},
	}
	svc := NewService(knownUserRepo(), txs)

	got, err := svc.ListTransactions(context.Background(), "taro@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(got))
	}
}
