package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kakeibo/internal/model"
)

// PostgresBudgetRepo はPostgreSQLを使用した予算リポジトリ。
type PostgresBudgetRepo struct {
	db *sql.DB
}

// NewPostgresBudgetRepo はPostgresBudgetRepoを生成する。
func NewPostgresBudgetRepo(db *sql.DB) *PostgresBudgetRepo {
	return &PostgresBudgetRepo{db: db}
}

// Upsert は予算を作成する。同一ユーザー・同名の予算が既にあれば金額を上書きする。
func (r *PostgresBudgetRepo) Upsert(ctx context.Context, budget *model.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, name, amount_cents, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, name) DO UPDATE SET amount_cents = EXCLUDED.amount_cents`,
		budget.ID, budget.UserID, budget.Name, budget.AmountCents, budget.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの予算一覧を返す。
func (r *PostgresBudgetRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, created_at
		 FROM budgets
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*model.Budget
	for rows.Next() {
		b := &model.Budget{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.AmountCents, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}

// CountByUserID はユーザーの予算数を返す。
func (r *PostgresBudgetRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budgets WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ BudgetRepository = (*PostgresBudgetRepo)(nil)
