// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/kakeibo/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	// メールアドレスは保存時の表記そのままで比較する（大文字小文字を区別する）。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// ExistsByEmail は指定メールアドレスのユーザーが存在するかを返す。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateCredential は指定メールアドレスのユーザーの保存クレデンシャルを上書きする。
	// 対象ユーザーが存在しない場合はエラーを返す。
	UpdateCredential(ctx context.Context, email, passwordHash string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// BudgetRepository は予算データの永続化インターフェース。
type BudgetRepository interface {
	// Upsert は予算を作成する。同一ユーザー・同名の予算が既にあれば金額を上書きする。
	Upsert(ctx context.Context, budget *model.Budget) error

	// ListByUserID はユーザーの予算一覧を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Budget, error)

	// CountByUserID はユーザーの予算数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// TransactionRepository は収支明細の永続化インターフェース。
type TransactionRepository interface {
	// Create は明細を作成する。
	Create(ctx context.Context, tx *model.Transaction) error

	// ListByUserID はユーザーの明細一覧をcreated_at昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Transaction, error)

	// Update は指定ユーザーの明細を更新する。対象が存在しない場合はエラーを返す。
	Update(ctx context.Context, tx *model.Transaction) error

	// Delete は指定ユーザーの明細を削除する。対象が存在しない場合はエラーを返す。
	Delete(ctx context.Context, id, userID string) error

	// CountByUserID はユーザーの明細数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// ReportRepository はレポートの永続化インターフェース。
type ReportRepository interface {
	// Create はレポートを作成する。
	Create(ctx context.Context, report *model.Report) error

	// ListByUserID はユーザーのレポート一覧を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Report, error)

	// CountByUserID はユーザーのレポート数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// NotificationRepository は通知の永続化インターフェース。
type NotificationRepository interface {
	// Create は通知を作成する。
	Create(ctx context.Context, notification *model.Notification) error

	// ListByUserID はユーザーの通知一覧を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Notification, error)

	// MarkRead は指定ユーザーの通知を既読にする。対象が存在しない場合はエラーを返す。
	MarkRead(ctx context.Context, id, userID string) error
}
