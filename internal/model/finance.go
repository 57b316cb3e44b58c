// Package model はドメインモデルを定義する。
package model

import "time"

// Budget はユーザーが設定した予算を表す。
// ユーザーごとに予算名は一意であり、同名での再登録は金額の上書きになる。
type Budget struct {
	ID          string
	UserID      string
	Name        string
	AmountCents int64
	CreatedAt   time.Time
}

// Transaction は収支の1明細を表す。
// Typeはクライアント定義のカテゴリ文字列（例: "income", "expense", "food"）で、
// サーバー側では列挙を強制しない。
type Transaction struct {
	ID          string
	UserID      string
	Type        string
	AmountCents int64
	Description string
	CreatedAt   time.Time
}

// Report はユーザーが作成したテキストレポートを表す。
type Report struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
}

// Notification はユーザー宛のアプリ内通知を表す。
type Notification struct {
	ID        string
	UserID    string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// DashboardCounts はダッシュボードに表示する集計値を表す。
type DashboardCounts struct {
	BudgetCount      int
	TransactionCount int
	ReportCount      int
}
