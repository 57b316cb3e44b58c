package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kakeibo/internal/model"
)

// PostgresReportRepo はPostgreSQLを使用したレポートリポジトリ。
type PostgresReportRepo struct {
	db *sql.DB
}

// NewPostgresReportRepo はPostgresReportRepoを生成する。
func NewPostgresReportRepo(db *sql.DB) *PostgresReportRepo {
	return &PostgresReportRepo{db: db}
}

// Create はレポートを作成する。
func (r *PostgresReportRepo) Create(ctx context.Context, report *model.Report) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, title, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		report.ID, report.UserID, report.Title, report.Content, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// ListByUserID はユーザーのレポート一覧を返す。
func (r *PostgresReportRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at
		 FROM reports
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		rep := &model.Report{}
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.Title, &rep.Content, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}

// CountByUserID はユーザーのレポート数を返す。
func (r *PostgresReportRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ ReportRepository = (*PostgresReportRepo)(nil)
