package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// ReportServiceInterface はレポートハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	AddReport(ctx context.Context, email, title, content string) (*model.Report, error)
	ListReports(ctx context.Context, email string) ([]*model.Report, error)
}

// ReportHandler はレポートのHTTPハンドラー。
type ReportHandler struct {
	service ReportServiceInterface
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(service ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: service}
}

type addReportRequest struct {
	Email   string `json:"email"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type reportResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// AddReport はレポート作成を処理する。
// POST /add-report
func (h *ReportHandler) AddReport(w http.ResponseWriter, r *http.Request) {
	var req addReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディを解釈できません")
		return
	}
	if req.Email == "" {
		writeInvalidRequest(w, "emailは必須です")
		return
	}

	report, err := h.service.AddReport(r.Context(), req.Email, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "レポートを作成しました。",
		"report": reportResponse{
			ID:        report.ID,
			Title:     report.Title,
			Content:   report.Content,
			CreatedAt: report.CreatedAt.Format(time.RFC3339),
		},
	})
}

// GetReports はレポート一覧を返す。
// POST /get-reports
func (h *ReportHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}

	reports, err := h.service.ListReports(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		resp = append(resp, reportResponse{
			ID:        rep.ID,
			Title:     rep.Title,
			Content:   rep.Content,
			CreatedAt: rep.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reports": resp,
	})
}
