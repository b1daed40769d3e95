package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/report"
)

// ReportServiceInterface はレポートハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	Summarize(ctx context.Context, month, year int) (*report.Summary, error)
	WriteCSV(ctx context.Context, w io.Writer, month, year int) error
}

// ReportHandler はレポートのHTTPハンドラー。
type ReportHandler struct {
	service ReportServiceInterface
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(service ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: service}
}

// developerSummaryResponse は1ユーザー分の集計レスポンス。
type developerSummaryResponse struct {
	UserID     string             `json:"user_id"`
	Name       string             `json:"name"`
	Department string             `json:"department"`
	HourlyRate float64            `json:"hourly_rate"`
	TotalHours float64            `json:"total_hours"`
	Amount     float64            `json:"amount"`
	ByWorkType map[string]float64 `json:"by_work_type"`
	Entries    []timeLogResponse  `json:"entries"`
}

// summaryResponse は期間レポートのレスポンス。
type summaryResponse struct {
	Year       int                        `json:"year"`
	Month      int                        `json:"month"`
	From       time.Time                  `json:"from"`
	To         time.Time                  `json:"to"`
	Developers []developerSummaryResponse `json:"developers"`
}

// Summary は月次集計レポートを返す。
// GET /api/reports/summary?month=&year=
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summarize(r.Context(), month, year)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := summaryResponse{
		Year:       summary.Year,
		Month:      summary.Month,
		From:       summary.From,
		To:         summary.To,
		Developers: make([]developerSummaryResponse, len(summary.Developers)),
	}
	for i, dev := range summary.Developers {
		byWorkType := make(map[string]float64, len(dev.ByWorkType))
		for workType, hours := range dev.ByWorkType {
			byWorkType[string(workType)] = hours
		}
		entries := make([]timeLogResponse, len(dev.Entries))
		for j, entry := range dev.Entries {
			entries[j] = toTimeLogResponse(entry)
		}
		resp.Developers[i] = developerSummaryResponse{
			UserID:     dev.UserID,
			Name:       dev.Name,
			Department: dev.Department,
			HourlyRate: dev.HourlyRate,
			TotalHours: dev.TotalHours,
			Amount:     dev.Amount,
			ByWorkType: byWorkType,
			Entries:    entries,
		}
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// Export は月次集計のCSVエクスポートを返す。
// GET /api/reports/export?month=&year=
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	// ステータス確定前にエラーを返せるよう、一度バッファに書き出す
	var buf bytes.Buffer
	if err := h.service.WriteCSV(r.Context(), &buf, month, year); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, report.ExportFilename(month, year)))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, &buf)
}

// parsePeriod はクエリパラメータから対象月を取り出す。
// 不正な場合はエラーレスポンスを書き込みfalseを返す。
func parsePeriod(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("monthを数値で指定してください"))
		return 0, 0, false
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("yearを数値で指定してください"))
		return 0, 0, false
	}
	return month, year, true
}
