// Package report は承認済み工数の集計と請求用エクスポートを提供する。
//
// 請求金額に算入されるのは承認済み（approved）エントリの時間のみである。
// pending・rejectedのエントリは明細には含まれるが、合計時間と金額には決して含まれない。
// これはこのシステムで最も重要な業務ルールである。
//
// 時給はエントリ作成時にスナップショットされず、レポート生成時にUserから
// 都度参照される。このため後からの時給変更は過去期間のレポート出力にも反映される
// （元システムの挙動をそのまま保持している）。
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/repository"
)

// workTypeOrder はエクスポート内の作業分類バケットの出力順。
var workTypeOrder = []model.WorkType{
	model.WorkTypeFeature,
	model.WorkTypeBug,
	model.WorkTypeMeeting,
	model.WorkTypeReview,
	model.WorkTypeOps,
	model.WorkTypeOther,
}

// MetricsRecorder はレポート生成のメトリクス収集インターフェース。
type MetricsRecorder interface {
	ObserveReportBuild(duration time.Duration)
}

// Service はレポート集計のサービス層。
type Service struct {
	timeLogRepo repository.TimeLogRepository
	userRepo    repository.UserRepository
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnil許容。
func NewService(timeLogRepo repository.TimeLogRepository, userRepo repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{
		timeLogRepo: timeLogRepo,
		userRepo:    userRepo,
		metrics:     metrics,
	}
}

// DeveloperSummary は1ユーザーの期間集計結果。
// TotalHours・Amount・ByWorkTypeは承認済みエントリのみから算出される。
// Entriesはステータスを問わない明細（詳細表示用）。
type DeveloperSummary struct {
	UserID     string
	Name       string
	Department string
	HourlyRate float64
	TotalHours float64
	Amount     float64
	ByWorkType map[model.WorkType]float64
	Entries    []*model.TimeLog
}

// Summary は期間レポートの集計結果。
// Developersには工数が1件もないユーザーも含まれる（ゼロ集計の行として）。
type Summary struct {
	Year       int
	Month      int
	From       time.Time
	To         time.Time
	Developers []*DeveloperSummary
}

// Summarize は指定月の工数を全ユーザーぶん集計する。
// ロスターは常に全ユーザーであり、承認済み工数がゼロのユーザーも
// ゼロ集計の行として結果に含まれる（稼働がない月でも頭数を可視化するため）。
func (s *Service) Summarize(ctx context.Context, month, year int) (*Summary, error) {
	start := time.Now()

	if month < 1 || month > 12 {
		return nil, model.NewValidationError("月は1から12の範囲で指定してください")
	}
	if year < 2000 || year > 2100 {
		return nil, model.NewValidationError("年は2000から2100の範囲で指定してください")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}

	entries, err := s.timeLogRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("期間内の工数エントリの取得に失敗しました: %w", err)
	}

	// ロスター全員ぶんのゼロ集計を先に用意する
	byUser := make(map[string]*DeveloperSummary, len(users))
	summary := &Summary{
		Year:       year,
		Month:      month,
		From:       from,
		To:         to,
		Developers: make([]*DeveloperSummary, 0, len(users)),
	}
	for _, user := range users {
		dev := &DeveloperSummary{
			UserID:     user.ID,
			Name:       user.Name,
			Department: user.Department,
			HourlyRate: user.HourlyRate,
			ByWorkType: make(map[model.WorkType]float64),
		}
		byUser[user.ID] = dev
		summary.Developers = append(summary.Developers, dev)
	}

	for _, entry := range entries {
		dev, ok := byUser[entry.UserID]
		if ok {
			dev.Entries = append(dev.Entries, entry)
			// 請求対象は承認済みの時間のみ
			if entry.Status == model.TimeLogStatusApproved {
				dev.TotalHours += entry.Hours
				dev.ByWorkType[entry.WorkType] += entry.Hours
			}
		}
	}

	for _, dev := range summary.Developers {
		dev.Amount = dev.TotalHours * dev.HourlyRate
	}

	if s.metrics != nil {
		s.metrics.ObserveReportBuild(time.Since(start))
	}

	return summary, nil
}

// ExportFilename は指定月のCSVエクスポートのファイル名を返す。
func ExportFilename(month, year int) string {
	return fmt.Sprintf("timesheet_%d_%02d.csv", year, month)
}

// WriteCSV は指定月の集計をCSV形式でwに書き込む。
// ユーザーごとに作業分類バケット（工数のあるもののみ）を1行ずつ出力し、
// 最後にTOTAL行を出力する。TOTAL行は承認済み工数がゼロのユーザーにも必ず出力される。
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, month, year int) error {
	summary, err := s.Summarize(ctx, month, year)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Developer", "Department", "Work Type", "Hours", "Hourly Rate", "Amount"}); err != nil {
		return fmt.Errorf("CSVヘッダーの書き込みに失敗しました: %w", err)
	}

	for _, dev := range summary.Developers {
		for _, workType := range workTypeOrder {
			hours := dev.ByWorkType[workType]
			if hours == 0 {
				continue
			}
			record := []string{
				dev.Name,
				dev.Department,
				string(workType),
				fmt.Sprintf("%.2f", hours),
				fmt.Sprintf("%.2f", dev.HourlyRate),
				fmt.Sprintf("%.2f", hours*dev.HourlyRate),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("CSV行の書き込みに失敗しました: %w", err)
			}
		}

		total := []string{
			dev.Name,
			dev.Department,
			"TOTAL",
			fmt.Sprintf("%.2f", dev.TotalHours),
			fmt.Sprintf("%.2f", dev.HourlyRate),
			fmt.Sprintf("%.2f", dev.Amount),
		}
		if err := writer.Write(total); err != nil {
			return fmt.Errorf("CSV合計行の書き込みに失敗しました: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSVの出力に失敗しました: %w", err)
	}
	return nil
}
