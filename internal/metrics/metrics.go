// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層やワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordEntryCreated()
	RecordEntryDecided(status string)
	RecordActivity()
	RecordCleanupDeleted(count int64)
	ObserveReportBuild(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	entryCreated   prometheus.Counter
	entryDecided   *prometheus.CounterVec
	activityTotal  prometheus.Counter
	cleanupDeleted prometheus.Counter
	reportBuild    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobpromax_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		entryCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobpromax_timelog_created_total",
			Help: "作成された工数エントリの合計数",
		}),
		entryDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobpromax_timelog_decided_total",
			Help: "承認・却下された工数エントリの合計数",
		}, []string{"status"}),
		activityTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobpromax_activity_records_total",
			Help: "記録されたアクティビティログの合計数",
		}),
		cleanupDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobpromax_activity_cleanup_deleted_total",
			Help: "保持期間超過で削除されたアクティビティログの合計数",
		}),
		reportBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobpromax_report_build_seconds",
			Help:    "レポート集計の所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.entryCreated,
		c.entryDecided,
		c.activityTotal,
		c.cleanupDeleted,
		c.reportBuild,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordEntryCreated は工数エントリの作成を記録する。
func (c *Collector) RecordEntryCreated() {
	c.entryCreated.Inc()
}

// RecordEntryDecided は工数エントリの承認・却下を記録する。
func (c *Collector) RecordEntryDecided(status string) {
	c.entryDecided.WithLabelValues(status).Inc()
}

// RecordActivity はアクティビティログの記録を記録する。
func (c *Collector) RecordActivity() {
	c.activityTotal.Inc()
}

// RecordCleanupDeleted は保持期間超過による削除件数を記録する。
func (c *Collector) RecordCleanupDeleted(count int64) {
	c.cleanupDeleted.Add(float64(count))
}

// ObserveReportBuild はレポート集計の所要時間を記録する。
func (c *Collector) ObserveReportBuild(duration time.Duration) {
	c.reportBuild.Observe(duration.Seconds())
}

// SetupMetricsRoute はPrometheusメトリクス公開用のHTTPハンドラーを返す。
func SetupMetricsRoute(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
