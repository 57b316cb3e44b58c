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
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordOTPIssued(purpose string)
	RecordOTPValidation(result string)
	RecordMailDelivery(success bool)
	RecordMailLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordLoginFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	otpIssued     *prometheus.CounterVec
	otpValidation *prometheus.CounterVec
	mailSuccess   prometheus.Counter
	mailFail      prometheus.Counter
	mailLatency   prometheus.Histogram
	httpStatus    *prometheus.CounterVec
	loginFail     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		otpIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kakeibo_otp_issued_total",
			Help: "発行されたワンタイムコードの合計数（用途別）",
		}, []string{"purpose"}),
		otpValidation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kakeibo_otp_validation_total",
			Help: "コード検証の合計数（結果別）",
		}, []string{"result"}),
		mailSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kakeibo_mail_delivery_success_total",
			Help: "メール配送成功の合計数",
		}),
		mailFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kakeibo_mail_delivery_fail_total",
			Help: "メール配送失敗の合計数",
		}),
		mailLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kakeibo_mail_delivery_latency_seconds",
			Help:    "メール配送のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kakeibo_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kakeibo_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.otpIssued,
		c.otpValidation,
		c.mailSuccess,
		c.mailFail,
		c.mailLatency,
		c.httpStatus,
		c.loginFail,
	)

	return c
}

// RecordOTPIssued はコード発行を記録する。
func (c *Collector) RecordOTPIssued(purpose string) {
	c.otpIssued.WithLabelValues(purpose).Inc()
}

// RecordOTPValidation はコード検証の結果を記録する。
func (c *Collector) RecordOTPValidation(result string) {
	c.otpValidation.WithLabelValues(result).Inc()
}

// RecordMailDelivery はメール配送の成否を記録する。
func (c *Collector) RecordMailDelivery(success bool) {
	if success {
		c.mailSuccess.Inc()
	} else {
		c.mailFail.Inc()
	}
}

// RecordMailLatency はメール配送のレイテンシを記録する。
func (c *Collector) RecordMailLatency(duration time.Duration) {
	c.mailLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
