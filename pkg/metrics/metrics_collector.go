package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 订单指标
	ordersCreatedTotal   *prometheus.CounterVec
	orderTransitionTotal *prometheus.CounterVec

	// 钱包对账指标
	depositsMatchedTotal  prometheus.Counter
	depositsExpiredTotal  prometheus.Counter
	depositsPending       prometheus.Gauge
	reconcileCycleSeconds prometheus.Histogram
	gatewayErrorsTotal    prometheus.Counter

	// 通知指标
	notifyFailuresTotal prometheus.Counter
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器（懒加载，注册到默认 Registry）
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = newMetricsCollector()
	})
	return globalCollector
}

func newMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		ordersCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created, by payment method",
			},
			[]string{"payment"},
		),
		orderTransitionTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Total number of order status transitions",
			},
			[]string{"to"},
		),
		depositsMatchedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wallet_deposits_matched_total",
				Help: "Pending deposits credited after gateway reconciliation",
			},
		),
		depositsExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wallet_deposits_expired_total",
				Help: "Pending deposits deleted after exceeding the expiry window",
			},
		),
		depositsPending: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallet_deposits_pending",
				Help: "Pending deposits observed at the start of the last cycle",
			},
		),
		reconcileCycleSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wallet_reconcile_cycle_seconds",
				Help:    "Duration of one reconciliation cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		gatewayErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_gateway_errors_total",
				Help: "Failed calls to the payment gateway transaction feed",
			},
		),
		notifyFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notification_failures_total",
				Help: "Mail notifications that failed to send",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, durationSeconds float64) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordOrderCreated 记录订单创建
func (m *MetricsCollector) RecordOrderCreated(payment string) {
	m.ordersCreatedTotal.WithLabelValues(payment).Inc()
}

// RecordOrderTransition 记录订单状态流转
func (m *MetricsCollector) RecordOrderTransition(to string) {
	m.orderTransitionTotal.WithLabelValues(to).Inc()
}

// RecordDepositMatched 记录充值到账
func (m *MetricsCollector) RecordDepositMatched() { m.depositsMatchedTotal.Inc() }

// RecordDepositExpired 记录过期充值删除
func (m *MetricsCollector) RecordDepositExpired() { m.depositsExpiredTotal.Inc() }

// SetPendingDeposits 更新待对账充值数量
func (m *MetricsCollector) SetPendingDeposits(n int) { m.depositsPending.Set(float64(n)) }

// RecordReconcileCycle 记录一轮对账耗时
func (m *MetricsCollector) RecordReconcileCycle(seconds float64) {
	m.reconcileCycleSeconds.Observe(seconds)
}

// RecordGatewayError 记录网关调用失败
func (m *MetricsCollector) RecordGatewayError() { m.gatewayErrorsTotal.Inc() }

// RecordNotifyFailure 记录通知发送失败
func (m *MetricsCollector) RecordNotifyFailure() { m.notifyFailuresTotal.Inc() }
