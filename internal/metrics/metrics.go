package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pdfrg"

// Recorder PDF RG 业务指标，nil 接收者上的调用均为空操作
type Recorder struct {
	ordersCreated      *prometheus.CounterVec
	statusTransitions  *prometheus.CounterVec
	settlements        *prometheus.CounterVec
	workflowWarnings   *prometheus.CounterVec
	notificationsSent  *prometheus.CounterVec
	settledAmountTotal *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	gatherer           prometheus.Gatherer
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default 返回注册在全局 registry 上的指标
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return defaultRecorder
}

// NewIsolated 使用独立 registry 创建指标，便于测试
func NewIsolated() *Recorder {
	reg := prometheus.NewRegistry()
	return New(reg, reg)
}

// New 创建并注册指标
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	r := &Recorder{
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Created PDF RG orders by origin.",
		}, []string{"origin"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "PDF RG status transitions by target status.",
		}, []string{"status"}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Order settlements by funding source and outcome.",
		}, []string{"source", "outcome"}),
		workflowWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_warnings_total",
			Help:      "Soft failures reported by the order workflow.",
		}, []string{"code"}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "User notifications by delivery mode.",
		}, []string{"mode"}),
		settledAmountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settled_amount_total",
			Help:      "Settled order amount by balance pool.",
		}, []string{"pool"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
		gatherer: gatherer,
	}
	if reg != nil {
		reg.MustRegister(
			r.ordersCreated,
			r.statusTransitions,
			r.settlements,
			r.workflowWarnings,
			r.notificationsSent,
			r.settledAmountTotal,
			r.httpDuration,
		)
	}
	return r
}

// Handler 暴露 Prometheus 抓取接口
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// OrderCreated 记录订单创建
func (r *Recorder) OrderCreated(origin string) {
	if r == nil {
		return
	}
	r.ordersCreated.WithLabelValues(origin).Inc()
}

// StatusTransition 记录状态变更
func (r *Recorder) StatusTransition(status int) {
	if r == nil {
		return
	}
	r.statusTransitions.WithLabelValues(strconv.Itoa(status)).Inc()
}

// Settlement 记录结算结果
func (r *Recorder) Settlement(source, outcome string) {
	if r == nil {
		return
	}
	r.settlements.WithLabelValues(source, outcome).Inc()
}

// SettledAmount 累加各资金池扣款金额
func (r *Recorder) SettledAmount(pool string, amount float64) {
	if r == nil || amount <= 0 {
		return
	}
	r.settledAmountTotal.WithLabelValues(pool).Add(amount)
}

// Warning 记录工作流告警
func (r *Recorder) Warning(code string) {
	if r == nil {
		return
	}
	r.workflowWarnings.WithLabelValues(code).Inc()
}

// Notification 记录通知投递方式
func (r *Recorder) Notification(mode string) {
	if r == nil {
		return
	}
	r.notificationsSent.WithLabelValues(mode).Inc()
}

// HTTPRequest 记录接口耗时，route 使用路由模板避免标签膨胀
func (r *Recorder) HTTPRequest(method, route string, status int, seconds float64) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
