package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务指标，每个进程创建一份并注入到 service
type Metrics struct {
	registry    *prometheus.Registry
	Assignments *prometheus.CounterVec // 新分配次数，按候选池区分
	Exhausted   prometheus.Counter     // 俳句耗尽后返回收尾视图的次数
	Dispatches  *prometheus.CounterVec // 邮件推送结果
}

const (
	PoolSeasonal = "seasonal"
	PoolFallback = "fallback"

	ResultSent   = "sent"
	ResultFailed = "failed"
)

// New 创建独立 registry 的指标集合
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dailyhaiku",
			Name:      "assignments_total",
			Help:      "Daily haiku assignments created, by candidate pool.",
		}, []string{"pool"}),
		Exhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dailyhaiku",
			Name:      "exhausted_total",
			Help:      "Requests answered with the closing view because every haiku was used.",
		}),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dailyhaiku",
			Name:      "email_dispatch_total",
			Help:      "Daily digest email dispatch attempts, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.Assignments,
		m.Exhausted,
		m.Dispatches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler /metrics 导出
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
