// Package metrics 提供基于 Prometheus 的分发器观察者
//
// Collector 实现 interfaces.Observer，同时是 prometheus.Collector：
//
//	c := metrics.NewCollector("physics")
//	prometheus.MustRegister(c)
//	d, _ := courier.New(courier.WithEvents(...), courier.WithObserver(c))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	pkgif "github.com/pparuzel/courier/pkg/interfaces"
)

const namespace = "courier"

// Collector 分发器指标
type Collector struct {
	listeners    *prometheus.GaugeVec
	posted       *prometheus.CounterVec
	delivered    *prometheus.CounterVec
	unregistered *prometheus.CounterVec

	mu     sync.Mutex
	counts map[string]int
}

var (
	_ pkgif.Observer       = (*Collector)(nil)
	_ prometheus.Collector = (*Collector)(nil)
)

// NewCollector 创建指标收集器，dispatcher 作为常量标签附加到全部指标
func NewCollector(dispatcher string) *Collector {
	labels := prometheus.Labels{"dispatcher": dispatcher}
	return &Collector{
		listeners: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "listeners",
			Help:        "Number of registered listeners per event type.",
			ConstLabels: labels,
		}, []string{"type"}),
		posted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "posts_total",
			Help:        "Events posted per event type.",
			ConstLabels: labels,
		}, []string{"type"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "deliveries_total",
			Help:        "Listener invocations per event type.",
			ConstLabels: labels,
		}, []string{"type"}),
		unregistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "unregistered_posts_total",
			Help:        "Posts of event types the dispatcher does not declare.",
			ConstLabels: labels,
		}, []string{"type"}),
		counts: make(map[string]int),
	}
}

// ============================================================================
// Observer 实现
// ============================================================================

// ListenerAdded 实现 Observer
func (c *Collector) ListenerAdded(typ string) {
	c.mu.Lock()
	c.counts[typ]++
	c.mu.Unlock()
	c.listeners.WithLabelValues(typ).Inc()
}

// ListenersRemoved 实现 Observer
func (c *Collector) ListenersRemoved(typ string, n int) {
	c.mu.Lock()
	c.counts[typ] -= n
	c.mu.Unlock()
	c.listeners.WithLabelValues(typ).Sub(float64(n))
}

// Posted 实现 Observer
func (c *Collector) Posted(typ string, delivered int) {
	c.posted.WithLabelValues(typ).Inc()
	c.delivered.WithLabelValues(typ).Add(float64(delivered))
}

// Unregistered 实现 Observer
func (c *Collector) Unregistered(typ string) {
	c.unregistered.WithLabelValues(typ).Inc()
}

// Listeners 返回当前观测到的某类型监听器数量
func (c *Collector) Listeners(typ string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[typ]
}

// ============================================================================
// prometheus.Collector 实现
// ============================================================================

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.listeners.Describe(ch)
	c.posted.Describe(ch)
	c.delivered.Describe(ch)
	c.unregistered.Describe(ch)
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.listeners.Collect(ch)
	c.posted.Collect(ch)
	c.delivered.Collect(ch)
	c.unregistered.Collect(ch)
}
