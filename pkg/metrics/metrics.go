package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crewforge/backoffice/internal/common/config"
)

// Metrics collects HTTP and notification-pipeline metrics.
type Metrics struct {
	registry   *prometheus.Registry
	namespace  string
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec

	notifConsumed  *prometheus.CounterVec
	notifDelivered prometheus.Counter
	notifDiscarded prometheus.Counter
	notifPushErr   prometheus.Counter
}

// New builds a Metrics instance with its own registry.
func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	if ns == "" {
		ns = "backoffice"
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	notifConsumed := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "notifications_consumed_total"}, []string{"type"})
	notifDelivered := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "notifications_delivered_total"})
	notifDiscarded := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "notifications_discarded_total"})
	notifPushErr := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "notification_push_errors_total"})
	r.MustRegister(notifConsumed, notifDelivered, notifDiscarded, notifPushErr)

	return &Metrics{
		registry:       r,
		namespace:      ns,
		httpReqCnt:     httpReqCnt,
		httpDur:        httpDur,
		httpInfl:       httpInfl,
		notifConsumed:  notifConsumed,
		notifDelivered: notifDelivered,
		notifDiscarded: notifDiscarded,
		notifPushErr:   notifPushErr,
	}
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware instruments every request with count, duration and inflight
// gauges, labelled by route template rather than raw path.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start).Seconds()
		m.httpInfl.WithLabelValues(route).Dec()
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(elapsed)
	}
}

// NotificationConsumed records a consumed queue message.
func (m *Metrics) NotificationConsumed(typ string) {
	m.notifConsumed.WithLabelValues(typ).Inc()
}

// NotificationDelivered records a persisted-and-pushed notification.
func (m *Metrics) NotificationDelivered() {
	m.notifDelivered.Inc()
}

// NotificationDiscarded records a message dropped for an unknown user.
func (m *Metrics) NotificationDiscarded() {
	m.notifDiscarded.Inc()
}

// NotificationPushError records a failed push publish.
func (m *Metrics) NotificationPushError() {
	m.notifPushErr.Inc()
}
