package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level instruments on the default registry.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	quoteRequests *prometheus.CounterVec
	quoteEmpty    prometheus.Counter
}

// New registers the doseplan instruments.
func New() (*Metrics, error) {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doseplan_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doseplan_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		quoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doseplan_quotes_total",
			Help: "Computed quotes by medication.",
		}, []string{"medication"}),
		quoteEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doseplan_quotes_empty_total",
			Help: "Quotes that produced no fulfillment plans.",
		}),
	}

	if c, err := register(m.httpRequests); err != nil {
		return nil, err
	} else {
		m.httpRequests = c.(*prometheus.CounterVec)
	}
	if c, err := register(m.httpDuration); err != nil {
		return nil, err
	} else {
		m.httpDuration = c.(*prometheus.HistogramVec)
	}
	if c, err := register(m.quoteRequests); err != nil {
		return nil, err
	} else {
		m.quoteRequests = c.(*prometheus.CounterVec)
	}
	if c, err := register(m.quoteEmpty); err != nil {
		return nil, err
	} else {
		m.quoteEmpty = c.(prometheus.Counter)
	}

	return m, nil
}

// register adds the collector to the default registry, reusing the already
// registered instance on restarts within the same process.
func register(c prometheus.Collector) (prometheus.Collector, error) {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector, nil
		}
		return nil, err
	}
	return c, nil
}

// RecordQuote increments the quote counter for a medication code.
func (m *Metrics) RecordQuote(medicationCode string, empty bool) {
	if m == nil {
		return
	}
	m.quoteRequests.WithLabelValues(strings.TrimSpace(medicationCode)).Inc()
	if empty {
		m.quoteEmpty.Inc()
	}
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method

		m.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
