package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macrohero",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "macrohero",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macrohero",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of meal service calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "macrohero",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of meal service calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		[]string{"operation"},
	)

	slotRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macrohero",
			Subsystem: "plan",
			Name:      "slot_refreshes_total",
			Help:      "Total number of slot refresh attempts by slot and outcome.",
		},
		[]string{"slot", "outcome"},
	)

	plansLoading = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "macrohero",
			Subsystem: "plan",
			Name:      "loading",
			Help:      "Number of plans currently showing a loading indicator.",
		},
	)

	sessionsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "macrohero",
			Subsystem: "session",
			Name:      "expired_total",
			Help:      "Total number of expired plan sessions removed by the sweeper.",
		},
	)

	activeSessions prometheus.Collector
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		gatewayRequests,
		gatewayDuration,
		slotRefreshes,
		plansLoading,
		sessionsSwept,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a handled HTTP request. Path should be the
// route template, not the raw URL, to keep label cardinality bounded.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, statusLabel(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRefresh counts one slot refresh attempt.
func RecordRefresh(slot, outcome string) {
	slotRefreshes.WithLabelValues(slot, outcome).Inc()
}

// ObserveLoading tracks loading indicator transitions. It is meant to be
// installed as a plan view's loading hook.
func ObserveLoading(isLoading bool) {
	if isLoading {
		plansLoading.Inc()
		return
	}
	plansLoading.Dec()
}

// RecordSweep counts sessions removed by one cleanup run.
func RecordSweep(removed int) {
	if removed > 0 {
		sessionsSwept.Add(float64(removed))
	}
}

// RegisterSessionGauge exposes the live session count. Only the first
// registration takes effect.
func RegisterSessionGauge(count func() int) error {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "macrohero",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of plan sessions currently held in memory.",
		},
		func() float64 { return float64(count()) },
	)

	if err := Registry.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	activeSessions = gauge
	return nil
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
