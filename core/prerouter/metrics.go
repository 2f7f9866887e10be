package prerouter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/caasmo/alabaster/core"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultMetricName = "http_server_requests_total"
	defaultMetricHelp = "Total number of HTTP requests handled by the server, labeled by status code."
)

// MetricsOpts holds configuration options for the Metrics middleware.
type MetricsOpts struct {
	// MetricName is the name of the Prometheus counter.
	// Default: "http_server_requests_total"
	MetricName string

	// MetricHelp is the help string for the Prometheus counter.
	MetricHelp string

	// Registry is the Prometheus registry to register the metric with.
	// If nil, prometheus.DefaultRegisterer is used.
	Registry prometheus.Registerer
}

// Metrics counts requests by status code. Registration panics on a name
// collision, like every promauto constructor; callers own metric naming.
type Metrics struct {
	app           *core.App
	requestsTotal *prometheus.CounterVec
}

func NewMetrics(app *core.App, opts MetricsOpts) *Metrics {
	name := opts.MetricName
	if name == "" {
		name = defaultMetricName
	}
	help := opts.MetricHelp
	if help == "" {
		help = defaultMetricHelp
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: name, Help: help},
		[]string{"code"},
	)
	registry.MustRegister(counter)

	return &Metrics{app: app, requestsTotal: counter}
}

// Execute wraps the next handler with request counting.
func (m *Metrics) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.app.Config().Metrics.Activated {
			next.ServeHTTP(w, r)
			return
		}

		rec, ok := w.(*core.ResponseRecorder)
		if !ok {
			rec = &core.ResponseRecorder{
				ResponseWriter: w,
				Status:         http.StatusOK,
				StartTime:      time.Now(),
			}
		}

		next.ServeHTTP(rec, r)

		m.requestsTotal.WithLabelValues(strconv.Itoa(rec.Status)).Inc()
	})
}
