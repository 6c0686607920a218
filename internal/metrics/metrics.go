// Package metrics exposes Prometheus collectors for the webbase service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	contactSubmissionsTotal    *prometheus.CounterVec
	mailsSentTotal             *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webbase_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webbase_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method"},
		)

		contactSubmissionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webbase_contact_submissions_total",
				Help: "Total contact submissions, labeled by terminal outcome.",
			},
			[]string{"outcome"},
		)

		mailsSentTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webbase_mails_sent_total",
				Help: "Total notification emails sent, labeled by kind.",
			},
			[]string{"kind"},
		)
	})
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordContactSubmission counts one terminal pipeline outcome. Spam is a
// distinct label even though callers see it as success.
func RecordContactSubmission(outcome string) {
	if contactSubmissionsTotal != nil {
		contactSubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordMailSent counts one delivered email of the given kind.
func RecordMailSent(kind string) {
	if mailsSentTotal != nil {
		mailsSentTotal.WithLabelValues(kind).Inc()
	}
}

// statusWriter captures the response code for the request counter.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Middleware records request counts and latencies.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		if httpRequestsTotal != nil {
			httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
			httpRequestDurationSeconds.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		}
	})
}
