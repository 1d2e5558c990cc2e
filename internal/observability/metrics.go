package observability

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// Metrics is a small Prometheus text-format registry.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	storeWrites    *CounterVec
	storeLatency   *HistogramVec
	storeConflicts *CounterVec
	storeRetries   *CounterVec

	courseworkEvents *CounterVec
	quizScores       *HistogramVec
}

func Enabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("METRICS_ENABLED"))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func New(log *logger.Logger) *Metrics {
	if log != nil {
		log.Info("Metrics registry initialized")
	}
	return &Metrics{
		apiRequests: NewCounterVec("progress_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"progress_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("progress_api_inflight_requests", "In-flight API requests."),

		storeWrites: NewCounterVec("progress_store_writes_total", "Coursework store writes by operation/outcome.", []string{"operation", "outcome"}),
		storeLatency: NewHistogramVec(
			"progress_store_write_duration_seconds",
			"Coursework store write latency in seconds, including commit.",
			[]string{"operation"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		),
		storeConflicts: NewCounterVec("progress_store_conflicts_total", "Store writes that lost a uniqueness or compare-and-set race.", []string{"operation"}),
		storeRetries:   NewCounterVec("progress_store_retryable_total", "Store writes aborted by cancellation or timeout.", []string{"operation"}),

		courseworkEvents: NewCounterVec("progress_coursework_events_total", "Committed coursework transitions by type.", []string{"type"}),
		quizScores: NewHistogramVec(
			"progress_quiz_score",
			"Distribution of recorded quiz scores.",
			[]string{},
			[]float64{20, 40, 60, 80, 90, 100},
		),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.storeWrites, m.storeLatency, m.storeConflicts, m.storeRetries,
		m.courseworkEvents, m.quizScores,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveStoreWrite(op, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.storeWrites.Inc(op, outcome)
	m.storeLatency.Observe(dur.Seconds(), op)
}

func (m *Metrics) IncStoreConflict(op string) {
	if m == nil {
		return
	}
	m.storeConflicts.Inc(op)
}

func (m *Metrics) IncStoreRetryable(op string) {
	if m == nil {
		return
	}
	m.storeRetries.Inc(op)
}

func (m *Metrics) IncCourseworkEvent(eventType string) {
	if m == nil {
		return
	}
	m.courseworkEvents.Inc(eventType)
}

func (m *Metrics) ObserveQuizScore(score float64) {
	if m == nil {
		return
	}
	m.quizScores.Observe(score)
}

// CourseworkEventCount is used by tests and the admin CLI.
func (m *Metrics) CourseworkEventCount(eventType string) float64 {
	if m == nil {
		return 0
	}
	return m.courseworkEvents.Value(eventType)
}
