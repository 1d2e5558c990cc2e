package aggregates

import (
	"time"

	"github.com/yungbote/neurobridge-progress/internal/observability"
)

// Hooks receives the outcome of every store write. Outcome is "success" or
// the error code the write failed with.
type Hooks interface {
	ObserveOperation(op, outcome string, dur time.Duration)
	IncConflict(op string)
	IncRetry(op string)
}

// NopHooks discards every observation.
type NopHooks struct{}

func (NopHooks) ObserveOperation(string, string, time.Duration) {}
func (NopHooks) IncConflict(string)                             {}
func (NopHooks) IncRetry(string)                                {}

// NewObservabilityHooks reports store writes to the metrics registry. A nil
// registry yields NopHooks.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return NopHooks{}
	}
	return metricHooks{m: metrics}
}

type metricHooks struct {
	m *observability.Metrics
}

func (h metricHooks) ObserveOperation(op, outcome string, dur time.Duration) {
	h.m.ObserveStoreWrite(op, outcome, dur)
}

func (h metricHooks) IncConflict(op string) { h.m.IncStoreConflict(op) }

func (h metricHooks) IncRetry(op string) { h.m.IncStoreRetryable(op) }
