package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/neurobridge-progress/internal/data/aggregates"
)

// HooksRecorder keeps every store write signal for later assertions.
type HooksRecorder struct {
	mu sync.Mutex

	Writes    []WriteRecord
	Conflicts []string
	Retries   []string
}

type WriteRecord struct {
	Op       string
	Outcome  string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(op, outcome string, dur time.Duration) {
	h.mu.Lock()
	h.Writes = append(h.Writes, WriteRecord{Op: op, Outcome: outcome, Duration: dur})
	h.mu.Unlock()
}

func (h *HooksRecorder) IncConflict(op string) {
	h.mu.Lock()
	h.Conflicts = append(h.Conflicts, op)
	h.mu.Unlock()
}

func (h *HooksRecorder) IncRetry(op string) {
	h.mu.Lock()
	h.Retries = append(h.Retries, op)
	h.mu.Unlock()
}

// Outcomes lists the outcomes recorded for op, oldest first.
func (h *HooksRecorder) Outcomes(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, w := range h.Writes {
		if w.Op == op {
			out = append(out, w.Outcome)
		}
	}
	return out
}
