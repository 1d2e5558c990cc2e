package testutil

import (
	"sync"
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Coursework.UpsertEnrollmentIfAbsent", "success", 3*time.Millisecond)
	h.ObserveOperation("Coursework.InsertCertificateIfAbsent", "not_completed", time.Millisecond)
	h.ObserveOperation("Coursework.UpsertEnrollmentIfAbsent", "conflict", time.Millisecond)
	h.IncConflict("Coursework.UpsertEnrollmentIfAbsent")
	h.IncRetry("Coursework.UpdateEnrollmentProgress")

	got := h.Outcomes("Coursework.UpsertEnrollmentIfAbsent")
	if len(got) != 2 || got[0] != "success" || got[1] != "conflict" {
		t.Fatalf("unexpected statuses: %v", got)
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 1 {
		t.Fatalf("unexpected counters: conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
}

func TestHooksRecorder_ConcurrentUse(t *testing.T) {
	h := &HooksRecorder{}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ObserveOperation("op", "success", 0)
		}()
	}
	wg.Wait()
	if n := len(h.Outcomes("op")); n != 32 {
		t.Fatalf("want 32 operations, got %d", n)
	}
}
