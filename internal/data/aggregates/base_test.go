package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/neurobridge-progress/internal/data/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/data/aggregates/testutil"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
)

func TestExecuteWrite_ReportsOutcomeToHooks(t *testing.T) {
	cases := []struct {
		name      string
		body      error
		runner    *testutil.InjectedTxRunner
		wantCode  domainagg.ErrorCode
		conflicts int
		retries   int
	}{
		{name: "success", runner: &testutil.InjectedTxRunner{}},
		{name: "precondition", body: aggregates.InvariantError("enrollment missing"), runner: &testutil.InjectedTxRunner{}, wantCode: domainagg.CodePreconditionFailed},
		{name: "conflict", body: aggregates.ConflictError("row not visible"), runner: &testutil.InjectedTxRunner{}, wantCode: domainagg.CodeConflict, conflicts: 1},
		{name: "retryable", body: aggregates.RetryableError("statement timeout"), runner: &testutil.InjectedTxRunner{}, wantCode: domainagg.CodeRetryable, retries: 1},
		{name: "commit failure", runner: &testutil.InjectedTxRunner{FailCommit: errors.New("disk I/O error")}, wantCode: domainagg.CodeStorage},
		{name: "coded body", body: domainagg.NewError(domainagg.CodeNotCompleted, "x", "not done", nil), runner: &testutil.InjectedTxRunner{}, wantCode: domainagg.CodeNotCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &testutil.HooksRecorder{}
			err := aggregates.ExecuteWriteForTest(context.Background(), aggregates.BaseDeps{Runner: tc.runner, Hooks: hooks}, "Coursework.Test", func(dbctx.Context) error {
				return tc.body
			})
			if got := domainagg.CodeOf(err); got != tc.wantCode {
				t.Fatalf("code: want=%q got=%q (%v)", tc.wantCode, got, err)
			}
			if len(hooks.Writes) != 1 {
				t.Fatalf("writes: want=1 got=%d", len(hooks.Writes))
			}
			wantStatus := "success"
			if tc.wantCode != "" {
				wantStatus = string(tc.wantCode)
			}
			if hooks.Writes[0].Outcome != wantStatus || hooks.Writes[0].Op != "Coursework.Test" {
				t.Fatalf("unexpected operation: %+v", hooks.Writes[0])
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("counters: conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteWrite_BeginFailureSkipsBody(t *testing.T) {
	runner := &testutil.InjectedTxRunner{FailBegin: context.Canceled}
	called := false
	err := aggregates.ExecuteWriteForTest(context.Background(), aggregates.BaseDeps{Runner: runner}, "Coursework.Begin", func(dbctx.Context) error {
		called = true
		return nil
	})
	if called {
		t.Fatalf("body ran after begin failure")
	}
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cause lost: %v", err)
	}
}
