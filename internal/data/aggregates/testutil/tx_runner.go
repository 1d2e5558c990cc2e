package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/neurobridge-progress/internal/data/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
)

// InjectedTxRunner injects transaction failures for coursework store tests.
// With Inner set the body runs inside Inner's real transaction, and a
// FailCommit error aborts it so the writes roll back.
type InjectedTxRunner struct {
	mu sync.Mutex

	Inner aggregates.TxRunner

	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit, inner := r.FailBegin, r.FailCommit, r.Inner
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	run := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}
	var err error
	if inner != nil {
		err = inner.InTx(ctx, run)
	} else {
		err = run(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}
