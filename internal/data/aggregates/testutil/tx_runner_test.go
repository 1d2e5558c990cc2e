package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
)

func TestInjectedTxRunner(t *testing.T) {
	bodyErr := errors.New("body failed")
	commitErr := errors.New("commit failed")
	cases := []struct {
		name         string
		runner       *InjectedTxRunner
		body         error
		want         error
		wantCalled   bool
		wantCommit   int
		wantRollback int
	}{
		{name: "commit", runner: &InjectedTxRunner{}, wantCalled: true, wantCommit: 1},
		{name: "body error", runner: &InjectedTxRunner{}, body: bodyErr, want: bodyErr, wantCalled: true, wantRollback: 1},
		{name: "commit error", runner: &InjectedTxRunner{FailCommit: commitErr}, want: commitErr, wantCalled: true, wantRollback: 1},
		{name: "begin error", runner: &InjectedTxRunner{FailBegin: context.Canceled}, want: context.Canceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			err := tc.runner.InTx(context.Background(), func(dbctx.Context) error {
				called = true
				return tc.body
			})
			if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
				t.Fatalf("err: want=%v got=%v", tc.want, err)
			}
			if called != tc.wantCalled {
				t.Fatalf("body called: want=%v got=%v", tc.wantCalled, called)
			}
			if tc.runner.CommitCalls != tc.wantCommit || tc.runner.RollbackCalls != tc.wantRollback {
				t.Fatalf("commit=%d rollback=%d", tc.runner.CommitCalls, tc.runner.RollbackCalls)
			}
		})
	}
}
