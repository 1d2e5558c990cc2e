package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"gorm.io/gorm"
)

// BaseDeps is what every store write needs. Only DB is required.
type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = NopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return d
}

const defaultWriteOp = "coursework.write"

// executeWrite commits fn as one transaction and returns its error with a
// code attached. Conflicts are expected under concurrency and are only
// counted; other failures are also logged.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = defaultWriteOp
	}

	started := time.Now()
	err := MapError(op, deps.Runner.InTx(ctx, fn))
	outcome := writeOutcome(err)

	switch domainagg.ErrorCode(outcome) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodeRetryable:
		deps.Hooks.IncRetry(op)
		deps.Log.Warn("store write aborted", "op", op, "error", err)
	case domainagg.CodeStorage:
		deps.Log.Error("store write failed", "op", op, "error", err)
	}
	deps.Hooks.ObserveOperation(op, outcome, time.Since(started))
	return err
}

func writeOutcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(domainagg.CodeOf(err))
}
