package aggregates

import (
	"context"

	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"gorm.io/gorm"
)

// TxRunner owns the transaction boundary of a store write.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// TxRunnerFunc adapts a plain function to TxRunner.
type TxRunnerFunc func(ctx context.Context, fn func(dbc dbctx.Context) error) error

func (f TxRunnerFunc) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return f(ctx, fn)
}

// NewGormTxRunner commits each write as one gorm transaction on db. fn sees
// the transaction through dbc.Tx.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return TxRunnerFunc(func(ctx context.Context, fn func(dbc dbctx.Context) error) error {
		if fn == nil {
			return nil
		}
		if db == nil {
			return domainagg.NewError(domainagg.CodeStorage, "coursework.tx", "no database configured", nil)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	})
}
