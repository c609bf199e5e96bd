package aggregates

import (
	"context"

	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"gorm.io/gorm"
)

// TxRunner opens the transaction an aggregate write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// writeLock admits one writer at a time. Waiters give up when their context ends.
type writeLock chan struct{}

func (l writeLock) acquire(ctx context.Context) error {
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l writeLock) release() { <-l }

type sqliteTxRunner struct {
	db   *gorm.DB
	lock writeLock
}

// NewGormTxRunner serializes every write transaction on db. fn must not call
// InTx on the same runner.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &sqliteTxRunner{db: db, lock: make(writeLock, 1)}
}

func (r *sqliteTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeNotConnected, "aggregate.tx", "database not open", nil)
	}
	if fn == nil {
		return nil
	}
	if err := r.lock.acquire(ctx); err != nil {
		return err
	}
	defer r.lock.release()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
