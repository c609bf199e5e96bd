package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/mestudy/mestudy-core/internal/data/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

// errInjectedRollback forces Inner to roll back when a commit failure is injected.
var errInjectedRollback = errors.New("injected rollback")

// FaultyTxRunner injects failures around a transaction. With Inner set the body
// runs inside a real transaction, so an injected commit failure discards its rows.
type FaultyTxRunner struct {
	Inner aggregates.TxRunner

	// FailBegin is returned before the body runs.
	FailBegin error
	// FailCommit is returned after a successful body instead of committing.
	FailCommit error

	mu        sync.Mutex
	bodies    int
	commits   int
	rollbacks int
}

var _ aggregates.TxRunner = (*FaultyTxRunner)(nil)

func (r *FaultyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r.FailBegin != nil {
		return r.FailBegin
	}
	if fn == nil {
		return nil
	}
	body := func(dbc dbctx.Context) error {
		r.count(&r.bodies)
		if err := fn(dbc); err != nil {
			return err
		}
		if r.FailCommit != nil {
			return errInjectedRollback
		}
		return nil
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}
	switch {
	case errors.Is(err, errInjectedRollback):
		r.count(&r.rollbacks)
		return r.FailCommit
	case err != nil:
		r.count(&r.rollbacks)
		return err
	}
	r.count(&r.commits)
	return nil
}

func (r *FaultyTxRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}

// Counts returns how many bodies ran and how many of them committed or rolled back.
func (r *FaultyTxRunner) Counts() (bodies, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bodies, r.commits, r.rollbacks
}
