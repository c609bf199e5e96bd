package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	// Clock stamps created_at. Defaults to UTC wall time.
	Clock func() time.Time
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return d
}

func (d BaseDeps) now() time.Time {
	return d.Clock().UTC()
}

// Execute runs fn as one serialized write transaction and maps its error.
// Single-row writes outside an aggregate use it to share the same boundary.
func Execute(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	return executeWrite(ctx, deps, op, fn)
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	ctx, span := observability.StartSpan(ctx, op)
	mapped := MapError(op, deps.Runner.InTx(ctx, fn))
	observability.EndSpan(span, mapped)

	code := domainagg.CodeOf(mapped)
	if mapped != nil && code == "" {
		code = domainagg.CodeInternal
	}
	if mapped != nil {
		deps.Log.Debug("aggregate write failed", "op", op, "code", code, "error", mapped)
	}
	deps.Hooks.ObserveWrite(WriteEvent{Op: op, Code: code, Duration: time.Since(start)})
	return mapped
}
