package aggregates

import (
	"time"

	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/observability"
)

// WriteEvent describes one finished write transaction. Code is empty on success.
type WriteEvent struct {
	Op       string
	Code     domainagg.ErrorCode
	Duration time.Duration
}

func (e WriteEvent) Status() string {
	if e.Code == "" {
		return "success"
	}
	return string(e.Code)
}

// Conflict reports a write rejected by a constraint or an already finished quiz.
func (e WriteEvent) Conflict() bool {
	return e.Code == domainagg.CodeConstraintViolation || e.Code == domainagg.CodeAlreadyCompleted
}

// Retryable reports a write that failed on a busy or cancelled connection.
func (e WriteEvent) Retryable() bool { return e.Code == domainagg.CodeRetryable }

// Hooks receives one event per write transaction.
type Hooks interface {
	ObserveWrite(ev WriteEvent)
}

type HooksFunc func(ev WriteEvent)

func (f HooksFunc) ObserveWrite(ev WriteEvent) { f(ev) }

type noopHooks struct{}

func (noopHooks) ObserveWrite(WriteEvent) {}

// NewMetricsHooks counts writes, conflicts and retryable failures per op.
func NewMetricsHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return HooksFunc(func(ev WriteEvent) {
		metrics.ObserveAggregateOperation(ev.Op, ev.Status(), ev.Duration)
		switch {
		case ev.Conflict():
			metrics.IncAggregateConflict(ev.Op)
		case ev.Retryable():
			metrics.IncAggregateRetry(ev.Op)
		}
	})
}
