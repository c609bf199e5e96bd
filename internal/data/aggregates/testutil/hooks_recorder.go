package testutil

import (
	"sync"

	"github.com/mestudy/mestudy-core/internal/data/aggregates"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
)

// HooksRecorder keeps every write event for assertions.
type HooksRecorder struct {
	mu     sync.Mutex
	events []aggregates.WriteEvent
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveWrite(ev aggregates.WriteEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func (h *HooksRecorder) Events() []aggregates.WriteEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]aggregates.WriteEvent(nil), h.events...)
}

// Codes lists the result code of every write to op, "" for success.
func (h *HooksRecorder) Codes(op string) []domainagg.ErrorCode {
	var out []domainagg.ErrorCode
	for _, ev := range h.Events() {
		if ev.Op == op {
			out = append(out, ev.Code)
		}
	}
	return out
}

func (h *HooksRecorder) Conflicts() int {
	n := 0
	for _, ev := range h.Events() {
		if ev.Conflict() {
			n++
		}
	}
	return n
}

func (h *HooksRecorder) Retries() int {
	n := 0
	for _, ev := range h.Events() {
		if ev.Retryable() {
			n++
		}
	}
	return n
}
