package testutil

import (
	"testing"
	"time"

	"github.com/mestudy/mestudy-core/internal/data/aggregates"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
)

func TestHooksRecorder_ClassifiesEvents(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveWrite(aggregates.WriteEvent{Op: "Study.Quiz.Submit", Duration: time.Millisecond})
	h.ObserveWrite(aggregates.WriteEvent{Op: "Study.Quiz.Submit", Code: domainagg.CodeAlreadyCompleted})
	h.ObserveWrite(aggregates.WriteEvent{Op: "Study.LessonPlan.Create", Code: domainagg.CodeRetryable})

	codes := h.Codes("Study.Quiz.Submit")
	if len(codes) != 2 || codes[0] != "" || codes[1] != domainagg.CodeAlreadyCompleted {
		t.Fatalf("unexpected codes %v", codes)
	}
	if h.Conflicts() != 1 || h.Retries() != 1 {
		t.Fatalf("expected one conflict and one retry, got %d/%d", h.Conflicts(), h.Retries())
	}
	if got := h.Events()[0].Status(); got != "success" {
		t.Fatalf("expected success status, got %q", got)
	}
}
