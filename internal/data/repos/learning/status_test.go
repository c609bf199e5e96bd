package learning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mestudy/mestudy-core/internal/data/repos/testutil"
	types "github.com/mestudy/mestudy-core/internal/domain"
	domlearning "github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

func TestReads_CanonicalizeOrRejectStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	u := testutil.SeedUser(t, ctx, tx, "status@example.com")
	sp := testutil.SeedStudyPlan(t, ctx, tx, u.ID, time.Now())
	lp := testutil.SeedLessonPlan(t, ctx, tx, sp.ID, time.Now())
	quiz := testutil.SeedQuiz(t, ctx, tx, sp.ID, types.StatusNotStarted)

	setStatus := func(table, id, status string) {
		t.Helper()
		if err := tx.Table(table).Where("id = ?", id).Update("status", status).Error; err != nil {
			t.Fatalf("set %s status: %v", table, err)
		}
	}

	plans := NewStudyPlanRepo(db, log)
	setStatus("study_plan", sp.ID, "in_progress")
	got, err := plans.GetByID(dbc, sp.ID)
	if err != nil || got.Status != types.StatusInProgress {
		t.Fatalf("expected canonical In Progress, got %+v (%v)", got, err)
	}

	setStatus("study_plan", sp.ID, "Paused")
	if _, err := plans.GetByID(dbc, sp.ID); !errors.Is(err, domlearning.ErrUnknownValue) {
		t.Fatalf("expected unknown status rejected, got %v", err)
	}
	if _, err := plans.ListByUser(dbc, u.ID); !errors.Is(err, domlearning.ErrUnknownValue) {
		t.Fatalf("expected listing rejected, got %v", err)
	}

	setStatus("lesson_plan", lp.ID, "done")
	if _, err := NewLessonPlanRepo(db, log).GetLatestByStudyPlanID(dbc, sp.ID); !errors.Is(err, domlearning.ErrUnknownValue) {
		t.Fatalf("expected lesson plan rejected, got %v", err)
	}

	setStatus("quiz", quiz.ID, "")
	if _, err := NewQuizRepo(db, log).GetByID(dbc, quiz.ID); !errors.Is(err, domlearning.ErrUnknownValue) {
		t.Fatalf("expected quiz rejected, got %v", err)
	}
}
