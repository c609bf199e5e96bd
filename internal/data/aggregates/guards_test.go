package aggregates

import (
	"context"
	"testing"
	"time"

	"github.com/mestudy/mestudy-core/internal/data/repos/testutil"
	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

func TestRequireForwardTransition(t *testing.T) {
	cases := []struct {
		from, to learning.Status
		ok       bool
	}{
		{learning.StatusNotStarted, learning.StatusInProgress, true},
		{learning.StatusInProgress, learning.StatusInProgress, true},
		{learning.StatusNotStarted, learning.StatusCompleted, true},
		{learning.StatusInProgress, learning.StatusNotStarted, false},
		{learning.StatusCompleted, learning.StatusInProgress, false},
		{learning.StatusNotStarted, learning.Status("paused"), false},
	}
	for _, tc := range cases {
		err := RequireForwardTransition(tc.from, tc.to)
		if (err == nil) != tc.ok {
			t.Fatalf("%s -> %s: ok=%v err=%v", tc.from, tc.to, tc.ok, err)
		}
	}
}

func TestRequireRowsAffected(t *testing.T) {
	if err := RequireRowsAffected(1, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireRowsAffected(0, "stale"); err == nil {
		t.Fatalf("expected partial failure")
	}
}

func TestCASGuard_UpdateByStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "cas@example.com")
	sp := testutil.SeedStudyPlan(t, ctx, tx, u.ID, time.Now())

	g := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	ok, err := g.UpdateByStatus(dbc, "study_plan", sp.ID, []learning.Status{learning.StatusNotStarted}, map[string]any{"status": learning.StatusInProgress})
	if err != nil || !ok {
		t.Fatalf("first CAS: ok=%v err=%v", ok, err)
	}
	ok, err = g.UpdateByStatus(dbc, "study_plan", sp.ID, []learning.Status{learning.StatusNotStarted}, map[string]any{"status": learning.StatusCompleted})
	if err != nil {
		t.Fatalf("second CAS: %v", err)
	}
	if ok {
		t.Fatalf("second CAS must miss once status moved on")
	}
	if _, err := g.UpdateByStatus(dbc, "study_plan", sp.ID, nil, map[string]any{"status": learning.StatusCompleted}); err == nil {
		t.Fatalf("expected validation error for empty allowed set")
	}
}
