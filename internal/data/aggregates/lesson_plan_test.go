package aggregates_test

import (
	"context"
	"errors"
	"testing"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"gorm.io/gorm"
)

func TestLessonPlanCreate_RoundTrip(t *testing.T) {
	f := newFixture(t)
	_, sp := f.seedPlan(t, "lp@example.com")

	res, err := f.lessonPlans().Create(context.Background(), sampleLessonPlan(sp.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.LearningTasks != 2 || res.PracticeTasks != 1 {
		t.Fatalf("unexpected task counts: %+v", res)
	}

	dbc := dbctx.New(context.Background())
	lp := f.latestLessonPlan(t, sp.ID)
	if lp == nil || lp.ID != res.LessonPlanID {
		t.Fatalf("expected lesson plan %s, got %+v", res.LessonPlanID, lp)
	}
	if lp.Status != types.StatusNotStarted {
		t.Fatalf("expected NotStarted, got %q", lp.Status)
	}
	tt, err := f.repos.Timetable.GetByLessonPlanID(dbc, lp.ID)
	if err != nil || tt == nil {
		t.Fatalf("timetable: %v %+v", err, tt)
	}
	if tt.Session != "Evenings" {
		t.Fatalf("session: %q", tt.Session)
	}
	learning, practice, err := f.repos.LessonPlanTask.ListByLessonPlanID(dbc, lp.ID)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(learning) != 2 || len(practice) != 1 {
		t.Fatalf("expected 2 learning + 1 practice, got %d + %d", len(learning), len(practice))
	}
	if learning[0].Task != "Read chapter 1" || practice[0].Task != "Flashcards" {
		t.Fatalf("unexpected task order: %q %q", learning[0].Task, practice[0].Task)
	}
}

func TestLessonPlanCreate_RollsBackOnTimetableFailure(t *testing.T) {
	f := newFixture(t)
	_, sp := f.seedPlan(t, "lp-rollback@example.com")

	if err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_timetable", func(tx *gorm.DB) {
		if tx.Statement.Table == "timetable" {
			_ = tx.AddError(errors.New("disk I/O error"))
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err := f.lessonPlans().Create(context.Background(), sampleLessonPlan(sp.ID))
	if err == nil {
		t.Fatalf("expected failure")
	}
	if domainagg.CodeOf(err) == "" {
		t.Fatalf("expected typed error, got %v", err)
	}

	var lessonPlans, tasks int64
	f.db.Model(&types.LessonPlan{}).Where("study_plan_id = ?", sp.ID).Count(&lessonPlans)
	f.db.Model(&types.LessonPlanTask{}).Count(&tasks)
	if lessonPlans != 0 || tasks != 0 {
		t.Fatalf("expected no partial rows, got %d lesson plans and %d tasks", lessonPlans, tasks)
	}
}

func TestLessonPlanCreate_UnknownStudyPlan(t *testing.T) {
	f := newFixture(t)
	_, err := f.lessonPlans().Create(context.Background(), sampleLessonPlan("missing"))
	if !domainagg.IsCode(err, domainagg.CodeConstraintViolation) {
		t.Fatalf("expected constraint_violation, got %q (%v)", domainagg.CodeOf(err), err)
	}
	if f.hooks.Conflicts() != 1 {
		t.Fatalf("expected one conflict signal, got %d", f.hooks.Conflicts())
	}
}

func TestLessonPlanCreate_RequiresTimetable(t *testing.T) {
	f := newFixture(t)
	lp := sampleLessonPlan("sp")
	lp.Timetable = nil
	_, err := f.lessonPlans().Create(context.Background(), lp)
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation, got %q", domainagg.CodeOf(err))
	}
}
