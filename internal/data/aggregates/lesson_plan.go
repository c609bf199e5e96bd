package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mestudy/mestudy-core/internal/data/repos"
	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

type LessonPlanAggregateDeps struct {
	Base BaseDeps

	LessonPlans repos.LessonPlanRepo
	Tasks       repos.LessonPlanTaskRepo
	Timetables  repos.TimetableRepo
}

type lessonPlanAggregate struct {
	deps LessonPlanAggregateDeps
}

func NewLessonPlanAggregate(deps LessonPlanAggregateDeps) domainagg.LessonPlanAggregate {
	deps.Base = deps.Base.withDefaults()
	return &lessonPlanAggregate{deps: deps}
}

func (a *lessonPlanAggregate) Contract() domainagg.Contract {
	return domainagg.LessonPlanAggregateContract
}

// Create writes the lesson plan row, then every task tagged with its role,
// then the timetable. Any failure rolls all of them back.
func (a *lessonPlanAggregate) Create(ctx context.Context, lp *types.LessonPlan) (domainagg.CreateLessonPlanResult, error) {
	const op = "Study.LessonPlan.Create"
	var out domainagg.CreateLessonPlanResult
	if lp == nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson plan", nil)
	}
	if strings.TrimSpace(lp.StudyPlanID) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing study_plan_id", nil)
	}
	tt := lp.Timetable
	if tt == nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing timetable", nil)
	}
	if a.deps.LessonPlans == nil || a.deps.Tasks == nil || a.deps.Timetables == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson plan aggregate repos not configured", nil)
	}

	if strings.TrimSpace(lp.ID) == "" {
		lp.ID = uuid.NewString()
	}
	if lp.Status == "" {
		lp.Status = types.StatusNotStarted
	}
	if !lp.Status.Valid() {
		return out, domainagg.Errorf(domainagg.CodeValidation, op, "unknown status %q", lp.Status)
	}
	lp.CreatedAt = a.deps.Base.now()
	if strings.TrimSpace(tt.ID) == "" {
		tt.ID = uuid.NewString()
	}
	tt.LessonPlanID = lp.ID
	tasks := tt.Tasks()
	for _, task := range tasks {
		if strings.TrimSpace(task.ID) == "" {
			task.ID = uuid.NewString()
		}
		task.LessonPlanID = lp.ID
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.LessonPlans.Create(dbc, []*types.LessonPlan{lp}); err != nil {
			return err
		}
		if _, err := a.deps.Tasks.Create(dbc, tasks); err != nil {
			return err
		}
		if _, err := a.deps.Timetables.Create(dbc, []*types.Timetable{tt}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return out, err
	}
	out = domainagg.CreateLessonPlanResult{
		LessonPlanID:  lp.ID,
		TimetableID:   tt.ID,
		LearningTasks: len(tt.LearningTasks),
		PracticeTasks: len(tt.PracticeTasks),
	}
	return out, nil
}
