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

type StudyPlanAggregateDeps struct {
	Base  BaseDeps
	Plans repos.StudyPlanRepo
}

type studyPlanAggregate struct {
	deps StudyPlanAggregateDeps
}

func NewStudyPlanAggregate(deps StudyPlanAggregateDeps) domainagg.StudyPlanAggregate {
	deps.Base = deps.Base.withDefaults()
	return &studyPlanAggregate{deps: deps}
}

func (a *studyPlanAggregate) Contract() domainagg.Contract {
	return domainagg.StudyPlanAggregateContract
}

func (a *studyPlanAggregate) Create(ctx context.Context, plan *types.StudyPlan) (string, error) {
	const op = "Study.StudyPlan.Create"
	if plan == nil {
		return "", domainagg.NewError(domainagg.CodeValidation, op, "missing study plan", nil)
	}
	if strings.TrimSpace(plan.UserID) == "" {
		return "", domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if plan.StudyDurationMonths < 0 || plan.StudyFrequencyPerWeek < 0 {
		return "", domainagg.NewError(domainagg.CodeValidation, op, "duration and frequency must be >= 0", nil)
	}
	if plan.ScorePercentage < 0 || plan.ScorePercentage > 100 {
		return "", domainagg.NewError(domainagg.CodeValidation, op, "score must be within 0..100", nil)
	}
	if plan.Status == "" {
		plan.Status = types.StatusNotStarted
	}
	if !plan.Status.Valid() {
		return "", domainagg.Errorf(domainagg.CodeValidation, op, "unknown status %q", plan.Status)
	}
	if strings.TrimSpace(plan.ID) == "" {
		plan.ID = uuid.NewString()
	}
	plan.CreatedAt = a.deps.Base.now()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		_, err := a.deps.Plans.Create(dbc, []*types.StudyPlan{plan})
		return err
	})
	if err != nil {
		return "", err
	}
	return plan.ID, nil
}

func (a *studyPlanAggregate) UpdateStatus(ctx context.Context, studyPlanID string, status types.Status) (bool, error) {
	const op = "Study.StudyPlan.UpdateStatus"
	if strings.TrimSpace(studyPlanID) == "" {
		return false, domainagg.NewError(domainagg.CodeValidation, op, "missing study_plan_id", nil)
	}
	if !status.Valid() {
		return false, domainagg.Errorf(domainagg.CodeValidation, op, "unknown status %q", status)
	}
	if status == types.StatusCompleted {
		return false, domainagg.NewError(domainagg.CodeInvariantViolation, op, "study plans complete only through quiz submission", nil)
	}

	var found bool
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		current, err := a.deps.Plans.GetByID(dbc, studyPlanID)
		if err != nil || current == nil {
			return err
		}
		found = true
		if current.Status == status {
			return nil
		}
		if err := RequireForwardTransition(current.Status, status); err != nil {
			return err
		}
		n, err := a.deps.Plans.UpdateFields(dbc, studyPlanID, map[string]interface{}{"status": status})
		if err != nil {
			return err
		}
		return RequireRowsAffected(n, "study plan status update")
	})
	return found, err
}

func (a *studyPlanAggregate) Delete(ctx context.Context, studyPlanID string) (bool, error) {
	const op = "Study.StudyPlan.Delete"
	if strings.TrimSpace(studyPlanID) == "" {
		return false, domainagg.NewError(domainagg.CodeValidation, op, "missing study_plan_id", nil)
	}
	var deleted bool
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		n, err := a.deps.Plans.DeleteByIDs(dbc, []string{studyPlanID})
		deleted = n > 0
		return err
	})
	return deleted, err
}
