package aggregates

import (
	"context"

	"github.com/mestudy/mestudy-core/internal/domain/learning"
)

var StudyPlanAggregateContract = Contract{
	Name:   "Study.StudyPlanAggregate",
	Tables: []string{"study_plan", "lesson_plan", "timetable", "lesson_plan_task", "quiz", "question"},
	Notes:  "Owns study plan creation, manual status progression and cascade deletion.",
}

// StudyPlanAggregate failures carry CodeValidation, CodeConstraintViolation,
// CodeInvariantViolation, CodeRetryable or CodeInternal.
type StudyPlanAggregate interface {
	Aggregate

	// Create inserts a plan. CreatedAt is assigned by the store; score defaults to 0.
	Create(ctx context.Context, plan *learning.StudyPlan) (string, error)

	// UpdateStatus moves a plan forward to NotStarted or InProgress. Completed is
	// reachable only through quiz submission. Returns false when the plan is absent.
	UpdateStatus(ctx context.Context, studyPlanID string, status learning.Status) (bool, error)

	// Delete removes the plan together with its lesson plans, tasks, timetables, quizzes and questions.
	Delete(ctx context.Context, studyPlanID string) (bool, error)
}
