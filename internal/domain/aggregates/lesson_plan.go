package aggregates

import (
	"context"

	"github.com/mestudy/mestudy-core/internal/domain/learning"
)

var LessonPlanAggregateContract = Contract{
	Name:   "Study.LessonPlanAggregate",
	Tables: []string{"lesson_plan", "timetable", "lesson_plan_task"},
	Notes:  "Owns the atomic insert of a lesson plan with its timetable and role-tagged tasks.",
}

// LessonPlanAggregate failures carry CodeValidation, CodeConstraintViolation,
// CodeRetryable or CodeInternal. A failure leaves no rows behind.
type LessonPlanAggregate interface {
	Aggregate

	Create(ctx context.Context, lp *learning.LessonPlan) (CreateLessonPlanResult, error)
}

type CreateLessonPlanResult struct {
	LessonPlanID  string
	TimetableID   string
	LearningTasks int
	PracticeTasks int
}
