package aggregates

import (
	"context"

	"github.com/mestudy/mestudy-core/internal/domain/user"
)

var UserAggregateContract = Contract{
	Name:   "Study.UserAggregate",
	Tables: []string{"user", "study_plan", "lesson_plan", "timetable", "lesson_plan_task", "quiz", "question"},
	Notes:  "Owns user creation and the cascade removal of a user's whole study graph.",
}

// UserAggregate failures carry CodeValidation, CodeConstraintViolation, CodeRetryable or CodeInternal.
type UserAggregate interface {
	Aggregate

	// Create inserts the user and returns the row as stored.
	Create(ctx context.Context, in CreateUserInput) (*user.User, error)

	// Delete removes the user; cascades remove every plan, quiz and question it owns.
	Delete(ctx context.Context, userID string) (bool, error)
}

type CreateUserInput struct {
	ID    string
	Name  string
	Email string
	Grade string
}
