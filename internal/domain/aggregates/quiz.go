package aggregates

import (
	"context"

	"github.com/mestudy/mestudy-core/internal/domain/learning"
)

var QuizAggregateContract = Contract{
	Name:   "Study.QuizAggregate",
	Tables: []string{"quiz", "question", "lesson_plan", "study_plan"},
	Notes:  "Owns quiz+question inserts, the start transition and the grading cascade Quiz -> LessonPlan -> StudyPlan.",
}

// QuizAggregate owns quiz progression.
//
// Write failures return *Error with codes CodeValidation, CodeNotFound,
// CodeConstraintViolation, CodeDivisionByZero, CodeAlreadyCompleted,
// CodePartialFailure, CodeRetryable or CodeInternal.
type QuizAggregate interface {
	Aggregate

	// Create inserts the quiz and its questions in one transaction.
	Create(ctx context.Context, quiz *learning.Quiz) (string, error)

	// Start inserts the quiz like Create and moves the quiz, the lesson plan and
	// the study plan from NotStarted to InProgress in the same transaction.
	Start(ctx context.Context, quiz *learning.Quiz) (StartQuizResult, error)

	// RecordAnswer stores a user answer without grading it.
	RecordAnswer(ctx context.Context, questionID, answer string) (bool, error)

	// Submit grades the answers and completes the quiz, lesson plan and study plan atomically.
	Submit(ctx context.Context, in SubmitQuizInput) (SubmitQuizResult, error)
}

type StartQuizResult struct {
	QuizID           string
	Questions        int
	StudyPlanStarted bool
}

type SubmitQuizInput struct {
	StudyPlanID string
	QuizID      string
	// Answers maps question id to the submitted answer text.
	Answers map[string]string
}

type SubmitQuizResult struct {
	QuizID          string
	Correct         int
	Total           int
	ScorePercentage int
	Results         []QuestionResult
}

type QuestionResult struct {
	QuestionID string
	Answer     string
	IsCorrect  bool
}
