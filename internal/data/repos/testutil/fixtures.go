package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/mestudy/mestudy-core/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.NewString(),
		Name:  "learner",
		Email: email,
		Grade: "10",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStudyPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID string, createdAt time.Time) *types.StudyPlan {
	tb.Helper()
	sp := &types.StudyPlan{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Grade:                 "10",
		Subject:               "Geography",
		Topic:                 "Capitals",
		StudyDurationMonths:   2,
		StudyFrequencyPerWeek: 3,
		Status:                types.StatusNotStarted,
		CreatedAt:             createdAt.UTC(),
	}
	if err := tx.WithContext(ctx).Create(sp).Error; err != nil {
		tb.Fatalf("seed study plan: %v", err)
	}
	return sp
}

func SeedLessonPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, studyPlanID string, createdAt time.Time) *types.LessonPlan {
	tb.Helper()
	lp := &types.LessonPlan{
		ID:          uuid.NewString(),
		StudyPlanID: studyPlanID,
		Grade:       "10",
		Subject:     "Geography",
		Topic:       "Capitals",
		Week:        "Week 1",
		Goals:       "Name the capitals of Europe",
		Milestones:  "Quiz at the end of the week",
		Resources:   "Atlas",
		Status:      types.StatusNotStarted,
		CreatedAt:   createdAt.UTC(),
	}
	if err := tx.WithContext(ctx).Create(lp).Error; err != nil {
		tb.Fatalf("seed lesson plan: %v", err)
	}
	return lp
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, studyPlanID string, status types.Status) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:          uuid.NewString(),
		StudyPlanID: studyPlanID,
		Title:       "Capitals quiz",
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, quizID string, position int, qt types.QuestionType, correct string) *types.Question {
	tb.Helper()
	text := "question"
	q := &types.Question{
		ID:            uuid.NewString(),
		QuizID:        quizID,
		QuestionType:  qt,
		Position:      position,
		QuestionText:  &text,
		CorrectAnswer: &correct,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}
