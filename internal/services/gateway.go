package services

import (
	"context"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
)

// Gateway is the part of the persistence gateway the services call.
// *store.Store implements it.
type Gateway interface {
	InsertUser(ctx context.Context, id, name, email, grade string) (*types.User, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetUserByName(ctx context.Context, name string) (*types.User, error)

	InsertStudyPlan(ctx context.Context, plan *types.StudyPlan) (string, error)
	GetStudyPlan(ctx context.Context, id string) (*types.StudyPlan, error)
	GetStudyPlans(ctx context.Context, userID string) ([]*types.StudyPlan, error)
	DeleteStudyPlan(ctx context.Context, id string) (bool, error)

	InsertLessonPlan(ctx context.Context, lp *types.LessonPlan, tt *types.Timetable) (string, error)
	GetLessonPlan(ctx context.Context, studyPlanID string) (*types.LessonPlan, error)

	StartQuiz(ctx context.Context, quiz *types.Quiz, questions []*types.Question) (string, error)
	GetQuizzes(ctx context.Context, studyPlanID string) ([]*types.Quiz, error)
	GetQuizQuestions(ctx context.Context, quizID string) ([]*types.Question, error)
	UpdateAnswer(ctx context.Context, questionID, answer string) (bool, error)
	SubmitQuiz(ctx context.Context, studyPlanID, quizID string, answers map[string]string) (domainagg.SubmitQuizResult, error)
}
