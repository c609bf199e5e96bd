package aggregates_test

import (
	"context"
	"testing"
	"time"

	"github.com/mestudy/mestudy-core/internal/data/aggregates"
	aggtestutil "github.com/mestudy/mestudy-core/internal/data/aggregates/testutil"
	"github.com/mestudy/mestudy-core/internal/data/repos"
	"github.com/mestudy/mestudy-core/internal/data/repos/testutil"
	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	repos repos.Set
	hooks *aggtestutil.HooksRecorder
	base  aggregates.BaseDeps
}

// newFixture seeds through db directly. Aggregates open their own
// transactions, so tests here must not hold a testutil.Tx.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	hooks := &aggtestutil.HooksRecorder{}
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &fixture{
		db:    db,
		repos: repos.NewSet(db, log),
		hooks: hooks,
		base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(db),
			Hooks:  hooks,
			Clock: func() time.Time {
				clock = clock.Add(time.Second)
				return clock
			},
		},
	}
}

func (f *fixture) lessonPlans() domainagg.LessonPlanAggregate {
	return aggregates.NewLessonPlanAggregate(aggregates.LessonPlanAggregateDeps{
		Base:        f.base,
		LessonPlans: f.repos.LessonPlan,
		Tasks:       f.repos.LessonPlanTask,
		Timetables:  f.repos.Timetable,
	})
}

func (f *fixture) quizzes() domainagg.QuizAggregate {
	return aggregates.NewQuizAggregate(aggregates.QuizAggregateDeps{
		Base:        f.base,
		StudyPlans:  f.repos.StudyPlan,
		LessonPlans: f.repos.LessonPlan,
		Quizzes:     f.repos.Quiz,
		Questions:   f.repos.Question,
	})
}

func (f *fixture) seedPlan(t *testing.T, email string) (*types.User, *types.StudyPlan) {
	t.Helper()
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, f.db, email)
	sp := testutil.SeedStudyPlan(t, ctx, f.db, u.ID, time.Now())
	return u, sp
}

func (f *fixture) studyPlan(t *testing.T, id string) *types.StudyPlan {
	t.Helper()
	sp, err := f.repos.StudyPlan.GetByID(dbctx.New(context.Background()), id)
	if err != nil {
		t.Fatalf("get study plan: %v", err)
	}
	return sp
}

func (f *fixture) quiz(t *testing.T, id string) *types.Quiz {
	t.Helper()
	q, err := f.repos.Quiz.GetByID(dbctx.New(context.Background()), id)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	return q
}

func (f *fixture) latestLessonPlan(t *testing.T, studyPlanID string) *types.LessonPlan {
	t.Helper()
	lp, err := f.repos.LessonPlan.GetLatestByStudyPlanID(dbctx.New(context.Background()), studyPlanID)
	if err != nil {
		t.Fatalf("get lesson plan: %v", err)
	}
	return lp
}

func sampleLessonPlan(studyPlanID string) *types.LessonPlan {
	return &types.LessonPlan{
		StudyPlanID: studyPlanID,
		Grade:       "10",
		Subject:     "Geography",
		Topic:       "Capitals",
		Week:        "Week 1",
		Goals:       "Learn the capitals",
		Milestones:  "Name ten capitals",
		Resources:   "Atlas",
		Timetable: &types.Timetable{
			Session: "Evenings",
			LearningTasks: []*types.LessonPlanTask{
				{Task: "Read chapter 1", Duration: "30 minutes"},
				{Task: "Watch the map video", Duration: "15 minutes"},
			},
			PracticeTasks: []*types.LessonPlanTask{
				{Task: "Flashcards", Duration: "20 minutes"},
			},
		},
	}
}

func sampleQuiz(studyPlanID string) *types.Quiz {
	return &types.Quiz{
		StudyPlanID: studyPlanID,
		Title:       "Capitals",
		Questions: []*types.Question{
			{QuestionType: types.QuestionMultipleChoice, QuestionText: lo.ToPtr("Capital of France?"), Options: types.OptionList{"Paris", "Rome"}, CorrectAnswer: lo.ToPtr("Paris")},
			{QuestionType: types.QuestionShortAnswer, QuestionText: lo.ToPtr("Capital of Italy?"), CorrectAnswer: lo.ToPtr("Rome")},
			{QuestionType: types.QuestionShortAnswer, QuestionText: lo.ToPtr("Capital of Spain?"), CorrectAnswer: lo.ToPtr("Madrid")},
			{QuestionType: types.QuestionPracticeTask, Task: lo.ToPtr("Draw a map"), CorrectAnswer: lo.ToPtr("map")},
		},
	}
}
