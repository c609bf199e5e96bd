package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mestudy/mestudy-core/internal/data/repos"
	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/modules/learning/grading"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/samber/lo"
)

type QuizAggregateDeps struct {
	Base BaseDeps

	StudyPlans  repos.StudyPlanRepo
	LessonPlans repos.LessonPlanRepo
	Quizzes     repos.QuizRepo
	Questions   repos.QuestionRepo
}

type quizAggregate struct {
	deps QuizAggregateDeps
}

func NewQuizAggregate(deps QuizAggregateDeps) domainagg.QuizAggregate {
	deps.Base = deps.Base.withDefaults()
	return &quizAggregate{deps: deps}
}

func (a *quizAggregate) Contract() domainagg.Contract {
	return domainagg.QuizAggregateContract
}

func (a *quizAggregate) configured() bool {
	return a.deps.StudyPlans != nil && a.deps.LessonPlans != nil && a.deps.Quizzes != nil && a.deps.Questions != nil
}

// prepare assigns ids, positions and defaults before the quiz is written.
func (a *quizAggregate) prepare(op string, quiz *types.Quiz, status types.Status) error {
	if quiz == nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing quiz", nil)
	}
	if strings.TrimSpace(quiz.StudyPlanID) == "" {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing study_plan_id", nil)
	}
	if !a.configured() {
		return domainagg.NewError(domainagg.CodeInternal, op, "quiz aggregate repos not configured", nil)
	}
	if strings.TrimSpace(quiz.ID) == "" {
		quiz.ID = uuid.NewString()
	}
	quiz.Status = status
	quiz.CreatedAt = a.deps.Base.now()
	quiz.Questions = lo.Filter(quiz.Questions, func(q *types.Question, _ int) bool { return q != nil })
	for i, q := range quiz.Questions {
		qt, err := learning.ParseQuestionType(string(q.QuestionType))
		if err != nil {
			return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("question %d: %v", i, err), err)
		}
		q.QuestionType = qt
		if strings.TrimSpace(q.ID) == "" {
			q.ID = uuid.NewString()
		}
		q.QuizID = quiz.ID
		q.Position = i
		if q.CorrectAnswer == nil {
			q.CorrectAnswer = lo.ToPtr("")
		}
		if q.Task == nil {
			q.Task = lo.ToPtr("")
		}
	}
	return nil
}

func (a *quizAggregate) insert(dbc dbctx.Context, quiz *types.Quiz) error {
	if _, err := a.deps.Quizzes.Create(dbc, []*types.Quiz{quiz}); err != nil {
		return err
	}
	_, err := a.deps.Questions.Create(dbc, quiz.Questions)
	return err
}

func (a *quizAggregate) Create(ctx context.Context, quiz *types.Quiz) (string, error) {
	const op = "Study.Quiz.Create"
	if err := a.prepare(op, quiz, types.StatusNotStarted); err != nil {
		return "", err
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		return a.insert(dbc, quiz)
	})
	if err != nil {
		return "", err
	}
	return quiz.ID, nil
}

func (a *quizAggregate) Start(ctx context.Context, quiz *types.Quiz) (domainagg.StartQuizResult, error) {
	const op = "Study.Quiz.Start"
	var out domainagg.StartQuizResult
	if err := a.prepare(op, quiz, types.StatusInProgress); err != nil {
		return out, err
	}
	notStarted := []types.Status{types.StatusNotStarted}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		plan, err := a.deps.StudyPlans.GetByID(dbc, quiz.StudyPlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return domainagg.Errorf(domainagg.CodeNotFound, op, "study plan not found: %s", quiz.StudyPlanID)
		}
		if plan.Status == types.StatusCompleted {
			return domainagg.Errorf(domainagg.CodeAlreadyCompleted, op, "study plan %s already completed", plan.ID)
		}
		if err := a.insert(dbc, quiz); err != nil {
			return err
		}
		started, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, plan.TableName(), plan.ID, notStarted, map[string]any{
			"status": types.StatusInProgress,
		})
		if err != nil {
			return err
		}
		if _, err := a.deps.LessonPlans.UpdateStatusByStudyPlanID(dbc, plan.ID, types.StatusInProgress, notStarted...); err != nil {
			return err
		}
		out = domainagg.StartQuizResult{
			QuizID:           quiz.ID,
			Questions:        len(quiz.Questions),
			StudyPlanStarted: started,
		}
		return nil
	})
	if err != nil {
		return domainagg.StartQuizResult{}, err
	}
	return out, nil
}

func (a *quizAggregate) RecordAnswer(ctx context.Context, questionID, answer string) (bool, error) {
	const op = "Study.Quiz.RecordAnswer"
	if strings.TrimSpace(questionID) == "" {
		return false, domainagg.NewError(domainagg.CodeValidation, op, "missing question_id", nil)
	}
	if a.deps.Questions == nil {
		return false, domainagg.NewError(domainagg.CodeInternal, op, "question repo not configured", nil)
	}
	var changed bool
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		var err error
		changed, err = a.deps.Questions.UpdateAnswer(dbc, questionID, answer)
		return err
	})
	return changed, err
}

// Submit grades the answers and completes the quiz, its lesson plan and its
// study plan. Nothing is committed unless every step touches at least one row.
func (a *quizAggregate) Submit(ctx context.Context, in domainagg.SubmitQuizInput) (domainagg.SubmitQuizResult, error) {
	const op = "Study.Quiz.Submit"
	var out domainagg.SubmitQuizResult
	if strings.TrimSpace(in.StudyPlanID) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing study_plan_id", nil)
	}
	if strings.TrimSpace(in.QuizID) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing quiz_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "quiz aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		quiz, err := a.deps.Quizzes.GetByID(dbc, in.QuizID)
		if err != nil {
			return err
		}
		if quiz == nil || quiz.StudyPlanID != in.StudyPlanID {
			return domainagg.Errorf(domainagg.CodeNotFound, op, "quiz %s not found for study plan %s", in.QuizID, in.StudyPlanID)
		}
		if quiz.Status == types.StatusCompleted {
			return domainagg.Errorf(domainagg.CodeAlreadyCompleted, op, "quiz %s already completed", quiz.ID)
		}
		if len(in.Answers) == 0 {
			return domainagg.Wrap(domainagg.CodeDivisionByZero, op, grading.ErrDivisionByZero)
		}

		ids := lo.Keys(in.Answers)
		questions, err := a.deps.Questions.GetByQuizAndIDs(dbc, quiz.ID, ids)
		if err != nil {
			return err
		}
		expected := make(map[string]string, len(questions))
		for _, id := range ids {
			q, ok := questions[id]
			if !ok {
				return domainagg.Errorf(domainagg.CodeNotFound, op, "question not found: %s", id)
			}
			expected[id] = lo.FromPtr(q.CorrectAnswer)
		}

		outcome, err := grading.Grade(in.Answers, expected)
		if err != nil {
			if errors.Is(err, grading.ErrDivisionByZero) {
				return domainagg.Wrap(domainagg.CodeDivisionByZero, op, err)
			}
			return err
		}

		for _, res := range outcome.Results {
			n, err := a.deps.Questions.UpdateGrade(dbc, res.QuestionID, res.Answer, res.IsCorrect)
			if err != nil {
				return err
			}
			if err := RequireRowsAffected(n, "grade question "+res.QuestionID); err != nil {
				return err
			}
		}

		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, quiz.TableName(), quiz.ID,
			[]types.Status{types.StatusNotStarted, types.StatusInProgress},
			map[string]any{"status": types.StatusCompleted})
		if err != nil {
			return err
		}
		if !ok {
			return PartialFailureError("quiz status update affected no rows")
		}

		n, err := a.deps.LessonPlans.UpdateStatusByStudyPlanID(dbc, in.StudyPlanID, types.StatusCompleted)
		if err != nil {
			return err
		}
		if err := RequireRowsAffected(n, "lesson plan status update"); err != nil {
			return err
		}

		n, err = a.deps.StudyPlans.UpdateFields(dbc, in.StudyPlanID, map[string]interface{}{
			"status":           types.StatusCompleted,
			"score_percentage": outcome.ScorePercentage,
		})
		if err != nil {
			return err
		}
		if err := RequireRowsAffected(n, "study plan status update"); err != nil {
			return err
		}

		out = domainagg.SubmitQuizResult{
			QuizID:          quiz.ID,
			Correct:         outcome.Correct,
			Total:           outcome.Total,
			ScorePercentage: outcome.ScorePercentage,
			Results: lo.Map(outcome.Results, func(r grading.Result, _ int) domainagg.QuestionResult {
				return domainagg.QuestionResult{QuestionID: r.QuestionID, Answer: r.Answer, IsCorrect: r.IsCorrect}
			}),
		}
		return nil
	})
	if err != nil {
		return domainagg.SubmitQuizResult{}, err
	}
	return out, nil
}
