package services

import (
	"context"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/modules/learning/codec"
	"github.com/mestudy/mestudy-core/internal/modules/learning/prompts"
	"github.com/mestudy/mestudy-core/internal/platform/blobstore"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"github.com/samber/lo"
)

type SubmissionResult struct {
	Correct         int
	Total           int
	ScorePercentage int
	StudyPlan       *types.StudyPlan
}

type QuizService interface {
	// CreateLessonQuiz generates a quiz from the latest lesson plan and starts
	// the study plan. Offline it replays the cached quiz, once.
	CreateLessonQuiz(ctx context.Context, studyPlanID string) (*types.Quiz, error)
	ListQuizzes(ctx context.Context, studyPlanID string) ([]*types.Quiz, error)
	GetQuestions(ctx context.Context, quizID string) ([]*types.Question, error)
	RecordAnswer(ctx context.Context, questionID, answer string) (bool, error)
	Submit(ctx context.Context, studyPlanID, quizID string, answers map[string]string) (*SubmissionResult, error)
}

type quizService struct {
	gw  Gateway
	gen *generation
	log *logger.Logger
}

func NewQuizService(log *logger.Logger, gw Gateway, cfg GenerationConfig) QuizService {
	serviceLog := log.With("service", "QuizService")
	return &quizService{gw: gw, gen: newGeneration(serviceLog, cfg), log: serviceLog}
}

func (qs *quizService) CreateLessonQuiz(ctx context.Context, studyPlanID string) (*types.Quiz, error) {
	const op = "QuizService.CreateLessonQuiz"
	key := blobstore.QuizKey(studyPlanID)

	var raw string
	if qs.gen.cfg.Offline {
		cached, err := qs.gen.offlineRaw(ctx, op, key)
		if err != nil {
			return nil, err
		}
		raw = cached
	} else {
		lp, err := qs.gw.GetLessonPlan(ctx, studyPlanID)
		if err != nil {
			return nil, err
		}
		if lp == nil {
			return nil, domainagg.NewError(domainagg.CodeNotFound, op, "no lesson plan for study plan "+studyPlanID, nil)
		}
		raw, err = qs.gen.generate(ctx, op, prompts.PromptQuiz, quizInput(lp))
		if err != nil {
			return nil, err
		}
	}

	quiz, err := codec.DecodeQuiz(raw)
	if err != nil {
		qs.log.Warn("quiz decode failed", "study_plan_id", studyPlanID, "error", err)
		return nil, decodeErr(op, err)
	}

	if qs.gen.cfg.Offline {
		existing, err := qs.findQuiz(ctx, quiz.StudyPlanID, quiz.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	} else if enc, err := codec.EncodeQuiz(quiz); err == nil {
		qs.gen.save(ctx, key, enc)
	}

	id, err := qs.gw.StartQuiz(ctx, quiz, quiz.Questions)
	if err != nil {
		return nil, err
	}
	stored, err := qs.findQuiz(ctx, quiz.StudyPlanID, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domainagg.NewError(domainagg.CodePartialFailure, op, "quiz "+id+" missing after insert", nil)
	}
	qs.log.Info("quiz started", "study_plan_id", quiz.StudyPlanID, "quiz_id", id, "questions", len(stored.Questions))
	return stored, nil
}

func (qs *quizService) findQuiz(ctx context.Context, studyPlanID, quizID string) (*types.Quiz, error) {
	quizzes, err := qs.gw.GetQuizzes(ctx, studyPlanID)
	if err != nil {
		return nil, err
	}
	q, _ := lo.Find(quizzes, func(q *types.Quiz) bool { return q.ID == quizID })
	return q, nil
}

func quizInput(lp *types.LessonPlan) prompts.Input {
	in := prompts.Input{
		StudyPlanID: lp.StudyPlanID,
		Grade:       lp.Grade,
		Subject:     lp.Subject,
		Topic:       lp.Topic,
		Week:        lp.Week,
		Goals:       lp.Goals,
		Milestones:  lp.Milestones,
	}
	if tt := lp.Timetable; tt != nil {
		toTask := func(t *types.LessonPlanTask, _ int) prompts.Task {
			return prompts.Task{Task: t.Task, Duration: t.Duration}
		}
		in.Session = tt.Session
		in.LearningTasks = lo.Map(tt.LearningTasks, toTask)
		in.PracticeTasks = lo.Map(tt.PracticeTasks, toTask)
	}
	return in
}

func (qs *quizService) ListQuizzes(ctx context.Context, studyPlanID string) ([]*types.Quiz, error) {
	return qs.gw.GetQuizzes(ctx, studyPlanID)
}

func (qs *quizService) GetQuestions(ctx context.Context, quizID string) ([]*types.Question, error) {
	return qs.gw.GetQuizQuestions(ctx, quizID)
}

func (qs *quizService) RecordAnswer(ctx context.Context, questionID, answer string) (bool, error) {
	return qs.gw.UpdateAnswer(ctx, questionID, answer)
}

// Submit grades and completes the quiz. The returned score is re-read from
// the stored study plan.
func (qs *quizService) Submit(ctx context.Context, studyPlanID, quizID string, answers map[string]string) (*SubmissionResult, error) {
	const op = "QuizService.Submit"
	res, err := qs.gw.SubmitQuiz(ctx, studyPlanID, quizID, answers)
	if err != nil {
		qs.log.Warn("quiz submission failed", "study_plan_id", studyPlanID, "quiz_id", quizID, "error", err)
		return nil, err
	}
	sp, err := qs.gw.GetStudyPlan(ctx, studyPlanID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "study plan "+studyPlanID+" not found", nil)
	}
	return &SubmissionResult{
		Correct:         res.Correct,
		Total:           res.Total,
		ScorePercentage: sp.ScorePercentage,
		StudyPlan:       sp,
	}, nil
}
