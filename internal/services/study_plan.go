package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/modules/learning/codec"
	"github.com/mestudy/mestudy-core/internal/modules/learning/prompts"
	"github.com/mestudy/mestudy-core/internal/platform/blobstore"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type PlanRequest struct {
	UserID           string
	Grade            string
	Subject          string
	Topic            string
	DurationMonths   int
	FrequencyPerWeek int
}

type PlanBundle struct {
	StudyPlan  *types.StudyPlan
	LessonPlan *types.LessonPlan
}

type PlanOverview struct {
	StudyPlan *types.StudyPlan
	Quizzes   []*types.Quiz
}

type StudyPlanService interface {
	// CreateStudyPlan stores a NotStarted plan and generates its first-week lesson plan.
	CreateStudyPlan(ctx context.Context, req PlanRequest) (*PlanBundle, error)
	// GenerateLessonPlan (re)builds the lesson plan of an existing study plan.
	// Offline it replays the cached document; an already stored copy is returned as is.
	GenerateLessonPlan(ctx context.Context, studyPlanID string) (*types.LessonPlan, error)
	GetStudyPlan(ctx context.Context, id string) (*types.StudyPlan, error)
	ListStudyPlans(ctx context.Context, userID string) ([]*types.StudyPlan, error)
	// Overview lists the user's plans, newest first, each with its quizzes.
	Overview(ctx context.Context, userID string) ([]PlanOverview, error)
	DeleteStudyPlan(ctx context.Context, id string) (bool, error)
}

type studyPlanService struct {
	gw  Gateway
	gen *generation
	log *logger.Logger
}

func NewStudyPlanService(log *logger.Logger, gw Gateway, cfg GenerationConfig) StudyPlanService {
	serviceLog := log.With("service", "StudyPlanService")
	return &studyPlanService{gw: gw, gen: newGeneration(serviceLog, cfg), log: serviceLog}
}

func (s *studyPlanService) CreateStudyPlan(ctx context.Context, req PlanRequest) (*PlanBundle, error) {
	const op = "StudyPlanService.CreateStudyPlan"
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Topic) == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "subject and topic required", nil)
	}
	if req.DurationMonths < 0 || req.FrequencyPerWeek < 0 {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "duration and frequency must not be negative", nil)
	}
	if s.gen.cfg.Offline {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "cannot create a study plan offline", nil)
	}
	sp := &types.StudyPlan{
		UserID:                req.UserID,
		Grade:                 strings.TrimSpace(req.Grade),
		Subject:               strings.TrimSpace(req.Subject),
		Topic:                 strings.TrimSpace(req.Topic),
		StudyDurationMonths:   req.DurationMonths,
		StudyFrequencyPerWeek: req.FrequencyPerWeek,
	}
	id, err := s.gw.InsertStudyPlan(ctx, sp)
	if err != nil {
		return nil, err
	}
	lp, err := s.GenerateLessonPlan(ctx, id)
	if err != nil {
		// The plan row stays; the lesson plan can be generated again.
		s.log.Warn("lesson plan generation failed", "study_plan_id", id, "error", err)
		return nil, err
	}
	stored, err := s.gw.GetStudyPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PlanBundle{StudyPlan: stored, LessonPlan: lp}, nil
}

func (s *studyPlanService) GenerateLessonPlan(ctx context.Context, studyPlanID string) (*types.LessonPlan, error) {
	const op = "StudyPlanService.GenerateLessonPlan"
	key := blobstore.LessonPlanKey(studyPlanID)

	var raw string
	if s.gen.cfg.Offline {
		cached, err := s.gen.offlineRaw(ctx, op, key)
		if err != nil {
			return nil, err
		}
		raw = cached
	} else {
		sp, err := s.gw.GetStudyPlan(ctx, studyPlanID)
		if err != nil {
			return nil, err
		}
		if sp == nil {
			return nil, domainagg.NewError(domainagg.CodeNotFound, op, "study plan "+studyPlanID+" not found", nil)
		}
		raw, err = s.gen.generate(ctx, op, prompts.PromptLessonPlan, prompts.Input{
			StudyPlanID:      sp.ID,
			Grade:            sp.Grade,
			Subject:          sp.Subject,
			Topic:            sp.Topic,
			DurationMonths:   sp.StudyDurationMonths,
			FrequencyPerWeek: sp.StudyFrequencyPerWeek,
		})
		if err != nil {
			return nil, err
		}
	}

	lp, err := codec.DecodeLessonPlan(raw)
	if err != nil {
		s.log.Warn("lesson plan decode failed", "study_plan_id", studyPlanID, "error", err)
		return nil, decodeErr(op, err)
	}
	if s.gen.cfg.Offline {
		existing, err := s.gw.GetLessonPlan(ctx, lp.StudyPlanID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID == lp.ID {
			return existing, nil
		}
	} else if enc, err := codec.EncodeLessonPlan(lp); err == nil {
		s.gen.save(ctx, key, enc)
	}

	if _, err := s.gw.InsertLessonPlan(ctx, lp, lp.Timetable); err != nil {
		return nil, err
	}
	return s.gw.GetLessonPlan(ctx, lp.StudyPlanID)
}

func (s *studyPlanService) GetStudyPlan(ctx context.Context, id string) (*types.StudyPlan, error) {
	return s.gw.GetStudyPlan(ctx, id)
}

func (s *studyPlanService) ListStudyPlans(ctx context.Context, userID string) ([]*types.StudyPlan, error) {
	return s.gw.GetStudyPlans(ctx, userID)
}

func (s *studyPlanService) Overview(ctx context.Context, userID string) ([]PlanOverview, error) {
	plans, err := s.gw.GetStudyPlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]PlanOverview, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, sp := range plans {
		i, sp := i, sp
		out[i].StudyPlan = sp
		g.Go(func() error {
			quizzes, err := s.gw.GetQuizzes(gctx, sp.ID)
			if err != nil {
				return fmt.Errorf("quizzes for %s: %w", sp.ID, err)
			}
			out[i].Quizzes = quizzes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *studyPlanService) DeleteStudyPlan(ctx context.Context, id string) (bool, error) {
	ok, err := s.gw.DeleteStudyPlan(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	if s.gen.cfg.Blobs != nil {
		for _, key := range []string{blobstore.LessonPlanKey(id), blobstore.QuizKey(id)} {
			if err := s.gen.cfg.Blobs.Delete(ctx, key); err != nil {
				s.log.Warn("blob delete failed", "key", key, "error", err)
			}
		}
	}
	return true, nil
}
