package services

import (
	"context"
	"strings"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/modules/learning/codec"
	"github.com/mestudy/mestudy-core/internal/modules/learning/prompts"
	"github.com/mestudy/mestudy-core/internal/platform/blobstore"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

const defaultTipCount = 5

type StudyTipsService interface {
	// Tips serves cached tips for the grade/subject/topic and generates them on a miss.
	Tips(ctx context.Context, grade, subject, topic string) (*types.StudyTips, error)
}

type studyTipsService struct {
	gen *generation
	log *logger.Logger
}

func NewStudyTipsService(log *logger.Logger, cfg GenerationConfig) StudyTipsService {
	serviceLog := log.With("service", "StudyTipsService")
	return &studyTipsService{gen: newGeneration(serviceLog, cfg), log: serviceLog}
}

func (s *studyTipsService) Tips(ctx context.Context, grade, subject, topic string) (*types.StudyTips, error) {
	const op = "StudyTipsService.Tips"
	grade, subject, topic = strings.TrimSpace(grade), strings.TrimSpace(subject), strings.TrimSpace(topic)
	key := blobstore.StudyTipsKey(grade, subject, topic)

	if raw, ok := s.gen.cached(ctx, key); ok {
		tips, err := codec.DecodeStudyTips(raw)
		if err == nil {
			return tips, nil
		}
		s.log.Warn("cached study tips unreadable", "key", key, "error", err)
		if s.gen.cfg.Offline {
			return nil, decodeErr(op, err)
		}
	} else if s.gen.cfg.Offline {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "no cached document "+key, nil)
	}

	raw, err := s.gen.generate(ctx, op, prompts.PromptStudyTips, prompts.Input{
		Grade:    grade,
		Subject:  subject,
		Topic:    topic,
		TipCount: defaultTipCount,
	})
	if err != nil {
		return nil, err
	}
	tips, err := codec.DecodeStudyTips(raw)
	if err != nil {
		return nil, decodeErr(op, err)
	}
	if tips.Grade == "" {
		tips.Grade = grade
	}
	if tips.Subject == "" {
		tips.Subject = subject
	}
	if tips.Topic == "" {
		tips.Topic = topic
	}
	if enc, err := codec.EncodeStudyTips(tips); err == nil {
		s.gen.save(ctx, key, enc)
	}
	return tips, nil
}
