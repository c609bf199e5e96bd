package learning

import (
	types "github.com/mestudy/mestudy-core/internal/domain"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type QuizRepo interface {
	Create(dbc dbctx.Context, rows []*types.Quiz) ([]*types.Quiz, error)
	GetByID(dbc dbctx.Context, id string) (*types.Quiz, error)
	ListByStudyPlanID(dbc dbctx.Context, studyPlanID string) ([]*types.Quiz, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(dbc dbctx.Context, rows []*types.Quiz) ([]*types.Quiz, error) {
	if len(rows) == 0 {
		return []*types.Quiz{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizRepo) GetByID(dbc dbctx.Context, id string) (*types.Quiz, error) {
	var out []*types.Quiz
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	if err := checkStatus(r.log, "quiz", out[0].ID, &out[0].Status); err != nil {
		return nil, err
	}
	return out[0], nil
}

// ListByStudyPlanID returns quizzes oldest first.
func (r *quizRepo) ListByStudyPlanID(dbc dbctx.Context, studyPlanID string) ([]*types.Quiz, error) {
	out := []*types.Quiz{}
	if err := dbc.DB(r.db).
		Where("study_plan_id = ?", studyPlanID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	for _, q := range out {
		if err := checkStatus(r.log, "quiz", q.ID, &q.Status); err != nil {
			return nil, err
		}
	}
	return out, nil
}
