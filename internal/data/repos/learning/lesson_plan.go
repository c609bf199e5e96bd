package learning

import (
	types "github.com/mestudy/mestudy-core/internal/domain"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type LessonPlanRepo interface {
	Create(dbc dbctx.Context, rows []*types.LessonPlan) ([]*types.LessonPlan, error)
	GetLatestByStudyPlanID(dbc dbctx.Context, studyPlanID string) (*types.LessonPlan, error)
	ListByStudyPlanID(dbc dbctx.Context, studyPlanID string) ([]*types.LessonPlan, error)
	// UpdateStatusByStudyPlanID moves every lesson plan of the study plan whose
	// status is in from. An empty from matches any status.
	UpdateStatusByStudyPlanID(dbc dbctx.Context, studyPlanID string, status types.Status, from ...types.Status) (int64, error)
}

type lessonPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonPlanRepo(db *gorm.DB, baseLog *logger.Logger) LessonPlanRepo {
	return &lessonPlanRepo{db: db, log: baseLog.With("repo", "LessonPlanRepo")}
}

func (r *lessonPlanRepo) Create(dbc dbctx.Context, rows []*types.LessonPlan) ([]*types.LessonPlan, error) {
	if len(rows) == 0 {
		return []*types.LessonPlan{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLatestByStudyPlanID picks the most recently created lesson plan; ties break on id.
func (r *lessonPlanRepo) GetLatestByStudyPlanID(dbc dbctx.Context, studyPlanID string) (*types.LessonPlan, error) {
	var out []*types.LessonPlan
	if err := dbc.DB(r.db).
		Where("study_plan_id = ?", studyPlanID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	if err := checkStatus(r.log, "lesson_plan", out[0].ID, &out[0].Status); err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *lessonPlanRepo) ListByStudyPlanID(dbc dbctx.Context, studyPlanID string) ([]*types.LessonPlan, error) {
	out := []*types.LessonPlan{}
	if err := dbc.DB(r.db).
		Where("study_plan_id = ?", studyPlanID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	for _, lp := range out {
		if err := checkStatus(r.log, "lesson_plan", lp.ID, &lp.Status); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *lessonPlanRepo) UpdateStatusByStudyPlanID(dbc dbctx.Context, studyPlanID string, status types.Status, from ...types.Status) (int64, error) {
	q := dbc.DB(r.db).
		Model(&types.LessonPlan{}).
		Where("study_plan_id = ?", studyPlanID)
	if len(from) > 0 {
		q = q.Where("status IN ?", from)
	}
	res := q.Update("status", status)
	return res.RowsAffected, res.Error
}
