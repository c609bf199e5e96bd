package learning

import (
	"fmt"
	"strings"

	types "github.com/mestudy/mestudy-core/internal/domain"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type StudyPlanRepo interface {
	Create(dbc dbctx.Context, rows []*types.StudyPlan) ([]*types.StudyPlan, error)
	GetByID(dbc dbctx.Context, id string) (*types.StudyPlan, error)
	ListByUser(dbc dbctx.Context, userID string) ([]*types.StudyPlan, error)
	UpdateFields(dbc dbctx.Context, id string, updates map[string]interface{}) (int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []string) (int64, error)
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) Create(dbc dbctx.Context, rows []*types.StudyPlan) ([]*types.StudyPlan, error) {
	if len(rows) == 0 {
		return []*types.StudyPlan{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil without error when the plan does not exist.
func (r *studyPlanRepo) GetByID(dbc dbctx.Context, id string) (*types.StudyPlan, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("missing study_plan_id")
	}
	var out []*types.StudyPlan
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	if err := checkStatus(r.log, "study_plan", out[0].ID, &out[0].Status); err != nil {
		return nil, err
	}
	return out[0], nil
}

// ListByUser returns the user's plans most recent first.
func (r *studyPlanRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.StudyPlan, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("missing user_id")
	}
	out := []*types.StudyPlan{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	for _, sp := range out {
		if err := checkStatus(r.log, "study_plan", sp.ID, &sp.Status); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *studyPlanRepo) UpdateFields(dbc dbctx.Context, id string, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.StudyPlan{}).
		Where("id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *studyPlanRepo) DeleteByIDs(dbc dbctx.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Where("id IN ?", ids).
		Delete(&types.StudyPlan{})
	return res.RowsAffected, res.Error
}
