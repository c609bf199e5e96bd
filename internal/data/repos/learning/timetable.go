package learning

import (
	types "github.com/mestudy/mestudy-core/internal/domain"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type TimetableRepo interface {
	Create(dbc dbctx.Context, rows []*types.Timetable) ([]*types.Timetable, error)
	GetByLessonPlanID(dbc dbctx.Context, lessonPlanID string) (*types.Timetable, error)
}

type timetableRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimetableRepo(db *gorm.DB, baseLog *logger.Logger) TimetableRepo {
	return &timetableRepo{db: db, log: baseLog.With("repo", "TimetableRepo")}
}

func (r *timetableRepo) Create(dbc dbctx.Context, rows []*types.Timetable) ([]*types.Timetable, error) {
	if len(rows) == 0 {
		return []*types.Timetable{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByLessonPlanID returns the first timetable stored for the lesson plan, or nil.
func (r *timetableRepo) GetByLessonPlanID(dbc dbctx.Context, lessonPlanID string) (*types.Timetable, error) {
	var out []*types.Timetable
	if err := dbc.DB(r.db).
		Where("lesson_plan_id = ?", lessonPlanID).
		Order("rowid ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
