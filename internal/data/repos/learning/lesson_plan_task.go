package learning

import (
	types "github.com/mestudy/mestudy-core/internal/domain"
	domlearning "github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type LessonPlanTaskRepo interface {
	Create(dbc dbctx.Context, rows []*types.LessonPlanTask) ([]*types.LessonPlanTask, error)
	// ListByLessonPlanID splits stored tasks by role, each list in insertion position order.
	ListByLessonPlanID(dbc dbctx.Context, lessonPlanID string) (learningTasks, practiceTasks []*types.LessonPlanTask, err error)
}

type lessonPlanTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonPlanTaskRepo(db *gorm.DB, baseLog *logger.Logger) LessonPlanTaskRepo {
	return &lessonPlanTaskRepo{db: db, log: baseLog.With("repo", "LessonPlanTaskRepo")}
}

func (r *lessonPlanTaskRepo) Create(dbc dbctx.Context, rows []*types.LessonPlanTask) ([]*types.LessonPlanTask, error) {
	if len(rows) == 0 {
		return []*types.LessonPlanTask{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonPlanTaskRepo) ListByLessonPlanID(dbc dbctx.Context, lessonPlanID string) ([]*types.LessonPlanTask, []*types.LessonPlanTask, error) {
	var rows []*types.LessonPlanTask
	if err := dbc.DB(r.db).
		Where("lesson_plan_id = ?", lessonPlanID).
		Order("position ASC").
		Order("rowid ASC").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	learningTasks := []*types.LessonPlanTask{}
	practiceTasks := []*types.LessonPlanTask{}
	for _, row := range rows {
		role, err := domlearning.ParseTaskRole(string(row.Role))
		if err != nil {
			r.log.Warn("skipping lesson plan task with unknown role", "task_id", row.ID, "role", row.Role)
			continue
		}
		row.Role = role
		if role == domlearning.TaskRolePractice {
			practiceTasks = append(practiceTasks, row)
		} else {
			learningTasks = append(learningTasks, row)
		}
	}
	return learningTasks, practiceTasks, nil
}
