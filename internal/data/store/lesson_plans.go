package store

import (
	"context"

	types "github.com/mestudy/mestudy-core/internal/domain"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

// InsertLessonPlan writes the lesson plan, its tasks and its timetable in one
// transaction and returns the lesson plan id.
func (s *Store) InsertLessonPlan(ctx context.Context, lp *types.LessonPlan, tt *types.Timetable) (string, error) {
	c, err := s.conn("Store.InsertLessonPlan")
	if err != nil {
		return "", err
	}
	if lp != nil && tt != nil {
		lp.Timetable = tt
	}
	res, err := c.lessonPlans.Create(ctx, lp)
	if err != nil {
		return "", err
	}
	return res.LessonPlanID, nil
}

// GetLessonPlan returns the most recent lesson plan of the study plan with its
// timetable and role-split tasks, or (nil, nil) when there is none.
func (s *Store) GetLessonPlan(ctx context.Context, studyPlanID string) (*types.LessonPlan, error) {
	const op = "Store.GetLessonPlan"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	lp, err := c.repos.LessonPlan.GetLatestByStudyPlanID(dbc, studyPlanID)
	if err != nil || lp == nil {
		return nil, readErr(op, err)
	}
	tt, err := c.repos.Timetable.GetByLessonPlanID(dbc, lp.ID)
	if err != nil {
		return nil, readErr(op, err)
	}
	learningTasks, practiceTasks, err := c.repos.LessonPlanTask.ListByLessonPlanID(dbc, lp.ID)
	if err != nil {
		return nil, readErr(op, err)
	}
	if tt == nil {
		s.log.Warn("lesson plan has no timetable", "lesson_plan_id", lp.ID)
		tt = &types.Timetable{LessonPlanID: lp.ID}
	}
	tt.LearningTasks = learningTasks
	tt.PracticeTasks = practiceTasks
	lp.Timetable = tt
	return lp, nil
}
