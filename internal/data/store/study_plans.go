package store

import (
	"context"

	types "github.com/mestudy/mestudy-core/internal/domain"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

// InsertStudyPlan assigns id (when empty), created_at and the NotStarted status default.
func (s *Store) InsertStudyPlan(ctx context.Context, plan *types.StudyPlan) (string, error) {
	c, err := s.conn("Store.InsertStudyPlan")
	if err != nil {
		return "", err
	}
	return c.studyPlans.Create(ctx, plan)
}

func (s *Store) GetStudyPlan(ctx context.Context, id string) (*types.StudyPlan, error) {
	const op = "Store.GetStudyPlan"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	sp, err := c.repos.StudyPlan.GetByID(dbctx.New(ctx), id)
	return sp, readErr(op, err)
}

// GetStudyPlans lists the user's plans, most recently created first.
func (s *Store) GetStudyPlans(ctx context.Context, userID string) ([]*types.StudyPlan, error) {
	const op = "Store.GetStudyPlans"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	if err := requireID(op, "user_id", userID); err != nil {
		return nil, err
	}
	plans, err := c.repos.StudyPlan.ListByUser(dbctx.New(ctx), userID)
	return plans, readErr(op, err)
}

// UpdateStudyPlanStatus writes status and returns the re-read row, or
// (nil, nil) when no plan has id.
func (s *Store) UpdateStudyPlanStatus(ctx context.Context, id string, status types.Status) (*types.StudyPlan, error) {
	const op = "Store.UpdateStudyPlanStatus"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	found, err := c.studyPlans.UpdateStatus(ctx, id, status)
	if err != nil || !found {
		return nil, err
	}
	sp, err := c.repos.StudyPlan.GetByID(dbctx.New(ctx), id)
	return sp, readErr(op, err)
}

// DeleteStudyPlan removes the plan with its lesson plans, timetables, tasks,
// quizzes and questions.
func (s *Store) DeleteStudyPlan(ctx context.Context, id string) (bool, error) {
	c, err := s.conn("Store.DeleteStudyPlan")
	if err != nil {
		return false, err
	}
	return c.studyPlans.Delete(ctx, id)
}
