package store

import (
	"context"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

// InsertUser returns the row as stored. A taken email is a constraint_violation.
func (s *Store) InsertUser(ctx context.Context, id, name, email, grade string) (*types.User, error) {
	c, err := s.conn("Store.InsertUser")
	if err != nil {
		return nil, err
	}
	return c.users.Create(ctx, domainagg.CreateUserInput{ID: id, Name: name, Email: email, Grade: grade})
}

// GetUser returns (nil, nil) when no user has id.
func (s *Store) GetUser(ctx context.Context, id string) (*types.User, error) {
	const op = "Store.GetUser"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	u, err := c.repos.User.GetByID(dbctx.New(ctx), id)
	return u, readErr(op, err)
}

// GetUserByName returns the earliest inserted user with name, or (nil, nil).
func (s *Store) GetUserByName(ctx context.Context, name string) (*types.User, error) {
	const op = "Store.GetUserByName"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	u, err := c.repos.User.GetByName(dbctx.New(ctx), name)
	return u, readErr(op, err)
}

// DeleteUser removes the user and, through the cascades, everything it owns.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	c, err := s.conn("Store.DeleteUser")
	if err != nil {
		return false, err
	}
	return c.users.Delete(ctx, id)
}
