package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mestudy/mestudy-core/internal/data/repos"
	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
)

type UserAggregateDeps struct {
	Base  BaseDeps
	Users repos.UserRepo
}

type userAggregate struct {
	deps UserAggregateDeps
}

func NewUserAggregate(deps UserAggregateDeps) domainagg.UserAggregate {
	deps.Base = deps.Base.withDefaults()
	return &userAggregate{deps: deps}
}

func (a *userAggregate) Contract() domainagg.Contract {
	return domainagg.UserAggregateContract
}

func (a *userAggregate) Create(ctx context.Context, in domainagg.CreateUserInput) (*types.User, error) {
	const op = "Study.User.Create"
	row := &types.User{
		ID:    strings.TrimSpace(in.ID),
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Grade: strings.TrimSpace(in.Grade),
	}
	if row.Name == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing name", nil)
	}
	if row.Email == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing email", nil)
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	var out *types.User
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Users.Create(dbc, []*types.User{row}); err != nil {
			return err
		}
		stored, err := a.deps.Users.GetByID(dbc, row.ID)
		if err != nil {
			return err
		}
		if stored == nil {
			return PartialFailureError("user %s not readable after insert", row.ID)
		}
		out = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *userAggregate) Delete(ctx context.Context, userID string) (bool, error) {
	const op = "Study.User.Delete"
	if strings.TrimSpace(userID) == "" {
		return false, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	var deleted bool
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		n, err := a.deps.Users.DeleteByIDs(dbc, []string{userID})
		deleted = n > 0
		return err
	})
	return deleted, err
}
