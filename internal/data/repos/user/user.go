package user

import (
	"fmt"
	"strings"

	types "github.com/mestudy/mestudy-core/internal/domain"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []string) ([]*types.User, error)
	GetByID(dbc dbctx.Context, userID string) (*types.User, error)
	GetByName(dbc dbctx.Context, name string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	DeleteByIDs(dbc dbctx.Context, userIDs []string) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(r.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, userIDs []string) ([]*types.User, error) {
	var out []*types.User
	if len(userIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", userIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns nil without error when no user matches.
func (r *userRepo) GetByID(dbc dbctx.Context, userID string) (*types.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.User
	if err := dbc.DB(r.db).
		Where("id = ?", userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// GetByName returns the earliest inserted user with that name, or nil.
func (r *userRepo) GetByName(dbc dbctx.Context, name string) (*types.User, error) {
	var out []*types.User
	if err := dbc.DB(r.db).
		Where("name = ?", name).
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

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) DeleteByIDs(dbc dbctx.Context, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Where("id IN ?", userIDs).
		Delete(&types.User{})
	return res.RowsAffected, res.Error
}
