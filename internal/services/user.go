package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

type DefaultUser struct {
	Name  string
	Email string
	Grade string
}

type UserService interface {
	// EnsureDefaultUser looks the user up by name and inserts it when absent.
	EnsureDefaultUser(ctx context.Context, def DefaultUser) (*types.User, bool, error)
	CreateUser(ctx context.Context, name, email, grade string) (*types.User, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
}

type userService struct {
	gw  Gateway
	log *logger.Logger
}

func NewUserService(log *logger.Logger, gw Gateway) UserService {
	return &userService{gw: gw, log: log.With("service", "UserService")}
}

func (us *userService) EnsureDefaultUser(ctx context.Context, def DefaultUser) (*types.User, bool, error) {
	const op = "UserService.EnsureDefaultUser"
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, false, domainagg.NewError(domainagg.CodeValidation, op, "default user name required", nil)
	}
	existing, err := us.gw.GetUserByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	u, err := us.CreateUser(ctx, name, def.Email, def.Grade)
	if err != nil {
		return nil, false, err
	}
	us.log.Info("default user created", "user_id", u.ID)
	return u, true, nil
}

func (us *userService) CreateUser(ctx context.Context, name, email, grade string) (*types.User, error) {
	return us.gw.InsertUser(ctx, uuid.NewString(), name, email, grade)
}

func (us *userService) GetUser(ctx context.Context, id string) (*types.User, error) {
	return us.gw.GetUser(ctx, id)
}
