package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

// ErrUserNotFound indicates the user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrManagerRoleDenied indicates a manager tried to create or promote
// another manager.
var ErrManagerRoleDenied = errors.New("managers may not manage manager accounts")

// AdminUserService encapsulates account management for admins and managers.
type AdminUserService interface {
	List(ctx context.Context, filter dto.AdminUserFilter) ([]dto.UserResponse, error)
	Create(ctx context.Context, principal Principal, payload dto.AdminCreateUserRequest) (dto.UserResponse, error)
	Update(ctx context.Context, principal Principal, id uint, payload dto.AdminUpdateUserRequest) (dto.UserResponse, error)
	Suspend(ctx context.Context, id uint) (dto.UserResponse, error)
}

type adminUserService struct {
	users      repository.UserRepository
	validator  *validator.Validate
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAdminUserService constructs the account management service.
func NewAdminUserService(users repository.UserRepository, validate *validator.Validate, bcryptCost int, logger zerolog.Logger) AdminUserService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &adminUserService{
		users:      users,
		validator:  validate,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "admin_user_service").Logger(),
		now:        time.Now,
	}
}

func (s *adminUserService) List(ctx context.Context, filter dto.AdminUserFilter) ([]dto.UserResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, repository.UserFilter{
		Role:   filter.Role,
		Status: filter.Status,
		Search: filter.Search,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *adminUserService) Create(ctx context.Context, principal Principal, payload dto.AdminCreateUserRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	// Managers may create teachers and students only.
	if principal.Role == models.RoleManager && payload.Role == models.RoleManager {
		return dto.UserResponse{}, ErrManagerRoleDenied
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.bcryptCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:     strings.TrimSpace(payload.Name),
		Email:    email,
		Password: string(hashed),
		Role:     payload.Role,
		Status:   models.UserStatusActive,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("role", user.Role).
		Uint("created_by", principal.UserID).
		Msg("account created")

	return dto.NewUserResponse(user), nil
}

func (s *adminUserService) Update(ctx context.Context, principal Principal, id uint, payload dto.AdminUpdateUserRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Role != nil {
		if principal.Role == models.RoleManager && (*payload.Role == models.RoleManager || user.Role == models.RoleManager) {
			return dto.UserResponse{}, ErrManagerRoleDenied
		}
		user.Role = *payload.Role
	}

	if payload.Name != nil {
		user.Name = strings.TrimSpace(*payload.Name)
	}

	if payload.Status != nil {
		user.Status = *payload.Status
	}

	if payload.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), s.bcryptCost)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Uint("updated_by", principal.UserID).Msg("account updated")

	return dto.NewUserResponse(user), nil
}

// Suspend marks the account suspended rather than deleting it, so historical
// submissions and feedback stay attributable.
func (s *adminUserService) Suspend(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	user.Status = models.UserStatusSuspended
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("account suspended")

	return dto.NewUserResponse(user), nil
}
