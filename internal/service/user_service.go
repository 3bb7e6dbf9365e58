package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

// CreateUserRequest holds the payload for creating users.
type CreateUserRequest struct {
	FullName       string  `json:"full_name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Role           string  `json:"role" validate:"required,oneof=student coordinator hod registrar admin superadmin"`
	DepartmentCode *string `json:"department_code,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// UserService handles reference data for user accounts.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Create stores a new user and returns it with its generated id.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	user := &models.User{
		FullName:       req.FullName,
		Email:          req.Email,
		Role:           models.Role(req.Role),
		DepartmentCode: req.DepartmentCode,
		IsActive:       active,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}
