package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
)

type departmentRepository interface {
	Create(ctx context.Context, dept *models.Department) error
	List(ctx context.Context) ([]models.Department, error)
}

// CreateDepartmentRequest holds the payload for creating departments.
type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=academic administrative"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// DepartmentService handles reference data for departments.
type DepartmentService struct {
	repo      departmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(repo departmentRepository, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, validator: validate, logger: logger}
}

// Create stores a new department and returns its generated id.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	deptType := models.DepartmentType(req.Type)
	if deptType == "" {
		deptType = models.DepartmentTypeAcademic
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	dept := &models.Department{
		Name:     req.Name,
		Code:     req.Code,
		Type:     deptType,
		IsActive: active,
	}
	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	return dept, nil
}

// List returns all departments.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}
