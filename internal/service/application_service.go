package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	"github.com/noah-isme/cdams-api/internal/repository"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
)

type applicationRepository interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, app *models.Application, submitted *models.StatusUpdate) error
	FindByID(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	ApplyTransition(ctx context.Context, id string, tr repository.StatusTransition, update *models.StatusUpdate) error
}

// notificationDispatcher records a notification without blocking the caller.
type notificationDispatcher interface {
	Dispatch(note models.Notification)
}

// SubmitApplicationRequest holds the payload for new applications.
type SubmitApplicationRequest struct {
	StudentID      string   `json:"student_id" validate:"required"`
	StudentName    string   `json:"student_name" validate:"required"`
	StudentEmail   string   `json:"student_email" validate:"required,email"`
	DepartmentCode string   `json:"department_code" validate:"required"`
	Category       string   `json:"category" validate:"omitempty,oneof=bonafide_certificate leave_request lab_access project_approval general"`
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	Attachments    []string `json:"attachments"`
}

// SubmitApplicationResponse is returned once an application is stored.
type SubmitApplicationResponse struct {
	ID     string                   `json:"id"`
	Status models.ApplicationStatus `json:"status"`
}

// ApplicationActionRequest holds the payload for acting on an application.
// The actor role is recorded as given; it is never checked against the
// application's current stage.
type ApplicationActionRequest struct {
	ActorRole    string  `json:"actor_role" validate:"required,oneof=student coordinator hod registrar admin superadmin"`
	ActorName    string  `json:"actor_name" validate:"required"`
	Action       string  `json:"action" validate:"required,oneof=submit review forward approve reject comment"`
	Comments     *string `json:"comments,omitempty"`
	ToDepartment *string `json:"to_department,omitempty"`
}

// ApplicationActionResponse reports the state after an action is applied.
type ApplicationActionResponse struct {
	ID           string                   `json:"id"`
	Status       models.ApplicationStatus `json:"status"`
	CurrentStage models.Stage             `json:"current_stage"`
}

// ApplicationService handles the submission and routing workflow.
type ApplicationService struct {
	repo      applicationRepository
	notifier  notificationDispatcher
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService constructs the application service.
func NewApplicationService(repo applicationRepository, notifier notificationDispatcher, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{repo: repo, notifier: notifier, cache: cache, validator: validate, logger: logger}
}

// Submit stores a new application and its initial timeline entry.
func (s *ApplicationService) Submit(ctx context.Context, req SubmitApplicationRequest) (*SubmitApplicationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	category := models.ApplicationCategory(req.Category)
	if category == "" {
		category = models.CategoryGeneral
	}

	app := &models.Application{
		StudentID:      req.StudentID,
		StudentName:    req.StudentName,
		StudentEmail:   req.StudentEmail,
		DepartmentCode: req.DepartmentCode,
		Category:       category,
		Title:          req.Title,
		Description:    req.Description,
		Attachments:    pq.StringArray(req.Attachments),
		Status:         models.StatusSubmitted,
		CurrentStage:   models.StageCoordinator,
		RouteHistory:   pq.StringArray{},
	}

	comments := "Application submitted"
	submitted := &models.StatusUpdate{
		ActorRole: models.RoleStudent,
		ActorName: req.StudentName,
		Action:    models.ActionSubmit,
		Comments:  &comments,
	}

	if err := s.repo.Create(ctx, app, submitted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store application")
	}

	s.notify(app, models.StatusSubmitted, "Your application has been received and is awaiting coordinator review.")

	return &SubmitApplicationResponse{ID: app.ID, Status: app.Status}, nil
}

// ApplyAction moves an application through the workflow. The transition has
// no role or stage guards: any actor may apply any action in any state.
func (s *ApplicationService) ApplyAction(ctx context.Context, applicationID string, req ApplicationActionRequest) (*ApplicationActionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid action payload")
	}

	// Storage reachability is checked before any lookup so connectivity
	// failures surface as 503 rather than a misleading 404.
	if err := s.repo.Ping(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}

	app, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	tr := transitionFor(app, req)
	update := &models.StatusUpdate{
		ActorRole:    models.Role(req.ActorRole),
		ActorName:    req.ActorName,
		Action:       models.ActionType(req.Action),
		Comments:     req.Comments,
		ToDepartment: req.ToDepartment,
	}

	if err := s.repo.ApplyTransition(ctx, applicationID, tr, update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply action")
	}

	s.invalidateTimeline(applicationID)
	s.notify(app, tr.Status, fmt.Sprintf("Your application %q is now %s.", app.Title, tr.Status))

	return &ApplicationActionResponse{ID: applicationID, Status: tr.Status, CurrentStage: tr.Stage}, nil
}

// List returns applications matching the filter.
func (s *ApplicationService) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	apps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

// transitionFor maps an action onto the resulting status and stage. Forward
// moves the stage to the target department (or keeps it) and records the hop
// in the route history; approve and reject touch only the status; every other
// action parks the application under review.
func transitionFor(app *models.Application, req ApplicationActionRequest) repository.StatusTransition {
	switch models.ActionType(req.Action) {
	case models.ActionForward:
		stage := app.CurrentStage
		if req.ToDepartment != nil && *req.ToDepartment != "" {
			stage = models.Stage(*req.ToDepartment)
		}
		return repository.StatusTransition{Status: models.StatusForwarded, Stage: stage, AppendRoute: true}
	case models.ActionApprove:
		return repository.StatusTransition{Status: models.StatusApproved, Stage: app.CurrentStage}
	case models.ActionReject:
		return repository.StatusTransition{Status: models.StatusRejected, Stage: app.CurrentStage}
	default:
		return repository.StatusTransition{Status: models.StatusUnderReview, Stage: app.CurrentStage}
	}
}

func (s *ApplicationService) notify(app *models.Application, status models.ApplicationStatus, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Dispatch(models.Notification{
		UserEmail: app.StudentEmail,
		Title:     fmt.Sprintf("Application %s", status),
		Message:   message,
	})
}

func (s *ApplicationService) invalidateTimeline(applicationID string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(context.Background(), timelineCacheKey(applicationID)); err != nil {
		s.logger.Warn("timeline cache invalidation failed", zap.String("application_id", applicationID), zap.Error(err))
	}
}
