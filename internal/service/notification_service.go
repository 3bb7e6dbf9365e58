package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
	"github.com/noah-isme/cdams-api/pkg/jobs"
)

type notificationRepository interface {
	Create(ctx context.Context, note *models.Notification) error
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
}

// CreateNotificationRequest holds the payload for creating notifications.
type CreateNotificationRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Title     string `json:"title" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Read      *bool  `json:"read,omitempty"`
}

// NotificationService stores and lists notification records. Workflow events
// go through a background queue so a slow insert never delays the request
// that triggered it; delivery itself is out of scope, only records exist.
type NotificationService struct {
	repo      notificationRepository
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs the notification service.
func NewNotificationService(repo notificationRepository, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, validator: validate, logger: logger}
}

// StartWorker launches the background writer pool.
func (s *NotificationService) StartWorker(ctx context.Context, cfg jobs.QueueConfig) {
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	s.queue = jobs.NewQueue("notifications", s.handleJob, cfg)
	s.queue.Start(ctx)
}

// StopWorker drains and stops the background writer pool.
func (s *NotificationService) StopWorker() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// Create stores a notification record and returns it with its generated id.
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	read := false
	if req.Read != nil {
		read = *req.Read
	}
	note := &models.Notification{
		UserEmail: req.UserEmail,
		Title:     req.Title,
		Message:   req.Message,
		Read:      read,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return note, nil
}

// List returns notifications matching the filter.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	notifications, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// Dispatch enqueues a workflow notification. Failures are logged and never
// propagate to the caller: a missing notification must not fail the action
// that produced it.
func (s *NotificationService) Dispatch(note models.Notification) {
	if s.queue == nil {
		s.logger.Warn("notification dropped, worker not started", zap.String("user_email", note.UserEmail))
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: "notification.write", Payload: note}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("notification enqueue failed", zap.String("user_email", note.UserEmail), zap.Error(err))
	}
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	note, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	return s.repo.Create(ctx, &note)
}
