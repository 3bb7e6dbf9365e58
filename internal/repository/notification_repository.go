package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cdams-api/internal/models"
)

// NotificationRepository manages persistence for notification records.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification record.
func (r *NotificationRepository) Create(ctx context.Context, note *models.Notification) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, user_email, title, message, read, created_at)
	VALUES (:id, :user_email, :title, :message, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns notifications matching the filter in insertion order.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	query := `SELECT id, user_email, title, message, read, created_at FROM notifications`
	args := make([]interface{}, 0, 1)
	if filter.UserEmail != "" {
		query += ` WHERE user_email = $1`
		args = append(args, filter.UserEmail)
	}
	query += ` ORDER BY created_at ASC`

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
