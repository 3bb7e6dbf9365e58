package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cdams-api/internal/models"
)

// insertStatusUpdate appends one timeline row. It runs against either a bare
// connection or an open transaction; rows written here are never mutated.
func insertStatusUpdate(ctx context.Context, ext sqlx.ExtContext, update *models.StatusUpdate) error {
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	if update.CreatedAt.IsZero() {
		update.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO status_updates
	(id, application_id, actor_role, actor_name, action, comments, to_department, created_at)
	VALUES (:id, :application_id, :actor_role, :actor_name, :action, :comments, :to_department, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, update); err != nil {
		return fmt.Errorf("create status update: %w", err)
	}
	return nil
}

// StatusUpdateRepository reads and appends application timeline entries.
type StatusUpdateRepository struct {
	db *sqlx.DB
}

// NewStatusUpdateRepository constructs a StatusUpdateRepository.
func NewStatusUpdateRepository(db *sqlx.DB) *StatusUpdateRepository {
	return &StatusUpdateRepository{db: db}
}

// Create appends a standalone timeline entry.
func (r *StatusUpdateRepository) Create(ctx context.Context, update *models.StatusUpdate) error {
	return insertStatusUpdate(ctx, r.db, update)
}

// ListByApplication returns all timeline entries for an application, oldest
// first. An unknown application id yields an empty slice, not an error.
func (r *StatusUpdateRepository) ListByApplication(ctx context.Context, applicationID string) ([]models.StatusUpdate, error) {
	const query = `SELECT id, application_id, actor_role, actor_name, action, comments, to_department, created_at
	FROM status_updates WHERE application_id = $1 ORDER BY created_at ASC`
	var updates []models.StatusUpdate
	if err := r.db.SelectContext(ctx, &updates, query, applicationID); err != nil {
		return nil, fmt.Errorf("list status updates: %w", err)
	}
	return updates, nil
}
