package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/cdams-api/internal/models"
)

// StatusTransition is the computed outcome of an action: the new status and
// stage written atomically, plus whether the stage is appended to the route
// history.
type StatusTransition struct {
	Status      models.ApplicationStatus
	Stage       models.Stage
	AppendRoute bool
}

// ApplicationRepository persists applications and their audit trail.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Ping reports whether the storage backend is reachable.
func (r *ApplicationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create inserts a new application together with its submit audit entry.
// Both rows are written in one transaction so an application can never exist
// without the timeline entry recording its creation.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application, submitted *models.StatusUpdate) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	if app.Attachments == nil {
		app.Attachments = pq.StringArray{}
	}
	if app.RouteHistory == nil {
		app.RouteHistory = pq.StringArray{}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin submit tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO applications
	(id, student_id, student_name, student_email, department_code, category, title, description, attachments, status, current_stage, route_history, created_at, updated_at)
	VALUES (:id, :student_id, :student_name, :student_email, :department_code, :category, :title, :description, :attachments, :status, :current_stage, :route_history, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	submitted.ApplicationID = app.ID
	if err := insertStatusUpdate(ctx, tx, submitted); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submit tx: %w", err)
	}
	return nil
}

// FindByID fetches an application by identifier.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	const query = `SELECT id, student_id, student_name, student_email, department_code, category, title, description,
       attachments, status, current_stage, route_history, created_at, updated_at
	FROM applications WHERE id = $1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns applications matching the filter in insertion order.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT id, student_id, student_name, student_email, department_code, category, title, description,
       attachments, status, current_stage, route_history, created_at, updated_at FROM applications`)

	args := make([]interface{}, 0, 4)
	conditions := make([]string, 0, 4)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.DepartmentCode != "" {
		args = append(args, filter.DepartmentCode)
		conditions = append(conditions, fmt.Sprintf("department_code = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at ASC")

	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ApplyTransition updates status and stage in one statement and appends the
// audit entry, all inside a single transaction. When AppendRoute is set the
// new stage is pushed onto route_history as part of the same update.
func (r *ApplicationRepository) ApplyTransition(ctx context.Context, id string, tr StatusTransition, update *models.StatusUpdate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin action tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if tr.AppendRoute {
		const query = `UPDATE applications
			SET status = $2, current_stage = $3, route_history = array_append(route_history, $3), updated_at = $4
			WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, id, tr.Status, tr.Stage, now); err != nil {
			return fmt.Errorf("apply transition: %w", err)
		}
	} else {
		const query = `UPDATE applications
			SET status = $2, current_stage = $3, updated_at = $4
			WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, id, tr.Status, tr.Stage, now); err != nil {
			return fmt.Errorf("apply transition: %w", err)
		}
	}

	update.ApplicationID = id
	if err := insertStatusUpdate(ctx, tx, update); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit action tx: %w", err)
	}
	return nil
}
