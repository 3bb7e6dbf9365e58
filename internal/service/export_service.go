package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
	"github.com/noah-isme/cdams-api/pkg/export"
)

// ExportFormat identifies a supported export encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type applicationReader interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
}

// ExportResult carries rendered bytes with serving metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders an application and its timeline as CSV or PDF.
type ExportService struct {
	apps     applicationReader
	timeline statusUpdateReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(apps applicationReader, timeline statusUpdateReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		apps:     apps,
		timeline: timeline,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Application renders the application summary followed by its timeline rows.
func (s *ExportService) Application(ctx context.Context, id string, format ExportFormat) (*ExportResult, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	updates, err := s.timeline.ListByApplication(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeline")
	}

	data := timelineDataset(app, updates)
	title := fmt.Sprintf("Application %s", app.Title)

	switch format {
	case ExportFormatPDF:
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: exportFilename(app.ID, "pdf")}, nil
	case ExportFormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: exportFilename(app.ID, "csv")}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func timelineDataset(app *models.Application, updates []models.StatusUpdate) export.Dataset {
	headers := []string{"When", "Action", "Actor", "Role", "To Department", "Comments"}
	rows := make([]map[string]string, 0, len(updates)+1)

	rows = append(rows, map[string]string{
		"When":          app.CreatedAt.UTC().Format(time.RFC3339),
		"Action":        "status: " + string(app.Status),
		"Actor":         app.StudentName,
		"Role":          string(models.RoleStudent),
		"To Department": string(app.CurrentStage),
		"Comments":      fmt.Sprintf("%s [%s] route: %s", app.Title, app.Category, strings.Join(app.RouteHistory, " > ")),
	})

	for _, u := range updates {
		row := map[string]string{
			"When":   u.CreatedAt.UTC().Format(time.RFC3339),
			"Action": string(u.Action),
			"Actor":  u.ActorName,
			"Role":   string(u.ActorRole),
		}
		if u.ToDepartment != nil {
			row["To Department"] = *u.ToDepartment
		}
		if u.Comments != nil {
			row["Comments"] = *u.Comments
		}
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func exportFilename(id, ext string) string {
	return fmt.Sprintf("application-%s.%s", id, ext)
}
