package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	"github.com/noah-isme/cdams-api/internal/repository"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
)

type mockApplicationRepo struct {
	apps        map[string]models.Application
	created     []models.StatusUpdate
	transitions []repository.StatusTransition
	pingErr     error
	createErr   error
}

func (m *mockApplicationRepo) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *models.Application, submitted *models.StatusUpdate) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.apps == nil {
		m.apps = make(map[string]models.Application)
	}
	if app.ID == "" {
		app.ID = "generated"
	}
	m.apps[app.ID] = *app
	submitted.ApplicationID = app.ID
	m.created = append(m.created, *submitted)
	return nil
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id string) (*models.Application, error) {
	if app, ok := m.apps[id]; ok {
		return &app, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockApplicationRepo) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	apps := make([]models.Application, 0, len(m.apps))
	for _, app := range m.apps {
		apps = append(apps, app)
	}
	return apps, nil
}

func (m *mockApplicationRepo) ApplyTransition(ctx context.Context, id string, tr repository.StatusTransition, update *models.StatusUpdate) error {
	app := m.apps[id]
	app.Status = tr.Status
	app.CurrentStage = tr.Stage
	if tr.AppendRoute {
		app.RouteHistory = append(app.RouteHistory, string(tr.Stage))
	}
	m.apps[id] = app
	update.ApplicationID = id
	m.created = append(m.created, *update)
	m.transitions = append(m.transitions, tr)
	return nil
}

type mockDispatcher struct {
	notes []models.Notification
}

func (m *mockDispatcher) Dispatch(note models.Notification) {
	m.notes = append(m.notes, note)
}

func validSubmitRequest() SubmitApplicationRequest {
	return SubmitApplicationRequest{
		StudentID:      "S1",
		StudentName:    "Asha Rao",
		StudentEmail:   "asha@college.edu",
		DepartmentCode: "CSE",
		Category:       "leave_request",
		Title:          "Medical leave",
		Description:    "Two days of leave for a medical appointment.",
	}
}

func TestApplicationServiceSubmit(t *testing.T) {
	repo := &mockApplicationRepo{}
	notifier := &mockDispatcher{}
	svc := NewApplicationService(repo, notifier, nil, validator.New(), zap.NewNop())

	result, err := svc.Submit(context.Background(), validSubmitRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, models.StatusSubmitted, result.Status)

	app := repo.apps[result.ID]
	assert.Equal(t, models.StageCoordinator, app.CurrentStage)
	assert.Empty(t, app.RouteHistory)

	require.Len(t, repo.created, 1)
	entry := repo.created[0]
	assert.Equal(t, result.ID, entry.ApplicationID)
	assert.Equal(t, models.ActionSubmit, entry.Action)
	assert.Equal(t, models.RoleStudent, entry.ActorRole)
	assert.Equal(t, "Asha Rao", entry.ActorName)
	require.NotNil(t, entry.Comments)
	assert.Equal(t, "Application submitted", *entry.Comments)

	require.Len(t, notifier.notes, 1)
	assert.Equal(t, "asha@college.edu", notifier.notes[0].UserEmail)
}

func TestApplicationServiceSubmitDefaultsCategory(t *testing.T) {
	repo := &mockApplicationRepo{}
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	req := validSubmitRequest()
	req.Category = ""
	result, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGeneral, repo.apps[result.ID].Category)
}

func TestApplicationServiceSubmitValidation(t *testing.T) {
	svc := NewApplicationService(&mockApplicationRepo{}, nil, nil, validator.New(), zap.NewNop())

	req := validSubmitRequest()
	req.StudentEmail = "not-an-email"
	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func existingApplication(stage models.Stage) *mockApplicationRepo {
	return &mockApplicationRepo{apps: map[string]models.Application{
		"app-1": {
			ID:           "app-1",
			StudentID:    "S1",
			StudentName:  "Asha Rao",
			StudentEmail: "asha@college.edu",
			Title:        "Medical leave",
			Status:       models.StatusSubmitted,
			CurrentStage: stage,
		},
	}}
}

func TestApplicationServiceForwardWithDepartment(t *testing.T) {
	repo := existingApplication(models.StageCoordinator)
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	dept := "hod"
	result, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
		ActorRole:    "coordinator",
		ActorName:    "Dr. Iyer",
		Action:       "forward",
		ToDepartment: &dept,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusForwarded, result.Status)
	assert.Equal(t, models.Stage("hod"), result.CurrentStage)

	app := repo.apps["app-1"]
	require.Len(t, app.RouteHistory, 1)
	assert.Equal(t, "hod", app.RouteHistory[0])
}

func TestApplicationServiceForwardWithoutDepartment(t *testing.T) {
	repo := existingApplication(models.StageCoordinator)
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	result, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
		ActorRole: "coordinator",
		ActorName: "Dr. Iyer",
		Action:    "forward",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusForwarded, result.Status)
	assert.Equal(t, models.StageCoordinator, result.CurrentStage)

	// Stage stays put but the hop is still recorded.
	app := repo.apps["app-1"]
	require.Len(t, app.RouteHistory, 1)
	assert.Equal(t, "coordinator", app.RouteHistory[0])
}

func TestApplicationServiceApproveKeepsStage(t *testing.T) {
	repo := existingApplication(models.StageHOD)
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	result, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
		ActorRole: "hod",
		ActorName: "Dr. Menon",
		Action:    "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, result.Status)
	assert.Equal(t, models.StageHOD, result.CurrentStage)
	assert.Empty(t, repo.apps["app-1"].RouteHistory)
}

func TestApplicationServiceRejectKeepsStage(t *testing.T) {
	repo := existingApplication(models.StageRegistrar)
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	result, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
		ActorRole: "registrar",
		ActorName: "Office",
		Action:    "reject",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, result.Status)
	assert.Equal(t, models.StageRegistrar, result.CurrentStage)
	assert.Empty(t, repo.apps["app-1"].RouteHistory)
}

func TestApplicationServiceOtherActionsGoUnderReview(t *testing.T) {
	for _, action := range []string{"review", "comment"} {
		repo := existingApplication(models.StageCoordinator)
		svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

		result, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
			ActorRole: "coordinator",
			ActorName: "Dr. Iyer",
			Action:    action,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnderReview, result.Status)
		assert.Equal(t, models.StageCoordinator, result.CurrentStage)
	}
}

func TestApplicationServiceActionRecordsActor(t *testing.T) {
	repo := existingApplication(models.StageCoordinator)
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	comments := "needs supporting documents"
	_, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
		ActorRole: "coordinator",
		ActorName: "Dr. Iyer",
		Action:    "review",
		Comments:  &comments,
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	entry := repo.created[0]
	assert.Equal(t, models.RoleCoordinator, entry.ActorRole)
	assert.Equal(t, models.ActionReview, entry.Action)
	require.NotNil(t, entry.Comments)
	assert.Equal(t, comments, *entry.Comments)
}

func TestApplicationServiceActionNotFound(t *testing.T) {
	repo := &mockApplicationRepo{}
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.ApplyAction(context.Background(), "missing", ApplicationActionRequest{
		ActorRole: "coordinator",
		ActorName: "Dr. Iyer",
		Action:    "approve",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestApplicationServiceActionStoreUnavailable(t *testing.T) {
	repo := existingApplication(models.StageCoordinator)
	repo.pingErr = errors.New("connection refused")
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
		ActorRole: "coordinator",
		ActorName: "Dr. Iyer",
		Action:    "approve",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestApplicationServiceActionValidation(t *testing.T) {
	repo := existingApplication(models.StageCoordinator)
	svc := NewApplicationService(repo, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.ApplyAction(context.Background(), "app-1", ApplicationActionRequest{
		ActorRole: "intruder",
		ActorName: "Nobody",
		Action:    "approve",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
