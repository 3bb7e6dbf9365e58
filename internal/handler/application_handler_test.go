package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	"github.com/noah-isme/cdams-api/internal/repository"
	"github.com/noah-isme/cdams-api/internal/service"
)

type applicationRepoStub struct {
	apps    map[string]models.Application
	updates map[string][]models.StatusUpdate
	pingErr error
}

func (s *applicationRepoStub) Ping(ctx context.Context) error {
	return s.pingErr
}

func (s *applicationRepoStub) Create(ctx context.Context, app *models.Application, submitted *models.StatusUpdate) error {
	if s.apps == nil {
		s.apps = make(map[string]models.Application)
	}
	if app.ID == "" {
		app.ID = "app-stub"
	}
	s.apps[app.ID] = *app
	submitted.ApplicationID = app.ID
	if s.updates == nil {
		s.updates = make(map[string][]models.StatusUpdate)
	}
	s.updates[app.ID] = append(s.updates[app.ID], *submitted)
	return nil
}

func (s *applicationRepoStub) FindByID(ctx context.Context, id string) (*models.Application, error) {
	if app, ok := s.apps[id]; ok {
		return &app, nil
	}
	return nil, sql.ErrNoRows
}

func (s *applicationRepoStub) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	apps := make([]models.Application, 0, len(s.apps))
	for _, app := range s.apps {
		if filter.Status != "" && string(app.Status) != filter.Status {
			continue
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (s *applicationRepoStub) ApplyTransition(ctx context.Context, id string, tr repository.StatusTransition, update *models.StatusUpdate) error {
	app := s.apps[id]
	app.Status = tr.Status
	app.CurrentStage = tr.Stage
	if tr.AppendRoute {
		app.RouteHistory = append(app.RouteHistory, string(tr.Stage))
	}
	s.apps[id] = app
	update.ApplicationID = id
	s.updates[id] = append(s.updates[id], *update)
	return nil
}

func (s *applicationRepoStub) ListByApplication(ctx context.Context, applicationID string) ([]models.StatusUpdate, error) {
	return s.updates[applicationID], nil
}

func newApplicationTestRouter(repo *applicationRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apps := service.NewApplicationService(repo, nil, nil, nil, zap.NewNop())
	timeline := service.NewTimelineService(repo, nil, zap.NewNop())
	exports := service.NewExportService(repo, repo, zap.NewNop())
	h := NewApplicationHandler(apps, timeline, exports)

	router := gin.New()
	router.POST("/applications", h.Submit)
	router.GET("/applications", h.List)
	router.POST("/applications/:id/action", h.Action)
	router.GET("/applications/:id/timeline", h.Timeline)
	router.GET("/applications/:id/export", h.Export)
	return router
}

func performApplicationRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func seededApplicationRepo() *applicationRepoStub {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return &applicationRepoStub{
		apps: map[string]models.Application{
			"app-1": {
				ID:           "app-1",
				StudentID:    "student-1",
				StudentName:  "Asha Verma",
				StudentEmail: "asha@college.edu",
				Category:     models.CategoryGeneral,
				Title:        "Gym access",
				Status:       models.StatusSubmitted,
				CurrentStage: models.StageCoordinator,
				RouteHistory: []string{string(models.StageCoordinator)},
				CreatedAt:    now,
			},
		},
		updates: map[string][]models.StatusUpdate{
			"app-1": {
				{ID: "u1", ApplicationID: "app-1", Action: models.ActionSubmit, ActorName: "Asha Verma", ActorRole: models.RoleStudent, CreatedAt: now},
			},
		},
	}
}

func TestApplicationHandlerSubmit(t *testing.T) {
	router := newApplicationTestRouter(&applicationRepoStub{})

	payload := `{
		"student_id": "student-1",
		"student_name": "Asha Verma",
		"student_email": "asha@college.edu",
		"department_code": "CSE",
		"title": "Bonafide certificate",
		"description": "Needed for a scholarship application."
	}`
	req, _ := http.NewRequest(http.MethodPost, "/applications", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	var body struct {
		Data service.SubmitApplicationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.ID)
	require.Equal(t, models.StatusSubmitted, body.Data.Status)
}

func TestApplicationHandlerSubmitRejectsBadPayload(t *testing.T) {
	router := newApplicationTestRouter(&applicationRepoStub{})

	req, _ := http.NewRequest(http.MethodPost, "/applications", bytes.NewBufferString(`{"student_id":"s1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), `"error"`)
}

func TestApplicationHandlerActionForward(t *testing.T) {
	router := newApplicationTestRouter(seededApplicationRepo())

	payload := `{"actor_role":"coordinator","actor_name":"Dr. Rao","action":"forward","to_department":"hod"}`
	req, _ := http.NewRequest(http.MethodPost, "/applications/app-1/action", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data service.ApplicationActionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, models.StatusForwarded, body.Data.Status)
	require.Equal(t, models.StageHOD, body.Data.CurrentStage)
}

func TestApplicationHandlerActionUnknownApplication(t *testing.T) {
	router := newApplicationTestRouter(seededApplicationRepo())

	payload := `{"actor_role":"hod","actor_name":"Prof. Iyer","action":"approve"}`
	req, _ := http.NewRequest(http.MethodPost, "/applications/missing/action", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestApplicationHandlerActionStoreUnavailable(t *testing.T) {
	repo := seededApplicationRepo()
	repo.pingErr = sql.ErrConnDone
	router := newApplicationTestRouter(repo)

	payload := `{"actor_role":"hod","actor_name":"Prof. Iyer","action":"approve"}`
	req, _ := http.NewRequest(http.MethodPost, "/applications/app-1/action", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestApplicationHandlerTimeline(t *testing.T) {
	router := newApplicationTestRouter(seededApplicationRepo())

	req, _ := http.NewRequest(http.MethodGet, "/applications/app-1/timeline", nil)
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data []models.StatusUpdate  `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, false, body.Meta["cached"])
}

func TestApplicationHandlerTimelineUnknownIDIsEmpty(t *testing.T) {
	router := newApplicationTestRouter(seededApplicationRepo())

	req, _ := http.NewRequest(http.MethodGet, "/applications/missing/timeline", nil)
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"data":[]`)
}

func TestApplicationHandlerExportCSV(t *testing.T) {
	router := newApplicationTestRouter(seededApplicationRepo())

	req, _ := http.NewRequest(http.MethodGet, "/applications/app-1/export?format=csv", nil)
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	require.Contains(t, resp.Header().Get("Content-Disposition"), "application-app-1.csv")
	require.Contains(t, resp.Body.String(), "Gym access")
}

func TestApplicationHandlerExportDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := seededApplicationRepo()
	apps := service.NewApplicationService(repo, nil, nil, nil, zap.NewNop())
	timeline := service.NewTimelineService(repo, nil, zap.NewNop())
	h := NewApplicationHandler(apps, timeline, nil)

	router := gin.New()
	router.GET("/applications/:id/export", h.Export)

	req, _ := http.NewRequest(http.MethodGet, "/applications/app-1/export", nil)
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestApplicationHandlerFullWorkflow(t *testing.T) {
	router := newApplicationTestRouter(&applicationRepoStub{})

	payload := `{
		"student_id": "student-1",
		"student_name": "Asha Verma",
		"student_email": "asha@college.edu",
		"department_code": "CSE",
		"title": "Project approval",
		"description": "Final year project proposal.",
		"category": "project_approval"
	}`
	req, _ := http.NewRequest(http.MethodPost, "/applications", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performApplicationRequest(router, req)
	require.Equal(t, http.StatusCreated, resp.Code)

	var submitted struct {
		Data service.SubmitApplicationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &submitted))
	id := submitted.Data.ID

	forward := `{"actor_role":"coordinator","actor_name":"Dr. Rao","action":"forward","to_department":"hod"}`
	req, _ = http.NewRequest(http.MethodPost, "/applications/"+id+"/action", bytes.NewBufferString(forward))
	req.Header.Set("Content-Type", "application/json")
	resp = performApplicationRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)

	approve := `{"actor_role":"hod","actor_name":"Prof. Iyer","action":"approve"}`
	req, _ = http.NewRequest(http.MethodPost, "/applications/"+id+"/action", bytes.NewBufferString(approve))
	req.Header.Set("Content-Type", "application/json")
	resp = performApplicationRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var acted struct {
		Data service.ApplicationActionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &acted))
	require.Equal(t, models.StatusApproved, acted.Data.Status)
	require.Equal(t, models.StageHOD, acted.Data.CurrentStage)

	req, _ = http.NewRequest(http.MethodGet, "/applications/"+id+"/timeline", nil)
	resp = performApplicationRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var timeline struct {
		Data []models.StatusUpdate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &timeline))
	require.Len(t, timeline.Data, 3)
	require.Equal(t, models.ActionSubmit, timeline.Data[0].Action)
	require.Equal(t, models.ActionForward, timeline.Data[1].Action)
	require.Equal(t, models.ActionApprove, timeline.Data[2].Action)
}

func TestApplicationHandlerListFiltersByStatus(t *testing.T) {
	router := newApplicationTestRouter(seededApplicationRepo())

	req, _ := http.NewRequest(http.MethodGet, "/applications?status=approved", nil)
	resp := performApplicationRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"data":[]`)
}
