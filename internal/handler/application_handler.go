package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cdams-api/internal/models"
	"github.com/noah-isme/cdams-api/internal/service"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
	"github.com/noah-isme/cdams-api/pkg/response"
)

// ApplicationHandler exposes the application workflow endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
	timeline     *service.TimelineService
	exports      *service.ExportService
}

// NewApplicationHandler constructs ApplicationHandler.
func NewApplicationHandler(applications *service.ApplicationService, timeline *service.TimelineService, exports *service.ExportService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, timeline: timeline, exports: exports}
}

// Submit godoc
// @Summary Submit a new application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req service.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.applications.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List applications
// @Tags Applications
// @Produce json
// @Param student_id query string false "Filter by student id"
// @Param department_code query string false "Filter by department code"
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	filter := models.ApplicationFilter{
		StudentID:      strings.TrimSpace(c.Query("student_id")),
		DepartmentCode: strings.TrimSpace(c.Query("department_code")),
		Status:         strings.TrimSpace(c.Query("status")),
		Category:       strings.TrimSpace(c.Query("category")),
	}
	apps, err := h.applications.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps)
}

// Action godoc
// @Summary Apply an action to an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body service.ApplicationActionRequest true "Action payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /applications/{id}/action [post]
func (h *ApplicationHandler) Action(c *gin.Context) {
	var req service.ApplicationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.applications.ApplyAction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Timeline godoc
// @Summary Get the timeline of an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/timeline [get]
func (h *ApplicationHandler) Timeline(c *gin.Context) {
	updates, cached, err := h.timeline.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updates, map[string]interface{}{"cached": cached})
}

// Export godoc
// @Summary Export an application with its timeline
// @Tags Applications
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Application ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /applications/{id}/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	result, err := h.exports.Application(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
