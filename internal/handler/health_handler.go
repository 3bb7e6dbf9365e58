package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cdams-api/internal/service"
)

// HealthHandler exposes liveness and store diagnostics.
type HealthHandler struct {
	health  *service.HealthService
	metrics *service.MetricsService
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(health *service.HealthService, metrics *service.MetricsService) *HealthHandler {
	return &HealthHandler{health: health, metrics: metrics}
}

// Live godoc
// @Summary Process liveness
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Store godoc
// @Summary Store connectivity and table enumeration
// @Tags Health
// @Produce json
// @Success 200 {object} service.StoreHealth
// @Router /health/db [get]
func (h *HealthHandler) Store(c *gin.Context) {
	c.JSON(http.StatusOK, h.health.Store(c.Request.Context()))
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
