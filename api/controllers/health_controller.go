/*
 * @module api/controllers/health_controller
 * @description Health and readiness checks for container probes and load
 *              balancers. Readiness verifies database connectivity.
 * @architecture MVC - controller layer
 * @dependencies net/http, github.com/go-chi/render
 */

package controllers

import (
	"net/http"
	"time"

	"ndi-assessment-service/service"

	"github.com/go-chi/render"
)

// HealthController liveness and readiness endpoints.
type HealthController struct{}

// NewHealthController creates a health controller instance.
func NewHealthController() *HealthController {
	return &HealthController{}
}

// HealthResponse health check payload.
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"ndi-assessment-service"`
}

// Health liveness check
// @Summary Liveness check
// @Description Reports whether the process is up
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "ndi-assessment-service",
	})
}

// Ready readiness check
// @Summary Readiness check
// @Description Reports whether the service can reach its database
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "ndi-assessment-service",
	}

	sqlDB, err := service.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		response.Status = "not_ready"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response)
}
