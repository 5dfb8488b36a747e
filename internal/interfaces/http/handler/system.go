package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/farmerp/backend/internal/interfaces/http/dto"
	"github.com/farmerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and system endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	driver    string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, driver, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		driver:    driver,
		version:   version,
		startTime: time.Now(),
	}
}

// Health reports service and database health.
// It answers 503 when the database cannot be reached.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().UTC().Format(time.RFC3339),
		Database: "connected",
		Driver:   h.driver,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.db == nil {
		resp.Status = "unhealthy"
		resp.Database = "not configured"
	} else if err := h.db.Ping(); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
	}

	if resp.Status != "healthy" {
		c.Set(middleware.ErrorCodeKey, dto.ErrCodeUnavailable)
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Farm Back Office API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping is a liveness probe that never touches the database
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
