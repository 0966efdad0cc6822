package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/multistore/backend/internal/interfaces/http/dto"
)

// SystemHandler serves health and liveness endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
	pinger    DBPinger
}

// DBPinger reports database connectivity for the health endpoint.
type DBPinger interface {
	Ping() error
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string, pinger DBPinger) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		version:   version,
		pinger:    pinger,
	}
}

// HealthResponse reports service and dependency status
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
}

// Health reports liveness plus database connectivity. Returns 503 when the
// database is unreachable so load balancers stop routing here.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "ok",
	}

	if h.pinger != nil {
		if err := h.pinger.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Ping is a trivial liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}))
}
