package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency. *sql.DB and the redis client adapter satisfy it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves liveness and readiness
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]Pinger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health reports that the process is serving
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// Ready pings every dependency with a short deadline
// @Router /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	ok := true
	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			status[name] = err.Error()
			ok = false
			continue
		}
		status[name] = "ok"
	}
	if !ok {
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: status,
			Error: &dto.ErrorInfo{Code: "NOT_READY", Message: "A dependency is unavailable"}})
		return
	}
	h.Success(c, status)
}
