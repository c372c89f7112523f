package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// healthTimeout bounds the database ping of the health check
const healthTimeout = 2 * time.Second

// Pinger checks that the database answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the health check
type SystemHandler struct {
	db      Pinger
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version}
}

// Health reports the service status with a database ping
func (h *SystemHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Version:  h.version,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check database ping failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
