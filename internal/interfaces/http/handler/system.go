package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shipdocs/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger checks that a backend answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the health endpoint
type SystemHandler struct {
	store     Pinger
	startTime time.Time
	timeout   time.Duration
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(store Pinger) *SystemHandler {
	return &SystemHandler{
		store:     store,
		startTime: time.Now(),
		timeout:   3 * time.Second,
	}
}

// Health reports whether the record store answers
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	now := time.Now().Format(time.RFC3339)
	uptime := time.Since(h.startTime).Round(time.Second).String()

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     now,
				"uptime":   uptime,
				"database": "error",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"time":     now,
		"uptime":   uptime,
		"database": "ok",
	})
}
