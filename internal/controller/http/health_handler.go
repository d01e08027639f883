package http

import (
	"context"
	"net/http"
	"time"

	"fanhouse/pkg/logger"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	ping   func(ctx context.Context) error
	logger *logger.Logger
}

func NewHealthHandler(ping func(ctx context.Context) error, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		ping:   ping,
		logger: logger,
	}
}

// Health godoc
// @Summary      Health check
// @Description  Reports whether the database is reachable
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Error("Health check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "database": "disconnected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}
