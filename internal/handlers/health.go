package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/models"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	sessions Pinger
	logger   *slog.Logger
}

func NewHealthHandler(sessions Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{sessions: sessions, logger: logger}
}

// Check godoc
// @Summary     Health check
// @Description Reports ok while the session store answers
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Failure     503 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.sessions.Ping(ctx); err != nil {
		h.logger.Warn("session store unreachable", "error", err)
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
