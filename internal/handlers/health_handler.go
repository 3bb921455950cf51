package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// ReadinessChecker reports whether a dependency answers
type ReadinessChecker interface {
	Ready(ctx context.Context) error
	SourceName() string
}

type HealthHandler struct {
	content ReadinessChecker
}

func NewHealthHandler(content ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		content: content,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.content.Ready(ctx); err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"reason":  "content source not reachable",
			"content": h.content.SourceName(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"content": h.content.SourceName(),
	})
}
