package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pointledger/internal/domain/repository"
)

// HealthHandler reports storage reachability.
type HealthHandler struct {
	pinger repository.Pinger
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(pinger repository.Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
