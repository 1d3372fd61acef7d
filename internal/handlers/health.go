package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store SpecStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store SpecStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now(),
		"service":     "mcphub",
		"specs_count": len(h.store.List()),
	})
}
