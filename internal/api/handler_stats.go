package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parking-nav-backend/internal/store"
)

type statsResponse struct {
	store.Stats
	LastUpdated time.Time `json:"last_updated"`
}

// Stats handles the GET /api/stats request.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, statsResponse{
		Stats:       stats,
		LastUpdated: time.Now().UTC(),
	})
}
