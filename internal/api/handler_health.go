package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parking-nav-backend/internal/model"
)

// Health handles the GET /health request.
func (h *Handler) Health(c *gin.Context) {
	var total int64
	if err := h.store.DB().WithContext(c.Request.Context()).
		Model(&model.Sign{}).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"database":    "connected",
		"total_signs": total,
		"timestamp":   time.Now().UTC(),
	})
}
