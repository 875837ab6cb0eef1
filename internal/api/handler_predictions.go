package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"parking-nav-backend/internal/model"
	"parking-nav-backend/internal/predict"
)

// Predict handles GET /api/parking/predictions. The estimate is a static
// heuristic; see the predict package.
func (h *Handler) Predict(c *gin.Context) {
	signID, err := strconv.ParseInt(c.Query("sign_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid sign_id"})
		return
	}

	target := time.Now()
	if atParam := c.Query("at"); atParam != "" {
		target, err = time.Parse(time.RFC3339, atParam)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp format. Use RFC3339."})
			return
		}
	}

	var sign model.Sign
	if err := h.store.DB().WithContext(c.Request.Context()).First(&sign, signID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "sign not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, predict.Availability(sign.ID, target))
}
