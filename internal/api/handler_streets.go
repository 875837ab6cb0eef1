package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Streets handles GET /api/parking/streets, the autocomplete source.
func (h *Handler) Streets(c *gin.Context) {
	borough := strings.ToUpper(c.Query("borough"))

	streets, err := h.store.Streets(c.Request.Context(), borough)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve streets"})
		return
	}

	c.JSON(http.StatusOK, streets)
}
