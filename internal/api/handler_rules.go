package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-nav-backend/internal/rules"
)

// ParseRule handles GET /api/parking/rules/parse, exposing the sign parser
// for inspection and debugging.
func (h *Handler) ParseRule(c *gin.Context) {
	text, ok := c.GetQuery("rule_text")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "rule_text is required"})
		return
	}

	c.JSON(http.StatusOK, rules.Parse(text))
}
