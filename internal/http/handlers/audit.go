package handlers

import (
	"net/http"
	"strconv"

	"cryptofarm/internal/domain"

	"github.com/gin-gonic/gin"
)

// AuditLog lists the player's recorded actions. Query: category, limit.
func (h *Handler) AuditLog(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	category := c.Query("category")
	if category != "" && !domain.ValidAuditCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	entries, err := h.Games.History(c.Request.Context(), playerID, category, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
