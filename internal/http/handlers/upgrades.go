package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BuyUpgrade raises the upgrade in the path by one level.
func (h *Handler) BuyUpgrade(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	u, err := h.Games.BuyUpgrade(c.Request.Context(), playerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
