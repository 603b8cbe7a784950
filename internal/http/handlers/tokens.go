package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ActivateToken(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	switched, err := h.Games.SwitchToken(c.Request.Context(), playerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "switched": switched, "active_token": c.Param("id")})
}

func (h *Handler) UpgradeToken(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	t, err := h.Games.UpgradeTokenValue(c.Request.Context(), playerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
