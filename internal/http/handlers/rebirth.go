package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RebirthStatus(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	st, err := h.Games.RebirthStatus(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Rebirth returns 409 with the unmet requirements when not ready.
func (h *Handler) Rebirth(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	st, err := h.Games.Rebirth(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
