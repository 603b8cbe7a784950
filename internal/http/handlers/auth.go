package handlers

import (
	"net/http"

	"cryptofarm/internal/logger"
	"cryptofarm/internal/service"

	"github.com/gin-gonic/gin"
)

// Guest creates a new player and returns a token for it.
func (h *Handler) Guest(c *gin.Context) {
	sess, err := h.Sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := service.GenerateJWT(sess.PlayerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	logger.Info("guest player created", "player_id", sess.PlayerID)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"player_id": sess.PlayerID,
	})
}

// Refresh issues a fresh token for the authenticated player.
func (h *Handler) Refresh(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	token, err := service.GenerateJWT(playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "player_id": playerID})
}
