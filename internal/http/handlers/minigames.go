package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MinigameResultRequest struct {
	Success bool `json:"success"`
}

// MinigameResult reports a finished minigame. The client plays the game;
// the server only grants the fixed reward for the id.
func (h *Handler) MinigameResult(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	var req MinigameResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	reward, err := h.Games.MinigameResult(c.Request.Context(), playerID, c.Param("id"), req.Success)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": req.Success, "reward": reward})
}
