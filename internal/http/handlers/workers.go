package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HireWorkerRequest struct {
	TypeID string `json:"type_id" binding:"required"`
}

func (h *Handler) HireWorker(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	var req HireWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	w, err := h.Games.HireWorker(c.Request.Context(), playerID, req.TypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) FireWorker(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	if err := h.Games.FireWorker(c.Request.Context(), playerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
