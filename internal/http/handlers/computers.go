package handlers

import (
	"net/http"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"

	"github.com/gin-gonic/gin"
)

type BuyComputerRequest struct {
	TypeID string `json:"type_id" binding:"required"`
}

// MoveComputerRequest accepts either a grid cell or a renderer position.
type MoveComputerRequest struct {
	Cell     *domain.Cell `json:"cell"`
	Position *[3]float64  `json:"position"`
}

func (h *Handler) BuyComputer(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	var req BuyComputerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	pc, err := h.Games.BuyComputer(c.Request.Context(), playerID, req.TypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pc)
}

func (h *Handler) RemoveComputer(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	collected, err := h.Games.RemoveComputer(c.Request.Context(), playerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "collected": collected})
}

func (h *Handler) MoveComputer(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	var req MoveComputerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	var cell domain.Cell
	switch {
	case req.Cell != nil:
		cell = *req.Cell
	case req.Position != nil:
		cell = game.CellAt(*req.Position)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "cell or position required"})
		return
	}
	if err := h.Games.MoveComputer(c.Request.Context(), playerID, c.Param("id"), cell); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "cell": cell, "position": game.Position(cell)})
}

func (h *Handler) Collect(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	amount, err := h.Games.Collect(c.Request.Context(), playerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collected": amount})
}

func (h *Handler) CollectAll(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	amount, err := h.Games.CollectAll(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collected": amount})
}
