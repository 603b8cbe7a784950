package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) State(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	state, err := h.Games.State(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Reset wipes the player's progress and starts a new game.
func (h *Handler) Reset(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	if _, err := h.Sessions.Reset(c.Request.Context(), playerID); err != nil {
		respondError(c, err)
		return
	}
	state, err := h.Games.State(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) Prices(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	prices, err := h.Games.Prices(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// GetCatalog returns the static item definitions.
func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":   h.Catalog.Version(),
		"computers": h.Catalog.Computers(),
		"workers":   h.Catalog.Workers(),
		"tokens":    h.Catalog.Tokens(),
		"upgrades":  h.Catalog.Upgrades(),
	})
}
