package handlers

import (
	"cryptofarm/internal/ws"

	"github.com/gin-gonic/gin"
)

// WS serves the push channel (?token=<jwt>).
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return ws.HandleWS(hub, h.Games, h.AllowedOrigin)
}
