package handlers

import (
	"context"
	"errors"
	"net/http"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/game"
	"cryptofarm/internal/http/middleware"
	"cryptofarm/internal/logger"
	"cryptofarm/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Games         *service.GameService
	Sessions      *service.SessionManager
	Catalog       *catalog.Catalog
	AllowedOrigin string
}

func NewHandler(games *service.GameService, sessions *service.SessionManager, cat *catalog.Catalog, allowedOrigin string) *Handler {
	return &Handler{
		Games:         games,
		Sessions:      sessions,
		Catalog:       cat,
		AllowedOrigin: allowedOrigin,
	}
}

// getPlayerID извлекает player_id из контекста Gin
func getPlayerID(c *gin.Context) (string, bool) {
	return middleware.PlayerID(c)
}

// ErrorResponse is the body of every failed request. Title and Message
// are the same text the player sees as a toast.
type ErrorResponse struct {
	Error   string `json:"error"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownItem), errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientWorkers),
		errors.Is(err, game.ErrGridFull),
		errors.Is(err, game.ErrMaxLevelReached),
		errors.Is(err, game.ErrLocked),
		errors.Is(err, game.ErrRequirementsNotMet):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidPosition):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "route", c.FullPath(), "error", err)
		c.JSON(status, ErrorResponse{Error: "internal error"})
		return
	}
	n := service.NotificationFor(err)
	body := ErrorResponse{Error: err.Error(), Title: n.Title, Message: n.Message}

	var req *game.RequirementsError
	if errors.As(err, &req) {
		c.JSON(status, gin.H{"error": body.Error, "title": body.Title, "message": body.Message, "unmet": req.Unmet})
		return
	}
	c.JSON(status, body)
}

// requirePlayer answers 401 when the request carries no player.
func requirePlayer(c *gin.Context) (string, bool) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return playerID, ok
}
