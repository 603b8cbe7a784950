package http

import (
	"time"

	"cryptofarm/internal/config"
	"cryptofarm/internal/http/handlers"
	"cryptofarm/internal/http/middleware"
	"cryptofarm/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateLimits are the request budgets per window.
type RateLimits struct {
	API          int
	APIWindow    time.Duration
	Auth         int
	AuthWindow   time.Duration
	Action       int
	ActionWindow time.Duration
}

// LimitsFromConfig copies the rate limit settings.
func LimitsFromConfig(cfg *config.Config) RateLimits {
	return RateLimits{
		API:          cfg.APIRateLimit,
		APIWindow:    cfg.APIRateWindow,
		Auth:         cfg.AuthRateLimit,
		AuthWindow:   cfg.AuthRateWindow,
		Action:       cfg.ActionRateLimit,
		ActionWindow: cfg.ActionRateWindow,
	}
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, hub *ws.Hub, limits RateLimits) {
	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(limits.API, limits.APIWindow))
	registerAPIRoutes(v1, h, limits)

	// Push channel for frames and toasts
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, limits RateLimits) {
	// Auth
	api.POST("/auth/guest", middleware.RedisRateLimit(limits.Auth, limits.AuthWindow), h.Guest)
	api.POST("/auth/refresh", middleware.JWT(), h.Refresh)

	// Static catalog
	api.GET("/catalog", h.GetCatalog)

	game := api.Group("")
	game.Use(middleware.JWT())

	// Per-player budget for state-changing calls
	act := middleware.ActionRateLimit(limits.Action, limits.ActionWindow)

	// State
	game.GET("/state", h.State)
	game.DELETE("/state", act, h.Reset)
	game.GET("/prices", h.Prices)

	// Computers
	game.POST("/computers", act, h.BuyComputer)
	game.POST("/computers/collect-all", act, h.CollectAll)
	game.DELETE("/computers/:id", act, h.RemoveComputer)
	game.POST("/computers/:id/collect", act, h.Collect)
	game.PATCH("/computers/:id/position", act, h.MoveComputer)

	// Workers
	game.POST("/workers", act, h.HireWorker)
	game.DELETE("/workers/:id", act, h.FireWorker)

	// Upgrades
	game.POST("/upgrades/:id", act, h.BuyUpgrade)

	// Market
	game.POST("/tokens/:id/activate", act, h.ActivateToken)
	game.POST("/tokens/:id/upgrade", act, h.UpgradeToken)

	// Rebirth
	game.GET("/rebirth", h.RebirthStatus)
	game.POST("/rebirth", act, h.Rebirth)

	// Minigames
	game.POST("/minigames/:id/result", act, h.MinigameResult)

	// Audit trail
	game.GET("/audit", h.AuditLog)
}
