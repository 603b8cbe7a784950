package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/config"
	"cryptofarm/internal/db"
	"cryptofarm/internal/game"
	httpServer "cryptofarm/internal/http"
	"cryptofarm/internal/http/handlers"
	"cryptofarm/internal/http/middleware"
	"cryptofarm/internal/logger"
	"cryptofarm/internal/migrations"
	"cryptofarm/internal/repository"
	"cryptofarm/internal/service"
	"cryptofarm/internal/ws"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// saveBackend is a save store that can name itself for health checks.
type saveBackend interface {
	service.SaveStore
	Name() string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load catalog", "error", err)
	}
	logger.Info("catalog loaded", "version", cat.Version(), "computers", len(cat.Computers()), "tokens", len(cat.Tokens()))

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer redisClient.Close()
	}
	middleware.InitRedisRateLimiter(redisClient)

	var (
		store saveBackend
		audit *service.AuditService
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			logger.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()
		if err := migrations.Apply(ctx, pool); err != nil {
			logger.Fatal("failed to apply migrations", "error", err)
		}
		store = repository.NewSaveRepository(pool)
		audit = service.NewAuditService(repository.NewAuditRepository(pool))
	case config.StorageRedis:
		store = repository.NewRedisSaveRepository(redisClient, cfg.SaveKeyPrefix)
	default:
		logger.Warn("using in-memory save store, progress is lost on restart")
		store = repository.NewMemorySaveRepository()
	}
	logger.Info("save store ready", "backend", store.Name())

	hub := ws.NewHub()
	sessions := service.NewSessionManager(cat, service.ManagerConfig{
		Game: game.Config{StartingCash: cfg.StartingCash, RebirthCash: cfg.RebirthCash},
		Intervals: service.Intervals{
			Accrual:    cfg.AccrualInterval,
			Market:     cfg.MarketInterval,
			BoostPrune: cfg.BoostPruneInterval,
		},
		IdleTimeout: cfg.SessionIdleTimeout,
	}, nil, store, hub, audit)
	games := service.NewGameService(sessions, audit)

	scheduler, err := service.NewScheduler(sessions, cfg.SaveSchedule, cfg.EvictSchedule)
	if err != nil {
		logger.Fatal("invalid schedule", "error", err)
	}
	scheduler.Start()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	h := handlers.NewHandler(games, sessions, cat, cfg.AllowedOrigin)
	health := handlers.NewHealthHandler(store, store.Name(), sessions, hub, cfg.AppVersion)
	httpServer.RegisterRoutes(r, h, health, hub, httpServer.LimitsFromConfig(cfg))

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	scheduler.Stop()
	if err := sessions.Close(shutdownCtx); err != nil {
		logger.Error("final save failed", "error", err)
	}

	logger.Info("server exited")
}
