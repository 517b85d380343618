package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clicker_webapp/internal/app"
	"clicker_webapp/internal/config"
	"clicker_webapp/internal/db"
	httpServer "clicker_webapp/internal/http"
	"clicker_webapp/internal/http/handlers"
	"clicker_webapp/internal/http/middleware"
	"clicker_webapp/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	dbPool := db.Connect(ctx, cfg.DatabaseURL)
	defer dbPool.Close()

	ladder, err := app.Migrate(ctx, dbPool)
	if err != nil {
		logger.Fatal("startup migration failed", "error", err)
	}

	svc, err := app.NewServices(cfg, dbPool, ladder)
	if err != nil {
		logger.Fatal("failed to build services", "error", err)
	}
	if n, err := svc.SeedTasks(ctx); err != nil {
		logger.Fatal("task seeding failed", "error", err)
	} else {
		logger.Info("task catalog loaded", "tasks", n, "ranks", len(ladder))
	}

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler:          handlers.NewHandler(svc.Economy, svc.Accounts, svc.Tasks),
		Referrals:        svc.Referrals,
		Health:           handlers.NewHealthHandler(dbPool, middleware.RedisPing, cfg.AppVersion),
		Tokens:           svc.Tokens,
		APIRateLimit:     cfg.APIRateLimit,
		APIRateWindow:    cfg.APIRateWindow,
		ActionRateLimit:  cfg.ActionRateLimit,
		ActionRateWindow: cfg.ActionRateWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
