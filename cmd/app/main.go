package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"truco_server/internal/config"
	"truco_server/internal/db"
	httpServer "truco_server/internal/http"
	"truco_server/internal/http/handlers"
	"truco_server/internal/http/middleware"
	"truco_server/internal/logger"
	"truco_server/internal/repository"
	"truco_server/internal/service"
	"truco_server/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()

	// Инициализация структурированного логгера
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, os.Getenv("LOG_FORMAT"))
	log := logger.Get()

	service.InitJWT(cfg.JWTSecret)

	// История матчей опциональна: без DATABASE_URL сервер работает
	// чисто в памяти
	var matchRepo *repository.MatchRepository
	if cfg.DatabaseURL != "" {
		dbPool := db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()

		matchRepo = repository.NewMatchRepository(dbPool)
		if err := matchRepo.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("failed to ensure schema", "error", err)
		}
		log.Info("match history enabled")
	} else {
		log.Warn("DATABASE_URL not set - match history disabled")
	}

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
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

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hub := ws.NewHub(matchRepo, cfg.TargetScore, cfg.TrickDelay, cfg.HandDelay)
	h := handlers.NewHandler(hub, matchRepo, Version)
	httpServer.RegisterRoutes(r, h, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
