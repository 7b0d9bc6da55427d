package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fundalabs/dashboard-api/internal/config"
	"github.com/fundalabs/dashboard-api/internal/database"
	"github.com/fundalabs/dashboard-api/internal/handler"
	"github.com/fundalabs/dashboard-api/internal/middleware"
	"github.com/fundalabs/dashboard-api/internal/router"
	"github.com/fundalabs/dashboard-api/internal/service"
	"github.com/fundalabs/dashboard-api/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Redis only backs the snapshot cache; the service degrades to
	// uncached snapshots when no URL is configured.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, snapshot caching disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	dashboardService := service.NewDashboardService(upstreamClient, redisClient, cfg.SnapshotCacheTTL, cfg.IdentityTimeout, logger)
	defer dashboardService.Shutdown()

	dashboardHandler := handler.NewDashboardHandler(dashboardService, validate, logger)
	streamHandler := handler.NewStreamHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	authMiddleware := middleware.JWTProtected(cfg.JWTSecret)
	if cfg.IsDevelopment() {
		authMiddleware = middleware.DevIdentity()
	}

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		DashboardHandler: dashboardHandler,
		StreamHandler:    streamHandler,
		AuthMiddleware:   authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
