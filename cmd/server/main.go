package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlegrand/portfolio-backend/config"
	"github.com/mlegrand/portfolio-backend/internal/app/controller"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/app/service"
	"github.com/mlegrand/portfolio-backend/internal/db"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
	"github.com/mlegrand/portfolio-backend/internal/router"
	"github.com/mlegrand/portfolio-backend/internal/scheduler"
	"github.com/mlegrand/portfolio-backend/internal/storage"
	"github.com/mlegrand/portfolio-backend/internal/websocket"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"github.com/mlegrand/portfolio-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Portfolio Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis porte la liste noire des jetons. S'il est indisponible, la
	// déconnexion reste purement côté client.
	var tokenStore *redis.TokenStore
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		tokenStore = redis.NewTokenStore()
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Hub websocket du tableau de bord
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	serviceRepo := repository.NewServiceRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	contactRepo := repository.NewContactRepository(db.GetDB())

	// Initialize services
	var blacklist service.TokenBlacklist
	if tokenStore != nil {
		blacklist = tokenStore
	}
	authService := service.NewAuthService(
		userRepo,
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(categoryRepo, serviceRepo)
	cartService := service.NewCartService(cartRepo, serviceRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, cartRepo, serviceRepo, hub)
	contactService := service.NewContactService(contactRepo, hub)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	contactController := controller.NewContactController(contactService)
	uploadController := controller.NewUploadController(s3Storage)
	eventsController := controller.NewEventsController(hub)

	// Initialize middleware
	var checker middleware.TokenChecker
	if tokenStore != nil {
		checker = tokenStore
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, checker)

	// Nettoyage périodique (messages de contact, paniers supprimés)
	retentionScheduler := scheduler.NewRetentionScheduler(contactService, cartRepo, cfg.Retention)
	if err := retentionScheduler.Start(); err != nil {
		logger.Fatal("Failed to start retention scheduler", err)
	}
	defer retentionScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		catalogController,
		cartController,
		orderController,
		contactController,
		uploadController,
		eventsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
