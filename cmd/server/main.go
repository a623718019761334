package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaduna-connect/directory-backend/config"
	"github.com/kaduna-connect/directory-backend/internal/app/controller"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	"github.com/kaduna-connect/directory-backend/internal/db"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
	"github.com/kaduna-connect/directory-backend/internal/router"
	"github.com/kaduna-connect/directory-backend/internal/scheduler"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"github.com/kaduna-connect/directory-backend/pkg/rabbitmq"
	"github.com/kaduna-connect/directory-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Kaduna business directory server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the directory cache and the session blacklist; without it
	// both degrade to no-ops.
	cache := redis.NewNoopCache()
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redis.NewCache(redis.GetClient(), "kaduna")
			defer redis.Close()
		}
	}

	var publisher rabbitmq.Publisher = rabbitmq.FallbackPublisher{}
	if cfg.RabbitMQ.URL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, registration events will only be logged", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			publisher = producer
		}
	}
	defer publisher.Close()

	database := db.GetDB()

	businessRepo := repository.NewBusinessRepository(database)
	registrationRepo := repository.NewRegistrationRepository(database)
	searchLogRepo := repository.NewSearchLogRepository(database)
	analyticsRepo := repository.NewAnalyticsRepository(database)

	searchLogger := service.NewSearchLogger(searchLogRepo, 0)
	directoryService := service.NewDirectoryService(businessRepo, searchLogger, cache, service.PageLimits{
		DefaultLimit: cfg.Directory.DefaultPageSize,
		MaxLimit:     cfg.Directory.MaxPageSize,
	})
	businessService := service.NewBusinessAdminService(businessRepo, cache)
	registrationService := service.NewRegistrationService(database, registrationRepo, cache, publisher)
	analyticsService := service.NewAnalyticsService(analyticsRepo, registrationRepo)
	authService, err := service.NewAuthService(cfg.Admin, redis.TokenBlacklist{})
	if err != nil {
		logger.Fatal("Failed to configure admin authentication", err)
	}

	statsScheduler := scheduler.NewStatsScheduler(directoryService, cfg.Scheduler.StatsRefreshSpec)
	if err := statsScheduler.Start(); err != nil {
		logger.Fatal("Failed to start stats scheduler", err)
	}

	r := router.NewRouter(
		controller.NewDirectoryController(directoryService),
		controller.NewRegistrationController(registrationService),
		controller.NewBusinessController(businessService),
		controller.NewAnalyticsController(analyticsService),
		controller.NewAuthController(authService, cfg.Admin),
		controller.NewSitemapController(directoryService, cfg.Site.BaseURL),
		middleware.AdminSessionGuard(authService, cfg.Admin.CookieName, cfg.Admin.LoginURL),
		cfg,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	statsScheduler.Stop()
	searchLogger.Flush()
	registrationService.Flush()

	logger.Info("Server stopped successfully")
}
