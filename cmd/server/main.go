package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/macrohero/backend/config"
	httpDelivery "github.com/macrohero/backend/internal/delivery/http"
	"github.com/macrohero/backend/internal/infrastructure/cache"
	"github.com/macrohero/backend/internal/infrastructure/mealapi"
	"github.com/macrohero/backend/internal/logging"
	"github.com/macrohero/backend/internal/metrics"
	"github.com/macrohero/backend/internal/scheduler"
	"github.com/macrohero/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("Starting MacroHero Backend v1.0.0")

	// Initialize infrastructure dependencies
	mealClient := mealapi.NewClient(mealapi.ClientConfig{
		APIKey:            cfg.MealAPI.APIKey,
		BaseURL:           cfg.MealAPI.BaseURL,
		Timeout:           cfg.MealAPI.Timeout,
		RequestsPerSecond: cfg.MealAPI.RequestsPerSecond,
		Burst:             cfg.MealAPI.Burst,
		MaxRetries:        cfg.MealAPI.MaxRetries,
	}, logger)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		mealClient.SetDebug(true)
		logger.Debug("meal API client debug mode enabled")
	}

	if cfg.MealAPI.APIKey == "" {
		logger.WithField("base_url", cfg.MealAPI.BaseURL).Warn("meal API key not configured")
	}

	requests, err := usecase.BuildPlanRequests(usecase.PlanDefaults{
		Calories:          cfg.Plan.Calories,
		Carbs:             cfg.Plan.Carbs,
		Protein:           cfg.Plan.Protein,
		Fat:               cfg.Plan.Fat,
		Random:            cfg.Plan.Random,
		PriorityPrimary:   cfg.Plan.PriorityPrimary,
		PrioritySecondary: cfg.Plan.PrioritySecondary,
	})
	if err != nil {
		logger.WithError(err).Fatal("invalid plan defaults")
	}

	sessionCache := cache.NewMemoryCache[*usecase.PlanSession]()
	if err := metrics.RegisterSessionGauge(sessionCache.Size); err != nil {
		logger.WithError(err).Warn("session gauge not registered")
	}

	// Initialize usecase layer
	sessions := usecase.NewSessionService(
		sessionCache,
		metrics.InstrumentGateway(mealClient),
		requests,
		logger,
		usecase.SessionServiceConfig{
			SessionTTL:     cfg.Session.TTL,
			RequestTimeout: cfg.Plan.RequestTimeout,
			LoadingHook:    metrics.ObserveLoading,
		},
	)

	sweeper := scheduler.NewSweeper(sessionCache, logger)
	if err := sweeper.Register(cfg.Session.CleanupSchedule); err != nil {
		logger.WithError(err).Fatal("failed to schedule session cleanup")
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(sessions, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithField("addr", srv.Addr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
}
