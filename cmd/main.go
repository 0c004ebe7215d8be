package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/config"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/routes"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/services"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/utils"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	gin.SetMode(cfg.GinMode)

	deps, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to wire services", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes.SetupRouter(*deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}

func buildDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*routes.Deps, error) {
	metrics := services.NewMetrics("nutrition")
	units := services.NewUnitSystem()
	catalog := services.NewLocalFoodCatalog(units)

	cache, err := services.NewFoodCache(cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	client := services.ProviderClientConfig{
		Timeout:       cfg.ProviderTimeout,
		RatePerSecond: cfg.ProviderRatePerSec,
		Burst:         cfg.ProviderBurst,
		FailureRatio:  cfg.BreakerFailureRatio,
	}
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	usda := services.NewUSDAService(services.USDAConfig{
		BaseURL: cfg.USDABaseURL,
		APIKey:  cfg.USDAAPIKey,
		Client:  client,
	}, httpClient, metrics, logger)
	off := services.NewOpenFoodFactsService(services.OpenFoodFactsConfig{
		BaseURL: cfg.OpenFoodFactsBaseURL,
		Client:  client,
	}, httpClient, metrics, logger)

	aggregator, err := services.NewFoodDataAggregator(services.AggregatorConfig{
		SearchProviders:  []services.SearchProvider{usda, off},
		RecordProviders:  []services.RecordProvider{usda, off},
		BarcodeProviders: []services.BarcodeProvider{off},
		Catalog:          catalog,
		Cache:            cache,
		Metrics:          metrics,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	var labels services.LabelRecognizer
	if cfg.RecognitionEnabled {
		rek, err := services.NewRekognitionService(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		labels = rek
	}

	foods := services.NewFoodService(aggregator, services.NewNutritionCalculator(units), units, labels)
	return &routes.Deps{
		Units:   units,
		Catalog: catalog,
		Foods:   foods,
		Meals:   services.NewMealService(foods),
		Metrics: metrics,
		Logger:  logger,
	}, nil
}
