// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/restockd/restockd/internal/api"
	"github.com/restockd/restockd/internal/cache"
	"github.com/restockd/restockd/internal/config"
	"github.com/restockd/restockd/internal/marketplace"
	"github.com/restockd/restockd/internal/repository/postgres"
	"github.com/restockd/restockd/internal/service"
	"github.com/restockd/restockd/internal/storage"
	"github.com/restockd/restockd/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	orders := postgres.NewOrderItemRepository(db)
	inventory := postgres.NewInventoryRepository(db)
	reports := postgres.NewReportRepository(db)

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}

	var archive storage.ReportArchive = storage.NoopArchive{}
	if cfg.App.ArchiveEndpoint != "" {
		minioArchive, err := storage.NewMinioArchive(cfg.App)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Report archive unavailable, continuing without it")
		} else {
			archive = minioArchive
		}
	}

	reportService := service.NewReportService(orders, inventory, reports, reportCache, archive, cfg.Forecast)

	var syncService *service.SyncService
	if cfg.Marketplace.ClientID != "" {
		client, err := marketplace.NewClient(cfg.Marketplace)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to build marketplace client")
		}
		itemsCSV := storage.NewOrderItemStore(filepath.Join(cfg.App.DataDir, cfg.App.OrderItemsCSV))
		levelsCSV := storage.NewInventoryLevelStore(filepath.Join(cfg.App.DataDir, cfg.App.InventoryLevelsCSV))
		syncService = service.NewSyncService(client, orders, inventory, itemsCSV, levelsCSV)
	} else {
		logger.Log.Info().Msg("Marketplace credentials not set, sync endpoint disabled")
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ReportService: reportService,
		SyncService:   syncService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
