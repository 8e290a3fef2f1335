// Package startup prepares the application server
package startup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/container"
	tabledb "github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/database"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-studio/internal/presentation/http/server"
	"github.com/AtRiskMedia/tractstack-studio/pkg/config"
	"github.com/gin-gonic/gin"
)

// Build wires the container from configuration without starting anything.
func Build(ctx context.Context, logger *logging.ChanneledLogger) (*container.Container, error) {
	// Step 1: Open the database
	phaseStart := time.Now()
	db, err := database.NewConnectionWithLogger(ctx, config.DBDriver, config.DBDSN, database.Options{
		MaxOpenConns: config.DBMaxOpenConns,
		MaxIdleConns: config.DBMaxIdleConns,
	}, logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(phaseStart), false, nil)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Step 2: Ensure the schema
	creator := tabledb.NewTableCreator()
	if err := creator.CreateSchema(db.DB); err != nil {
		db.Close()
		logger.LogStartupPhase("database", time.Since(phaseStart), false, nil)
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	logger.LogStartupPhase("database", time.Since(phaseStart), true, map[string]any{"driver": db.Driver})

	// Step 3: Load style presets
	phaseStart = time.Now()
	catalog, err := container.LoadCatalog()
	if err != nil {
		db.Close()
		logger.LogStartupPhase("styles", time.Since(phaseStart), false, nil)
		return nil, err
	}
	logger.LogStartupPhase("styles", time.Since(phaseStart), true, map[string]any{
		"presets":   len(catalog.IDs()),
		"defaultId": catalog.DefaultID(),
	})

	// Step 4: Create dependency injection container
	appContainer := container.NewContainer(logger, db, catalog)

	// Step 5: Seed the configured site
	if config.SeedSiteID != "" && config.SeedSiteFile != "" {
		phaseStart = time.Now()
		seeded, err := seedSite(appContainer, creator)
		if err != nil {
			appContainer.Close()
			logger.LogStartupPhase("seed", time.Since(phaseStart), false, nil)
			return nil, err
		}
		logger.LogStartupPhase("seed", time.Since(phaseStart), true, map[string]any{
			"siteId": config.SeedSiteID,
			"seeded": seeded,
		})
	}

	return appContainer, nil
}

// seedSite normalizes the seed file and stores it as version 1 when the site
// has never been saved.
func seedSite(c *container.Container, creator *tabledb.TableCreator) (bool, error) {
	data, err := os.ReadFile(config.SeedSiteFile)
	if err != nil {
		return false, fmt.Errorf("failed to read seed site %s: %w", config.SeedSiteFile, err)
	}
	s, err := c.SiteNormalizer.NormalizeJSON(data)
	if err != nil {
		return false, fmt.Errorf("failed to parse seed site %s: %w", config.SeedSiteFile, err)
	}
	payload, err := json.Marshal(s.Raw())
	if err != nil {
		return false, fmt.Errorf("failed to encode seed site: %w", err)
	}
	return creator.SeedInitialContent(c.DB.DB, config.SeedSiteID, s.HomePageID(), payload)
}

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("Initializing TractStack Studio...")
	logger, err := container.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized", "level", config.LogLevel)

	appContainer, err := Build(ctx, logger)
	if err != nil {
		return err
	}

	// Start the change feed hub
	go appContainer.Broadcaster.Run(ctx)
	logger.Startup().Info("Change feed broadcaster started")

	// Start HTTP server
	startServerTime := time.Now()
	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port, "duration", time.Since(startServerTime))

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal or a server failure
	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if open := appContainer.StudioService.OpenSites(); len(open) > 0 {
		logger.Shutdown().Warn("Closing open sites", "siteIds", open)
	}
	if err := appContainer.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
