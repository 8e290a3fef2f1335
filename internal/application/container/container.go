// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/services"
	"github.com/AtRiskMedia/tractstack-studio/internal/domain/repositories"
	domainservices "github.com/AtRiskMedia/tractstack-studio/internal/domain/services"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/persistence/database"
	siterepo "github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/persistence/site"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/styling"
	"github.com/AtRiskMedia/tractstack-studio/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	StudioService *services.StudioService

	// Domain Services (stateless singletons)
	StyleResolver  *domainservices.StyleResolver
	SiteNormalizer *domainservices.SiteNormalizer

	// Infrastructure Dependencies
	Logger         *logging.ChanneledLogger
	DB             *database.DB
	SiteRepository repositories.SiteRepository
	Broadcaster    *messaging.EditorBroadcaster
	PerfTracker    *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger, db *database.DB, catalog *styling.Catalog) *Container {
	resolver := domainservices.NewStyleResolver(catalog)
	normalizer := domainservices.NewSiteNormalizer(resolver)
	repo := siterepo.NewSiteRepository(db.DB, logger)
	broadcaster := messaging.NewEditorBroadcaster(logger)

	studio := services.NewStudioService(repo, broadcaster, resolver, normalizer, logger, services.StudioOptions{
		StructureCapacity: config.HistoryStructureCapacity,
		DetailCapacity:    config.HistoryDetailCapacity,
	})

	return &Container{
		StudioService:  studio,
		StyleResolver:  resolver,
		SiteNormalizer: normalizer,
		Logger:         logger,
		DB:             db,
		SiteRepository: repo,
		Broadcaster:    broadcaster,
		PerfTracker: performance.NewTracker(&performance.TrackerConfig{
			MaxRecent:     100,
			SlowThreshold: config.SlowOperationThreshold,
		}),
	}
}

// LoadCatalog builds the style preset catalog from configuration.
func LoadCatalog() (*styling.Catalog, error) {
	catalog := styling.NewCatalog()
	if config.StylePresetsFile != "" {
		loaded, err := styling.LoadCatalog(config.StylePresetsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load style presets: %w", err)
		}
		catalog = loaded
	}
	if config.DefaultStyleID != "" {
		catalog = catalog.WithDefault(config.DefaultStyleID)
	}
	return catalog, nil
}

// NewLogger builds the channeled logger from configuration.
func NewLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	cfg.JSONFormat = config.LogJSON
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	return logging.NewChanneledLogger(cfg)
}

// Close releases the infrastructure held by the container.
func (c *Container) Close() error {
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
