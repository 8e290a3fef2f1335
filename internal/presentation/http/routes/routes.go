// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/tractstack-studio/internal/application/container"
	"github.com/AtRiskMedia/tractstack-studio/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/tractstack-studio/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/tractstack-studio/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(container.Logger))
	r.Use(middleware.CORSMiddleware(config.CORSOrigins))

	studioHandlers := handlers.NewStudioHandlers(container.StudioService, container.Broadcaster, container.Logger, container.PerfTracker, handlers.FeedOptions{
		AllowedOrigins: config.CORSOrigins,
		PingInterval:   config.WSPingInterval,
		WriteTimeout:   config.WSWriteTimeout,
	})

	r.GET("/health", studioHandlers.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/presets", studioHandlers.GetPresets)
		api.GET("/metrics", studioHandlers.GetMetrics)

		sites := api.Group("/sites/:siteId")
		sites.Use(middleware.SiteMiddleware())
		{
			// Document lifecycle
			sites.GET("", studioHandlers.GetState)
			sites.POST("/import", studioHandlers.ImportSite)
			sites.POST("/save", studioHandlers.SaveSite)
			sites.GET("/versions", studioHandlers.GetVersions)
			sites.POST("/versions/:version/load", studioHandlers.LoadVersion)
			sites.PUT("/selection", studioHandlers.Select)
			sites.GET("/ws", studioHandlers.ChangeFeed)

			// Pages
			sites.POST("/pages", studioHandlers.AddPage)
			sites.DELETE("/pages/:pageId", studioHandlers.RemovePage)
			sites.PUT("/pages/:pageId/name", studioHandlers.RenamePage)
			sites.PUT("/pages/:pageId/route", studioHandlers.UpdatePageRoute)
			sites.PUT("/entry-point", studioHandlers.SetEntryPoint)
			sites.PUT("/page-order", studioHandlers.ReorderPages)

			// Modules
			sites.POST("/pages/:pageId/modules", studioHandlers.AddModule)
			sites.DELETE("/pages/:pageId/modules/:moduleId", studioHandlers.RemoveModule)
			sites.POST("/pages/:pageId/modules/:moduleId/duplicate", studioHandlers.DuplicateModule)
			sites.POST("/pages/:pageId/modules/:moduleId/move", studioHandlers.MoveModule)
			sites.PUT("/pages/:pageId/module-order", studioHandlers.ReorderModules)
			sites.PATCH("/pages/:pageId/modules/:moduleId/content", studioHandlers.UpdateModuleContent)
			sites.PUT("/pages/:pageId/modules/:moduleId/properties/:key", studioHandlers.UpdateModuleProperty)
			sites.PATCH("/modules/content", studioHandlers.BatchUpdateModuleContents)
			sites.PUT("/modules/:moduleId/height", studioHandlers.SetModuleHeight)

			// Collections
			collections := sites.Group("/pages/:pageId/modules/:moduleId/collections/:key")
			{
				collections.POST("", studioHandlers.AddCollectionItem)
				collections.POST("/reorder", studioHandlers.ReorderCollectionItem)
				collections.PATCH("/:index", studioHandlers.UpdateCollectionItem)
				collections.DELETE("/:index", studioHandlers.RemoveCollectionItem)
			}

			// Style and navigation
			sites.PUT("/style", studioHandlers.SetStyle)
			sites.PATCH("/style/overrides", studioHandlers.UpdateStyleOverrides)
			sites.PATCH("/navigation", studioHandlers.UpdateNavigation)

			// History
			sites.POST("/undo/:mode", studioHandlers.Undo)
			sites.POST("/redo/:mode", studioHandlers.Redo)
			sites.GET("/history/:mode", studioHandlers.GetHistory)

			// Assisted-edit transactions
			sites.POST("/transactions", studioHandlers.StartTransaction)
			sites.POST("/transactions/changes", studioHandlers.RegisterChange)
			sites.POST("/transactions/commit", studioHandlers.CommitTransaction)
			sites.POST("/transactions/cancel", studioHandlers.CancelTransaction)
		}
	}

	return r
}
