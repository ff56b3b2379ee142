package http

import (
	"github.com/gin-gonic/gin"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	catalog := NewCatalogController(cfg.Catalog, cfg.Sessions, cfg.Enqueuer, cfg.Auditor, cfg.Archiver, cfg.MaxUploadBytes)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Catalog endpoints
	api.GET("/categories", catalog.ListCategories)
	api.POST("/categories/import", catalog.Import(entities.ImportKindCategories))
	api.GET("/categories/export", catalog.Export(entities.ImportKindCategories))
	api.GET("/categories/template", catalog.Template(entities.ImportKindCategories))

	api.GET("/menu-items", catalog.ListMenuItems)
	api.POST("/menu-items/import", catalog.Import(entities.ImportKindMenuItems))
	api.GET("/menu-items/export", catalog.Export(entities.ImportKindMenuItems))
	api.GET("/menu-items/template", catalog.Template(entities.ImportKindMenuItems))

	// Async import status
	if cfg.Sessions != nil {
		importsController := NewImportsController(cfg.Sessions)
		api.GET("/imports/:id", importsController.GetStatus)
	}

	// Audit log
	if cfg.AuditEvents != nil {
		auditController := NewAuditController(cfg.AuditEvents)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.AuditRetentionDays, cfg.ImportRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/cleanup", tasksController.RunCleanup)
	}

	return router
}
