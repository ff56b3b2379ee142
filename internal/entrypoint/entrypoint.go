package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/config"
	"github.com/brewhouse/cafe-admin/internal/database"
	auditrepo "github.com/brewhouse/cafe-admin/internal/database/audit"
	"github.com/brewhouse/cafe-admin/internal/database/imports"
	"github.com/brewhouse/cafe-admin/internal/exporters"
	http_controllers "github.com/brewhouse/cafe-admin/internal/http"
	"github.com/brewhouse/cafe-admin/internal/importers"
	"github.com/brewhouse/cafe-admin/internal/scheduler"
	"github.com/brewhouse/cafe-admin/internal/services"
	"github.com/brewhouse/cafe-admin/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// checkWritableDir creates dir if needed and verifies files can be written to it.
func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	marker := filepath.Join(dir, ".cafe-admin")
	f, err := os.Create(marker)
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	f.Close()
	return os.Remove(marker)
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		zap.L().Info("Starting server", zap.String("addr", srv.Addr))
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("listen", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutdown Server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the background workers go away
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Server Shutdown", zap.Error(err))
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	zap.L().Info("Server exiting")
}

func Run(cfg *config.Config, version string) {
	zap.L().Info("Starting cafe-admin", zap.String("version", version))

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zap.L().Error("Error closing database", zap.Error(err))
		}
	}()

	store := database.NewCatalogStore(db.DB)
	catalog := services.NewCatalogService(store, importers.Options{
		Concurrency:      cfg.Import.Concurrency,
		TrackBatchWrites: cfg.Import.TrackBatchWrites,
	})
	sessions := imports.NewRepository(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	// Archive raw uploads next to other audit artifacts
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg,
			tasks.NewImportCSVQueue(sessions, catalog, auditService),
			tasks.NewCleanupAuditEventsQueue(auditService),
			tasks.NewCleanupImportSessionsQueue(sessions),
		)
		if err != nil {
			zap.L().Fatal("Failed to initialize task queue", zap.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				zap.L().Error("Error closing task client", zap.Error(err))
			}
		}()

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Scheduled snapshot export and retention cleanup
	schedCfg := scheduler.Config{
		SnapshotEnabled:     cfg.ExportSync.Enabled,
		SnapshotSchedule:    cfg.ExportSync.Schedule,
		AuditRetentionDays:  cfg.Audit.RetentionDays,
		ImportRetentionDays: cfg.Tasks.ImportSessionRetentionDays,
	}
	var snapshotExporter scheduler.SnapshotExporter
	if cfg.ExportSync.Enabled {
		if err := checkWritableDir(cfg.ExportSync.Dir); err != nil {
			zap.L().Fatal("Snapshot export directory unusable", zap.Error(err))
		}
		snapshotExporter = exporters.NewSnapshotExporter(store, cfg.ExportSync.Dir)
	}
	var cleanup scheduler.CleanupEnqueuer
	if taskClient != nil {
		cleanup = taskClient
		schedCfg.CleanupSchedule = cfg.Tasks.CleanupSchedule
	}
	catalogScheduler := scheduler.NewCatalogScheduler(snapshotExporter, auditService, cleanup, schedCfg)
	if err := catalogScheduler.Start(context.Background()); err != nil {
		zap.L().Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Catalog:             catalog,
		Database:            db,
		Auditor:             auditService,
		AuditEvents:         auditService,
		Archiver:            auditor,
		AuditRetentionDays:  cfg.Audit.RetentionDays,
		ImportRetentionDays: cfg.Tasks.ImportSessionRetentionDays,
		MaxUploadBytes:      cfg.Import.MaxUploadBytes,
		Version:             version,
	}
	if taskClient != nil {
		routerCfg.Sessions = sessions
		routerCfg.Enqueuer = taskClient
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		catalogScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
