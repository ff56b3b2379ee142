package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/exporters"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// SnapshotExporter writes the catalog to disk.
type SnapshotExporter interface {
	Export(ctx context.Context) (exporters.ExportResult, error)
}

// SyncAuditor records scheduled runs.
type SyncAuditor interface {
	LogSync(action, description string, err error)
}

// CleanupEnqueuer schedules retention cleanup in the task queue.
type CleanupEnqueuer interface {
	EnqueueCleanup(ctx context.Context, auditRetentionDays, importRetentionDays int) error
}

type Config struct {
	// SnapshotEnabled turns on the periodic CSV snapshot export.
	SnapshotEnabled  bool
	SnapshotSchedule string
	// CleanupSchedule enqueues audit and import session cleanup. Empty disables it.
	CleanupSchedule     string
	AuditRetentionDays  int
	ImportRetentionDays int
}

// CatalogScheduler runs periodic catalog snapshots and retention cleanup.
type CatalogScheduler struct {
	exporter SnapshotExporter
	auditor  SyncAuditor
	cleanup  CleanupEnqueuer
	config   Config

	cron            *cron.Cron
	snapshotEntryID cron.EntryID
	mu              sync.RWMutex
	isRunning       bool
	isSyncing       atomic.Bool
	cancelFunc      context.CancelFunc
}

// NewCatalogScheduler creates a new scheduler instance. auditor and cleanup may be nil.
func NewCatalogScheduler(exporter SnapshotExporter, auditor SyncAuditor, cleanup CleanupEnqueuer, cfg Config) *CatalogScheduler {
	return &CatalogScheduler{
		exporter: exporter,
		auditor:  auditor,
		cleanup:  cleanup,
		config:   cfg,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the enabled jobs and starts the cron loop. It is a no-op
// when no job is enabled.
func (s *CatalogScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	jobs := 0
	if s.config.SnapshotEnabled && s.exporter != nil {
		if err := ValidateSchedule(s.config.SnapshotSchedule); err != nil {
			return fmt.Errorf("invalid snapshot schedule '%s': %w", s.config.SnapshotSchedule, err)
		}
		entryID, err := s.cron.AddFunc(s.config.SnapshotSchedule, s.runSnapshot)
		if err != nil {
			return fmt.Errorf("failed to schedule snapshot job: %w", err)
		}
		s.snapshotEntryID = entryID
		jobs++
	}

	if s.config.CleanupSchedule != "" && s.cleanup != nil {
		if err := ValidateSchedule(s.config.CleanupSchedule); err != nil {
			return fmt.Errorf("invalid cleanup schedule '%s': %w", s.config.CleanupSchedule, err)
		}
		if _, err := s.cron.AddFunc(s.config.CleanupSchedule, s.runCleanup); err != nil {
			return fmt.Errorf("failed to schedule cleanup job: %w", err)
		}
		jobs++
	}

	if jobs == 0 {
		zap.L().Info("Catalog scheduler: no jobs enabled")
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	zap.L().Info("Catalog scheduler: started",
		zap.Bool("snapshot", s.config.SnapshotEnabled),
		zap.String("snapshot_schedule", s.config.SnapshotSchedule),
		zap.String("cleanup_schedule", s.config.CleanupSchedule),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs. Jobs never
// take mu, so waiting happens after it is released.
func (s *CatalogScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	stopped := s.cron.Stop()
	s.mu.Unlock()

	<-stopped.Done()
	if cancel != nil {
		cancel()
	}

	zap.L().Info("Catalog scheduler: stopped")
}

// RunNow triggers an immediate snapshot in the background.
func (s *CatalogScheduler) RunNow() {
	go s.runSnapshot()
}

// IsRunning returns whether the scheduler is active.
func (s *CatalogScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextSnapshot returns when the next snapshot will run.
func (s *CatalogScheduler) NextSnapshot() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || s.snapshotEntryID == 0 {
		return nil
	}

	t := s.cron.Entry(s.snapshotEntryID).Next
	return &t
}

// runSnapshot exports the catalog. Overlapping runs are skipped.
func (s *CatalogScheduler) runSnapshot() {
	if !s.isSyncing.CompareAndSwap(false, true) {
		zap.L().Info("Catalog snapshot: skipped, previous run still in progress")
		return
	}
	defer s.isSyncing.Store(false)

	startTime := time.Now()
	result, err := s.exporter.Export(context.Background())
	if err != nil {
		errMsg := fmt.Sprintf("Snapshot export failed: %v", err)
		zap.L().Error("Catalog snapshot failed", zap.Error(err))
		s.logAudit("snapshot_export", errMsg, err)
		return
	}

	successMsg := fmt.Sprintf("Exported %d categories and %d menu items in %v",
		result.CategoriesExported, result.MenuItemsExported, time.Since(startTime).Round(time.Millisecond))
	zap.L().Info("Catalog snapshot completed", zap.Strings("files", result.Files))
	s.logAudit("snapshot_export", successMsg, nil)
}

func (s *CatalogScheduler) runCleanup() {
	err := s.cleanup.EnqueueCleanup(context.Background(), s.config.AuditRetentionDays, s.config.ImportRetentionDays)
	if err != nil {
		zap.L().Error("Failed to enqueue cleanup tasks", zap.Error(err))
	}
}

func (s *CatalogScheduler) logAudit(action, description string, err error) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogSync(action, description, err)
}
