package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

const (
	defaultAuditRetentionDays  = 30
	defaultImportRetentionDays = 7
)

// AuditEventCleaner deletes audit events older than a retention window.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// ImportSessionCleaner deletes finished import sessions.
type ImportSessionCleaner interface {
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupAuditEventsTask removes audit events older than RetentionDays.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// CleanupImportSessionsTask removes completed and failed import sessions
// older than RetentionDays.
type CleanupImportSessionsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return cleanupQueueConfig("cleanup_audit_events")
}

func (t CleanupImportSessionsTask) Config() backlite.QueueConfig {
	return cleanupQueueConfig("cleanup_import_sessions")
}

// Cleanup queues retry a few times; deleting by age is safe to repeat.
func cleanupQueueConfig(name string) backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func retentionWindow(days, fallback int) (int, time.Duration) {
	if days <= 0 {
		days = fallback
	}
	return days, time.Duration(days) * 24 * time.Hour
}

// CleanupAuditEventsProcessor deletes audit events past the task's retention.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return errors.New("audit event cleaner not configured")
		}
		days, window := retentionWindow(task.RetentionDays, defaultAuditRetentionDays)

		deleted, err := cleaner.DeleteOldEvents(window)
		if err != nil {
			return fmt.Errorf("cleanup audit events: %w", err)
		}
		logCleanup("audit_events", deleted, days)
		return nil
	}
}

// CleanupImportSessionsProcessor deletes finished import sessions past the
// task's retention. Pending and running sessions are never touched.
func CleanupImportSessionsProcessor(cleaner ImportSessionCleaner) backlite.QueueProcessor[CleanupImportSessionsTask] {
	return func(ctx context.Context, task CleanupImportSessionsTask) error {
		if cleaner == nil {
			return errors.New("import session cleaner not configured")
		}
		days, window := retentionWindow(task.RetentionDays, defaultImportRetentionDays)

		deleted, err := cleaner.DeleteFinishedBefore(ctx, time.Now().Add(-window))
		if err != nil {
			return fmt.Errorf("cleanup import sessions: %w", err)
		}
		logCleanup("import_sessions", deleted, days)
		return nil
	}
}

func logCleanup(target string, deleted int64, days int) {
	zap.L().Info("Cleanup finished",
		zap.String("target", target),
		zap.Int64("deleted", deleted),
		zap.Int("retention_days", days),
	)
}

func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner))
}

func NewCleanupImportSessionsQueue(cleaner ImportSessionCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupImportSessionsProcessor(cleaner))
}
