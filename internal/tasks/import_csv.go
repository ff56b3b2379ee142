package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/database/imports"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/importers"
)

// ImportSessionStore tracks the state of asynchronous imports.
type ImportSessionStore interface {
	Get(ctx context.Context, id string) (*entities.ImportSession, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, summary imports.Summary) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

// CatalogImporter runs an import of one catalog kind.
type CatalogImporter interface {
	Import(ctx context.Context, kind entities.ImportKind, csvText string) (importers.ImportResult, error)
}

// ImportAuditor records finished imports.
type ImportAuditor interface {
	LogImport(e audit.ImportEvent)
}

// ImportCSVTask runs the import stored in an import session.
type ImportCSVTask struct {
	SessionID string `json:"session_id"`
}

// Config returns the queue configuration for CSV import tasks. Imports are
// not retried: a second run would re-apply rows that already succeeded.
func (t ImportCSVTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_csv",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportCSVProcessor creates a processor function for ImportCSVTask. auditor may be nil.
func ImportCSVProcessor(sessions ImportSessionStore, importer CatalogImporter, auditor ImportAuditor) backlite.QueueProcessor[ImportCSVTask] {
	return func(ctx context.Context, task ImportCSVTask) error {
		if sessions == nil || importer == nil {
			return fmt.Errorf("import task not configured")
		}

		session, err := sessions.Get(ctx, task.SessionID)
		if err != nil {
			return fmt.Errorf("load import session %s: %w", task.SessionID, err)
		}
		if session.Finished() {
			zap.L().Warn("Import session already finished", zap.String("session_id", session.ID))
			return nil
		}

		if err := sessions.MarkRunning(ctx, session.ID); err != nil {
			return fmt.Errorf("mark import session %s running: %w", session.ID, err)
		}

		result, importErr := importer.Import(ctx, session.Kind, session.Content)
		if auditor != nil {
			auditor.LogImport(audit.ImportEvent{
				Kind:     string(session.Kind),
				Source:   "task",
				FileName: session.FileName,
				Result:   result,
				Err:      importErr,
			})
		}

		if importErr != nil {
			// The job context may already be cancelled; record the failure regardless.
			markErr := sessions.MarkFailed(context.WithoutCancel(ctx), session.ID, importErr.Error())
			return errors.Join(fmt.Errorf("import session %s: %w", session.ID, importErr), markErr)
		}

		summary := imports.Summary{
			SuccessCount: result.SuccessCount,
			FailedCount:  result.FailedCount,
			CreatedCount: result.CreatedCount,
			UpdatedCount: result.UpdatedCount,
			Errors:       result.Errors,
		}
		if err := sessions.MarkCompleted(context.WithoutCancel(ctx), session.ID, summary); err != nil {
			return fmt.Errorf("mark import session %s completed: %w", session.ID, err)
		}

		zap.L().Info("Import session completed",
			zap.String("session_id", session.ID),
			zap.String("kind", string(session.Kind)),
			zap.Int("success", result.SuccessCount),
			zap.Int("failed", result.FailedCount),
		)
		return nil
	}
}

// NewImportCSVQueue creates a backlite queue for CSV import tasks.
func NewImportCSVQueue(sessions ImportSessionStore, importer CatalogImporter, auditor ImportAuditor) backlite.Queue {
	return backlite.NewQueue(ImportCSVProcessor(sessions, importer, auditor))
}
