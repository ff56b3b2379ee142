package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/database/audit"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/importers"
)

// maxStoredErrors caps how many row errors are copied into event metadata.
const maxStoredErrors = 20

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			zap.L().Error("Failed to log audit event", zap.String("action", event.Action), zap.Error(err))
		}
	}()
}

// Wait blocks until every pending LogAsync call has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// ImportEvent describes a finished import for the audit trail.
type ImportEvent struct {
	Kind      string
	Source    string // "http", "cli", "task"
	FileName  string
	IPAddress string
	Result    importers.ImportResult
	Err       error
}

// LogImport records an import. An import with both successes and failures is
// partial; an import where nothing succeeded and something failed is failed.
func (s *Service) LogImport(e ImportEvent) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      e.Kind + "_import",
		Description: fmt.Sprintf("Imported %s via %s: %d succeeded, %d failed", e.Kind, e.Source, e.Result.SuccessCount, e.Result.FailedCount),
		EntityType:  e.Kind,
		IPAddress:   e.IPAddress,
		Status:      importStatus(e.Result),
	}

	errs := e.Result.Errors
	if len(errs) > maxStoredErrors {
		errs = errs[:maxStoredErrors]
	}
	metadata := map[string]any{
		"file_name":     e.FileName,
		"source":        e.Source,
		"success_count": e.Result.SuccessCount,
		"failed_count":  e.Result.FailedCount,
		"created_count": e.Result.CreatedCount,
		"updated_count": e.Result.UpdatedCount,
		"errors":        errs,
	}
	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}

	if e.Err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(e.Err.Error(), 500)
	}

	s.LogAsync(event)
}

func importStatus(result importers.ImportResult) entities.AuditStatus {
	switch {
	case result.FailedCount == 0:
		return entities.AuditStatusSuccess
	case result.SuccessCount > 0:
		return entities.AuditStatusPartial
	default:
		return entities.AuditStatusFailed
	}
}

// LogExport records an export or template download.
func (s *Service) LogExport(kind, description, ipAddr string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      kind + "_export",
		Description: description,
		EntityType:  kind,
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogSync records a scheduled snapshot run.
func (s *Service) LogSync(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSync,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
