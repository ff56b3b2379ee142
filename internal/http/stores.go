package http

import (
	"context"

	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/importers"
)

// This file consolidates the interfaces HTTP controllers depend on.

// CatalogService runs imports and exports against the catalog store.
type CatalogService interface {
	Import(ctx context.Context, kind entities.ImportKind, csvText string) (importers.ImportResult, error)
	Export(ctx context.Context, kind entities.ImportKind) (string, error)
	Categories(ctx context.Context) ([]entities.Category, error)
	MenuItems(ctx context.Context) ([]entities.MenuItem, error)
}

// ImportSessionStore persists asynchronous import jobs.
type ImportSessionStore interface {
	Create(ctx context.Context, kind entities.ImportKind, fileName, content string) (*entities.ImportSession, error)
	Get(ctx context.Context, id string) (*entities.ImportSession, error)
	MarkFailed(ctx context.Context, id string, reason string) error
}

// ImportEnqueuer hands an import session to the task queue.
type ImportEnqueuer interface {
	EnqueueImport(ctx context.Context, sessionID string) (string, error)
}

// CatalogAuditor records imports and exports in the audit log.
type CatalogAuditor interface {
	LogImport(e audit.ImportEvent)
	LogExport(kind, description, ipAddr string, err error)
}

// AuditEventReader reads the audit log.
type AuditEventReader interface {
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// UploadArchiver keeps a copy of uploaded files and of failed import reports.
type UploadArchiver interface {
	SaveUpload(kind, content string) (string, error)
	SaveJSON(data any) (string, error)
}
