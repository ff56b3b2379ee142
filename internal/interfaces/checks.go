package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/database"
	"github.com/brewhouse/cafe-admin/internal/database/imports"
	"github.com/brewhouse/cafe-admin/internal/exporters"
	"github.com/brewhouse/cafe-admin/internal/http"
	"github.com/brewhouse/cafe-admin/internal/importers"
	"github.com/brewhouse/cafe-admin/internal/scheduler"
	"github.com/brewhouse/cafe-admin/internal/services"
	"github.com/brewhouse/cafe-admin/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// EntityStore implementations
var _ importers.EntityStore = (*database.CatalogStore)(nil)
var _ exporters.CatalogReader = (*database.CatalogStore)(nil)
var _ services.CatalogStore = (*database.CatalogStore)(nil)

// ImportSession store implementations
var _ http.ImportSessionStore = (*imports.Repository)(nil)
var _ tasks.ImportSessionStore = (*imports.Repository)(nil)
var _ tasks.ImportSessionCleaner = (*imports.Repository)(nil)

// Health checks
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Catalog Service
// =============================================================================

var _ http.CatalogService = (*services.CatalogService)(nil)
var _ tasks.CatalogImporter = (*services.CatalogService)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ http.CatalogAuditor = (*audit.Service)(nil)
var _ http.AuditEventReader = (*audit.Service)(nil)
var _ http.UploadArchiver = (*audit.Auditor)(nil)
var _ tasks.ImportAuditor = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.SyncAuditor = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.ImportEnqueuer = (*tasks.Client)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
var _ scheduler.SnapshotExporter = (*exporters.SnapshotExporter)(nil)
