package http

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  CatalogService
	Database Pinger

	// Async imports (optional)
	Sessions ImportSessionStore
	Enqueuer ImportEnqueuer

	// Audit trail (optional)
	Auditor     CatalogAuditor
	AuditEvents AuditEventReader
	Archiver    UploadArchiver

	// Task queue client (optional)
	TaskQueue           TaskQueue
	AuditRetentionDays  int
	ImportRetentionDays int

	// Import limits
	MaxUploadBytes int64

	// Application info
	Version string
}
