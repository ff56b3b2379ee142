// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - EntityStore: catalog writes used by the import engine (internal/importers/store.go)
//   - CatalogReader: catalog reads used by snapshot exports (internal/exporters/snapshot.go)
//   - CatalogStore: both of the above, consumed by the catalog service (internal/services/interfaces.go)
//   - ImportSessionStore: async import bookkeeping (internal/http/stores.go, internal/tasks/import_csv.go)
//
// ## Background Work Interfaces
//
//   - ImportEnqueuer, TaskQueue: task queue access for HTTP handlers (internal/http/stores.go, internal/http/tasks.go)
//   - CleanupEnqueuer, SnapshotExporter: scheduled jobs (internal/scheduler/snapshot_sync.go)
//
// ## Audit Interfaces
//
//   - CatalogAuditor, AuditEventReader, UploadArchiver (internal/http/stores.go)
//   - ImportAuditor, AuditEventCleaner (internal/tasks)
//   - SyncAuditor (internal/scheduler)
//
// # Adding a New Catalog Entity
//
// To make another entity importable (e.g., combo deals):
//
//  1. Add the entity and its draft to internal/entities/ with csv and
//     validate tags on the draft.
//
//  2. Add Create/Update methods to importers.EntityStore and implement them
//     in internal/database/store.go.
//
//  3. Add a mapper method and a reconciler with the natural key in
//     internal/importers/, then an Engine.ImportX method built on Batch.
//
//  4. Add export and template columns in internal/exporters/csv.go and
//     register the routes in internal/http/router.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
