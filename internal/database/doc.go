// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, allergen seeding
//	├── store.go         # CatalogStore: the import engine's EntityStore
//	├── categories/      # Category CRUD
//	├── menuitems/       # Menu item CRUD and allergen associations
//	├── imports/         # Asynchronous import sessions
//	└── audit/           # Audit trail
//
// # Usage
//
//	db, err := database.NewDatabase("./cafe.db")
//
//	store := database.NewCatalogStore(db.DB)
//	engine := importers.NewEngine(store, importers.Options{})
//	categories, err := store.ListCategories(ctx)
//	result := engine.ImportCategories(ctx, csvText, categories)
//
// # Errors
//
// Repositories return GORM errors unchanged. CatalogStore wraps errors that
// mean the database itself is unusable with importers.ErrStoreUnavailable so
// an import batch stops instead of failing every remaining row one by one.
package database
