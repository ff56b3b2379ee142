package services

import (
	"github.com/brewhouse/cafe-admin/internal/exporters"
	"github.com/brewhouse/cafe-admin/internal/importers"
)

// CatalogStore is what the catalog service needs from persistence: the
// import engine's write interface plus snapshot reads.
type CatalogStore interface {
	importers.EntityStore
	exporters.CatalogReader
}
