// Package exporters renders the catalog as CSV: full exports, import
// templates and snapshot files on disk.
package exporters
