package exporters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

const (
	CategoriesFileName = "categories.csv"
	MenuItemsFileName  = "menu_items.csv"
)

// CatalogReader loads the full catalog snapshot.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
	ListMenuItems(ctx context.Context) ([]entities.MenuItem, error)
}

// SnapshotExporter writes the catalog as CSV files into a directory.
type SnapshotExporter struct {
	reader CatalogReader
	Dir    string
}

func NewSnapshotExporter(reader CatalogReader, dir string) *SnapshotExporter {
	return &SnapshotExporter{reader: reader, Dir: dir}
}

func (e *SnapshotExporter) ensureDir() error {
	if e.Dir == "" {
		return fmt.Errorf("export directory is not configured")
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}

// Export writes categories.csv and menu_items.csv. Existing files are
// replaced only once the new content is fully written.
func (e *SnapshotExporter) Export(ctx context.Context) (ExportResult, error) {
	if err := e.ensureDir(); err != nil {
		return ExportResult{}, err
	}

	categories, err := e.reader.ListCategories(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to load categories: %w", err)
	}
	items, err := e.reader.ListMenuItems(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to load menu items: %w", err)
	}

	result := ExportResult{
		CategoriesExported: len(categories),
		MenuItemsExported:  len(items),
	}

	files := []struct {
		name    string
		content string
	}{
		{CategoriesFileName, ExportCategories(categories)},
		{MenuItemsFileName, ExportMenuItems(items, categories)},
	}
	for _, f := range files {
		path := filepath.Join(e.Dir, f.name)
		if err := writeFileAtomic(path, f.content); err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
	}

	zap.L().Info("Catalog snapshot exported",
		zap.String("dir", e.Dir),
		zap.Int("categories", result.CategoriesExported),
		zap.Int("menu_items", result.MenuItemsExported),
	)
	return result, nil
}

func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
