package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/config"
	"github.com/brewhouse/cafe-admin/internal/database"
	auditrepo "github.com/brewhouse/cafe-admin/internal/database/audit"
	"github.com/brewhouse/cafe-admin/internal/exporters"
)

// ExportCommand writes categories.csv and menu_items.csv into a directory.
type ExportCommand struct {
	OutputDir    string
	DatabasePath string

	out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{out: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.OutputDir, "output", "", "Directory for the exported CSV files (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export -output <dir> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the catalog as categories.csv and menu_items.csv.\n")
		fmt.Fprintf(os.Stderr, "Both files can be edited and imported again.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutputDir == "" {
		return fmt.Errorf("required flag -output not provided")
	}

	return nil
}

func (cmd *ExportCommand) Run() error {
	absOutputDir, err := filepath.Abs(cmd.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for output: %w", err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	exporter := exporters.NewSnapshotExporter(database.NewCatalogStore(db.DB), absOutputDir)
	result, exportErr := exporter.Export(context.Background())

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	auditService.LogExport("catalog", fmt.Sprintf("Exported catalog to %s via cli", absOutputDir), "", exportErr)
	auditService.Wait()

	if exportErr != nil {
		return fmt.Errorf("export failed: %w", exportErr)
	}

	fmt.Fprintf(cmd.out, "Exported %d categories and %d menu items\n", result.CategoriesExported, result.MenuItemsExported)
	for _, f := range result.Files {
		fmt.Fprintf(cmd.out, "  %s\n", f)
	}
	return nil
}
