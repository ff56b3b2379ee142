package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/config"
	"github.com/brewhouse/cafe-admin/internal/database"
	auditrepo "github.com/brewhouse/cafe-admin/internal/database/audit"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/importers"
	"github.com/brewhouse/cafe-admin/internal/services"
)

// Errors printed without -verbose
const maxPrintedErrors = 10

// ImportCommand imports a categories or menu items CSV file into the database.
type ImportCommand struct {
	Kind         entities.ImportKind
	FilePath     string
	DatabasePath string
	Concurrency  int
	DryRun       bool
	Verbose      bool
	// TrackBatchWrites lets later rows update entities created earlier in the same file.
	TrackBatchWrites bool

	out io.Writer
}

func NewImportCommand(kind entities.ImportKind) *ImportCommand {
	return &ImportCommand{
		Kind:         kind,
		DatabasePath: config.DefaultDatabasePath,
		Concurrency:  1,
		out:          os.Stdout,
	}
}

// WithDefaults seeds flag defaults from configuration. Explicit flags still win.
func (cmd *ImportCommand) WithDefaults(dbPath string, concurrency int, trackBatchWrites bool) *ImportCommand {
	if dbPath != "" {
		cmd.DatabasePath = dbPath
	}
	if concurrency > 0 {
		cmd.Concurrency = concurrency
	}
	cmd.TrackBatchWrites = trackBatchWrites
	return cmd
}

func (cmd *ImportCommand) name() string {
	if cmd.Kind == entities.ImportKindCategories {
		return "import-categories"
	}
	return "import-menu-items"
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet(cmd.name(), flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the catalog database")
	fs.IntVar(&cmd.Concurrency, "concurrency", cmd.Concurrency, "Rows processed in parallel")
	fs.BoolVar(&cmd.TrackBatchWrites, "track-batch-writes", cmd.TrackBatchWrites, "Update rows created earlier in the same file instead of creating duplicates")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every row error")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse, map and resolve rows without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s -file <path> [options]\n\n", os.Args[0], cmd.name())
		fmt.Fprintf(os.Stderr, "Import %s from a CSV file. Rows matching an existing entry by id\n", cmd.Kind)
		fmt.Fprintf(os.Stderr, "or name are updated, all other rows are created.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s template -kind %s > %s.csv\n", os.Args[0], cmd.Kind, cmd.Kind)
		fmt.Fprintf(os.Stderr, "  %s %s -file %s.csv -dry-run -verbose\n", os.Args[0], cmd.name(), cmd.Kind)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	fmt.Fprintf(cmd.out, "Catalog Import (%s)\n", cmd.Kind)
	fmt.Fprintln(cmd.out, "==============================")

	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "DRY RUN MODE - No changes will be made")
		fmt.Fprintln(cmd.out)
	}

	content, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read CSV file: %w", err)
	}
	fmt.Fprintf(cmd.out, "File: %s (%d bytes)\n", cmd.FilePath, len(content))

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	fmt.Fprintf(cmd.out, "Database: %s\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	catalog := services.NewCatalogService(database.NewCatalogStore(db.DB), importers.Options{
		Concurrency:      cmd.Concurrency,
		TrackBatchWrites: cmd.TrackBatchWrites,
		DryRun:           cmd.DryRun,
	})

	result, err := catalog.Import(context.Background(), cmd.Kind, strings.TrimPrefix(string(content), "\ufeff"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if !cmd.DryRun {
		auditService := audit.NewService(auditrepo.NewRepository(db.DB))
		auditService.LogImport(audit.ImportEvent{
			Kind:     string(cmd.Kind),
			Source:   "cli",
			FileName: filepath.Base(cmd.FilePath),
			Result:   result,
		})
		auditService.Wait()
	}

	cmd.printSummary(result)
	return nil
}

func (cmd *ImportCommand) printSummary(result importers.ImportResult) {
	fmt.Fprintln(cmd.out, "\n=== Import Summary ===")
	fmt.Fprintf(cmd.out, "Rows succeeded: %d/%d\n", result.SuccessCount, result.Total())
	if cmd.DryRun {
		fmt.Fprintf(cmd.out, "Would create: %d\n", result.CreatedCount)
		fmt.Fprintf(cmd.out, "Would update: %d\n", result.UpdatedCount)
	} else {
		fmt.Fprintf(cmd.out, "Created: %d\n", result.CreatedCount)
		fmt.Fprintf(cmd.out, "Updated: %d\n", result.UpdatedCount)
	}

	if len(result.Errors) == 0 {
		return
	}

	fmt.Fprintf(cmd.out, "\n%d errors occurred:\n", len(result.Errors))
	printed := result.Errors
	if !cmd.Verbose && len(printed) > maxPrintedErrors {
		printed = printed[:maxPrintedErrors]
	}
	for _, msg := range printed {
		fmt.Fprintf(cmd.out, "  [ERROR] %s\n", msg)
	}
	if hidden := len(result.Errors) - len(printed); hidden > 0 {
		fmt.Fprintf(cmd.out, "  ... and %d more (use -verbose to see all)\n", hidden)
	}
}
