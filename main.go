package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/cli"
	"github.com/brewhouse/cafe-admin/internal/config"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/entrypoint"
	"github.com/brewhouse/cafe-admin/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// subcommand is implemented by every CLI command.
type subcommand interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.NewConfig()

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		logger := setupLogging(cfg.Log.Level, cfg.Log.Encoding)
		defer logger.Sync()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	var cmd subcommand
	switch command {
	case "import-categories":
		cmd = cli.NewImportCommand(entities.ImportKindCategories).
			WithDefaults(cfg.Database.Path, cfg.Import.Concurrency, cfg.Import.TrackBatchWrites)
	case "import-menu-items":
		cmd = cli.NewImportCommand(entities.ImportKindMenuItems).
			WithDefaults(cfg.Database.Path, cfg.Import.Concurrency, cfg.Import.TrackBatchWrites)
	case "export":
		cmd = cli.NewExportCommand()
	case "template":
		cmd = cli.NewTemplateCommand()

	case "version":
		fmt.Printf("cafe-admin %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	// CLI output goes to stdout; logs stay on stderr and quieter unless -verbose.
	level := "warn"
	for _, a := range args {
		if a == "-verbose" || a == "--verbose" {
			level = "debug"
		}
	}
	logger := setupLogging(level, "console")
	defer logger.Sync()

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(level, encoding string) *zap.Logger {
	logger, err := logging.Setup(level, encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve               Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-categories   Import categories from a CSV file\n")
	fmt.Fprintf(os.Stderr, "  import-menu-items   Import menu items from a CSV file\n")
	fmt.Fprintf(os.Stderr, "  export              Export the catalog as CSV files\n")
	fmt.Fprintf(os.Stderr, "  template            Print an import template\n")
	fmt.Fprintf(os.Stderr, "  version             Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
