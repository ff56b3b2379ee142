package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/services"
)

// TemplateCommand prints an import template.
type TemplateCommand struct {
	Kind       entities.ImportKind
	OutputPath string

	out io.Writer
}

func NewTemplateCommand() *TemplateCommand {
	return &TemplateCommand{out: os.Stdout}
}

func (cmd *TemplateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("template", flag.ExitOnError)

	var kind string
	fs.StringVar(&kind, "kind", "", "Template kind: categories or menu-items (required)")
	fs.StringVar(&cmd.OutputPath, "output", "", "Write to this file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s template -kind categories|menu-items [-output file]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if kind == "" {
		return fmt.Errorf("required flag -kind not provided")
	}
	parsed, err := services.ParseKind(kind)
	if err != nil {
		return err
	}
	cmd.Kind = parsed

	return nil
}

func (cmd *TemplateCommand) Run() error {
	template := services.Template(cmd.Kind) + "\n"

	if cmd.OutputPath == "" {
		_, err := io.WriteString(cmd.out, template)
		return err
	}

	if err := os.WriteFile(cmd.OutputPath, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	fmt.Fprintf(cmd.out, "Template written to %s\n", cmd.OutputPath)
	return nil
}
