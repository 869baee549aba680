package main

import (
	"context"
	"os"

	exportlog "github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/adapters/logging"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/app"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile     string
	templates   string
	definitions string
	logLevel    string
	pdfEngine   string
	scaffold    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "archivex",
		Short:        "Export archival transfer records to Excel and PDF",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", "", "Env file to load before reading the environment (default .env)")
	flags.StringVar(&opts.templates, "templates", "", "Directory holding the workbook templates")
	flags.StringVar(&opts.definitions, "definitions", "", "Directory with extra record type descriptors (*.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.pdfEngine, "pdf-engine", "", "PDF engine: gofpdf, chromium, wkhtmltopdf, none")
	flags.BoolVar(&opts.scaffold, "scaffold-missing", false, "Generate a starter template when a workbook is missing")

	root.AddCommand(
		newExportCmd(opts),
		newScaffoldCmd(opts),
		newDefinitionsCmd(opts),
	)
	return root
}

// config loads the environment and applies flag overrides.
func (o *rootOptions) config() (config.Config, error) {
	var files []string
	if o.envFile != "" {
		files = append(files, o.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return config.Config{}, err
	}
	if o.templates != "" {
		cfg.Export.TemplateDir = o.templates
	}
	if o.definitions != "" {
		cfg.Export.DefinitionDir = o.definitions
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.pdfEngine != "" {
		cfg.PDF.Engine = o.pdfEngine
	}
	if o.scaffold {
		cfg.Export.ScaffoldMissing = true
	}
	// The CLI writes to --out; it never keeps a second copy.
	cfg.Export.ArtifactDir = ""
	return cfg, cfg.Validate()
}

func (o *rootOptions) app(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	logger, err := exportlog.NewFromOptions(exportlog.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Out:       cmd.ErrOrStderr(),
		Component: "archivex",
	})
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
