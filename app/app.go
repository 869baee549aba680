// Package app wires configuration into a ready export service for the
// archivex binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	exportpdf "github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/adapters/pdf"
	storefs "github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/adapters/store/fs"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/archival"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/config"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

// App holds the application dependencies.
type App struct {
	Config   config.Config
	Logger   export.Logger
	Registry *export.DefinitionRegistry
	Service  export.Service
	PDF      export.PDFRenderer
	// Store is nil unless Export.ArtifactDir is set.
	Store *storefs.Store

	closers []io.Closer
}

// New builds the registry, template source, PDF renderer and service.
func New(ctx context.Context, cfg config.Config, logger export.Logger) (*App, error) {
	if logger == nil {
		logger = export.NopLogger{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	registry, err := loadRegistry(cfg.Export.DefinitionDir)
	if err != nil {
		return nil, err
	}

	var templates export.TemplateSource = export.NewTemplateStore(os.DirFS(cfg.Export.TemplateDir))
	if cfg.Export.ScaffoldMissing {
		templates = &scaffoldFallback{primary: templates, registry: registry, logger: logger}
	}

	a := &App{Config: cfg, Logger: logger, Registry: registry}

	pdf, closer, err := NewPDFRenderer(cfg.PDF)
	if err != nil {
		return nil, err
	}
	a.PDF = pdf
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	var artifacts export.ArtifactStore
	if dir := strings.TrimSpace(cfg.Export.ArtifactDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact directory: %w", err)
		}
		a.Store = storefs.NewStore(dir)
		artifacts = a.Store
	}

	a.Service, err = export.NewService(export.ServiceConfig{
		Definitions: registry,
		Templates:   templates,
		PDF:         pdf,
		Artifacts:   artifacts,
		Logger:      logger,
		Timezone:    cfg.Export.Timezone,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Infof("export service ready: %d record types, pdf engine %s", len(registry.Names()), cfg.PDF.Engine)
	return a, nil
}

// Close releases engine resources.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// NewPDFRenderer returns the renderer selected by cfg.Engine. The closer is
// non-nil when the engine holds a process.
func NewPDFRenderer(cfg config.PDFConfig) (export.PDFRenderer, io.Closer, error) {
	page := exportpdf.PageOptions{PageSize: cfg.PageSize, BaseURL: cfg.BaseURL}
	landscape := cfg.Landscape()
	page.Landscape = &landscape

	html := func() (exportpdf.HTMLSource, error) {
		if cfg.TemplatePath == "" {
			return exportpdf.NewHTMLRenderer(""), nil
		}
		return exportpdf.LoadHTMLRenderer(cfg.TemplatePath)
	}

	switch strings.ToLower(cfg.Engine) {
	case "", config.EngineGoFPDF:
		table := exportpdf.NewTableRenderer()
		table.Page = table.Page.Merge(page)
		return table, nil, nil
	case config.EngineChromium:
		source, err := html()
		if err != nil {
			return nil, nil, err
		}
		engine := &exportpdf.ChromiumEngine{
			BrowserPath: cfg.ChromiumPath,
			Headless:    cfg.Headless,
			Timeout:     cfg.Timeout,
			Args:        cfg.Args,
			DefaultPage: page,
		}
		return exportpdf.Renderer{Enabled: true, HTML: source, Engine: engine, Page: page}, engine, nil
	case config.EngineWKHTMLTOPDF:
		source, err := html()
		if err != nil {
			return nil, nil, err
		}
		engine := exportpdf.WKHTMLTOPDFEngine{Command: cfg.WKHTMLTOPDFPath, Timeout: cfg.Timeout}
		return exportpdf.Renderer{Enabled: true, HTML: source, Engine: engine, Page: page}, nil, nil
	case config.EngineNone:
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown pdf engine %q", cfg.Engine)
	}
}

func loadRegistry(dir string) (*export.DefinitionRegistry, error) {
	if strings.TrimSpace(dir) == "" {
		return archival.NewRegistry()
	}
	extra, err := export.LoadDefinitions(os.DirFS(dir), "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("load definitions from %s: %w", dir, err)
	}
	return archival.NewRegistry(extra...)
}

// scaffoldFallback serves a generated workbook when the primary source has
// no file for a registered definition's template.
type scaffoldFallback struct {
	primary  export.TemplateSource
	registry *export.DefinitionRegistry
	logger   export.Logger
}

func (s *scaffoldFallback) Template(ctx context.Context, id string) ([]byte, error) {
	data, err := s.primary.Template(ctx, id)
	if err == nil || export.KindFromError(err) != export.KindNotFound {
		return data, err
	}
	for _, def := range s.registry.Definitions() {
		if def.Template != id {
			continue
		}
		s.logger.Warnf("template %q not found, using generated layout for %s", id, def.Name)
		return export.ScaffoldBytes(def)
	}
	return nil, err
}
