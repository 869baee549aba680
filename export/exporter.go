package export

import (
	"bytes"
	"context"
	"time"
)

// Exporter renders one record type to spreadsheet and PDF bytes. Fields are
// read-only after construction; each call loads its own workbook, so an
// Exporter is safe for concurrent use.
type Exporter struct {
	Definition  Definition
	Templates   TemplateSource
	PDF         PDFRenderer
	Logger      Logger
	Location    *time.Location
	Now         func() time.Time
	IDGenerator func() string
}

// NewExporter normalizes and validates def and returns an Exporter bound to it.
func NewExporter(def Definition, templates TemplateSource) (*Exporter, error) {
	if err := def.normalize(); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{
		Definition:  def,
		Templates:   templates,
		Logger:      NopLogger{},
		Now:         time.Now,
		IDGenerator: defaultIDGenerator(),
	}, nil
}

// ExportToExcel merges req into a fresh copy of the definition's template.
func (e *Exporter) ExportToExcel(ctx context.Context, req ExportRequest) ([]byte, error) {
	if e == nil || e.Templates == nil {
		return nil, NewError(KindInternal, "exporter is not configured", nil)
	}
	def := e.Definition
	if err := validateRequest(def, req); err != nil {
		return nil, err
	}
	logger := e.logger()
	fc := e.formatContext()

	f, err := openTemplate(ctx, e.Templates, def.Template)
	if err != nil {
		logger.Errorf("export %s: %v", def.Name, err)
		return nil, err
	}

	// a canceled call stops between stages and returns no partial workbook
	stopped := func(stage string) error {
		err := ctx.Err()
		if err != nil {
			_ = f.Close()
			logger.Warnf("export %s: canceled before %s: %v", def.Name, stage, err)
		}
		return err
	}

	names := definedNames(f)
	if err := stopped("header merge"); err != nil {
		return nil, err
	}
	if err := mergeHeader(f, names, def, req, fc, logger); err != nil {
		_ = f.Close()
		logger.Errorf("export %s: header merge: %v", def.Name, err)
		return nil, err
	}
	if err := stopped("detail expansion"); err != nil {
		return nil, err
	}
	if err := expandDetails(ctx, f, names, def, req, fc, logger); err != nil {
		_ = f.Close()
		logger.Errorf("export %s: detail expansion: %v", def.Name, err)
		return nil, err
	}
	if err := stopped("serialize"); err != nil {
		return nil, err
	}

	data, err := serialize(f)
	if err != nil {
		logger.Errorf("export %s: %v", def.Name, err)
		return nil, err
	}
	logger.Infof("export %s: xlsx with %d detail rows, %d bytes", def.Name, len(req.Details), len(data))
	return data, nil
}

// ExportToPDF renders req through the configured PDF renderer. It never reads
// the spreadsheet template.
func (e *Exporter) ExportToPDF(ctx context.Context, req ExportRequest) ([]byte, error) {
	if e == nil {
		return nil, NewError(KindInternal, "exporter is not configured", nil)
	}
	if e.PDF == nil {
		return nil, NewError(KindNotImpl, "pdf renderer not configured", nil)
	}
	doc, err := e.Document(req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := e.PDF.RenderPDF(ctx, doc, &buf); err != nil {
		e.logger().Errorf("export %s: pdf: %v", e.Definition.Name, err)
		if KindFromError(err) == KindInternal {
			return nil, NewError(KindRender, "render pdf", err)
		}
		return nil, err
	}
	e.logger().Infof("export %s: pdf with %d detail rows, %d bytes", e.Definition.Name, len(req.Details), buf.Len())
	return buf.Bytes(), nil
}

// Export dispatches on format.
func (e *Exporter) Export(ctx context.Context, format Format, req ExportRequest) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return e.ExportToExcel(ctx, req)
	case FormatPDF:
		return e.ExportToPDF(ctx, req)
	default:
		return nil, NewError(KindValidation, "unsupported format "+quote(string(format)), nil)
	}
}

// Document returns the logical content both output formats carry.
func (e *Exporter) Document(req ExportRequest) (Document, error) {
	if err := validateRequest(e.Definition, req); err != nil {
		return Document{}, err
	}
	return buildDocument(e.Definition, req, e.formatContext()), nil
}

// Filename returns a unique download name such as "inventario_<uuid>.xlsx".
func (e *Exporter) Filename(base string, format Format) (string, error) {
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = defaultIDGenerator()
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	name, err := renderFilename(e.Definition, base, format, idGen(), now())
	if err != nil {
		return "", NewError(KindValidation, "render filename", err)
	}
	return name, nil
}

func (e *Exporter) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

func (e *Exporter) formatContext() formatContext {
	return formatContext{location: e.Location}
}
