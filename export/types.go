package export

import (
	"context"
	"io"
)

// Format is the export output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat normalizes a format name or file extension.
func ParseFormat(raw string) (Format, error) {
	switch normalizeKey(raw) {
	case "xlsx", ".xlsx", "excel":
		return FormatXLSX, nil
	case "pdf", ".pdf":
		return FormatPDF, nil
	default:
		return "", NewError(KindValidation, "unsupported format "+quote(raw), nil)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Section places a header field in the rendered document.
type Section string

const (
	SectionHeader    Section = "header"
	SectionSummary   Section = "summary"
	SectionSignature Section = "signature"
	// SectionHidden fields are merged into the workbook only.
	SectionHidden Section = "hidden"
)

// Align is a horizontal alignment hint for table columns.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// DefaultDetailRange names the range marking the repeating detail row.
const DefaultDetailRange = "detalleTemplate"

// FieldDescriptor binds a header field to a named range.
type FieldDescriptor struct {
	Name    string    `yaml:"name" json:"name"`
	Range   string    `yaml:"range" json:"range"`
	Kind    ValueKind `yaml:"kind" json:"kind"`
	Label   string    `yaml:"label" json:"label"`
	Section Section   `yaml:"section" json:"section"`
	// Default is applied whenever the request value is null.
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// ColumnDescriptor places a detail value relative to the template row's first column.
type ColumnDescriptor struct {
	Ordinal int       `yaml:"ordinal" json:"ordinal"`
	Name    string    `yaml:"name" json:"name"`
	Kind    ValueKind `yaml:"kind" json:"kind"`
	Label   string    `yaml:"label" json:"label"`
	Width   float64   `yaml:"width" json:"width"`
	Align   Align     `yaml:"align" json:"align"`
}

// Definition describes one record type: template identity plus descriptors.
type Definition struct {
	Name        string             `yaml:"name" json:"name"`
	Template    string             `yaml:"template" json:"template"`
	SheetName   string             `yaml:"sheet" json:"sheet"`
	Title       string             `yaml:"title" json:"title"`
	Subtitle    string             `yaml:"subtitle" json:"subtitle"`
	Footer      string             `yaml:"footer" json:"footer"`
	Filename    string             `yaml:"filename" json:"filename"`
	DetailRange string             `yaml:"detail_range" json:"detail_range"`
	Fields      []FieldDescriptor  `yaml:"fields" json:"fields"`
	Columns     []ColumnDescriptor `yaml:"columns" json:"columns"`
}

// Row is a detail record, positional by column ordinal.
type Row []Value

// ExportRequest carries header scalars and detail rows into the engine.
type ExportRequest struct {
	Definition string
	Header     map[string]Value
	Details    []Row
}

// TemplateSource reads template bytes by logical id.
type TemplateSource interface {
	Template(ctx context.Context, id string) ([]byte, error)
}

// PDFRenderer renders a logical document to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, doc Document, w io.Writer) error
}

// PDFRendererFunc adapts a function to a PDFRenderer.
type PDFRendererFunc func(ctx context.Context, doc Document, w io.Writer) error

func (f PDFRendererFunc) RenderPDF(ctx context.Context, doc Document, w io.Writer) error {
	return f(ctx, doc, w)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
