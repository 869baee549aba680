package exportpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

// DefaultMaxHTMLBytes guards in-memory HTML buffering before PDF conversion.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// RenderRequest contains HTML input and page options for PDF engines.
type RenderRequest struct {
	HTML []byte
	Page PageOptions
}

// Engine converts HTML into PDF bytes.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, req)
}

// Renderer renders a Document to HTML and hands it to an Engine.
type Renderer struct {
	Enabled      bool
	HTML         HTMLSource
	Engine       Engine
	Page         PageOptions
	MaxHTMLBytes int64
}

var _ export.PDFRenderer = Renderer{}

// RenderPDF renders doc to HTML, converts it and writes the PDF to w.
func (r Renderer) RenderPDF(ctx context.Context, doc export.Document, w io.Writer) error {
	if !r.Enabled {
		return export.NewError(export.KindNotImpl, "html pdf renderer is disabled", nil)
	}
	if r.Engine == nil {
		return export.NewError(export.KindValidation, "html pdf renderer requires engine", nil)
	}
	source := r.HTML
	if source == nil {
		source = NewHTMLRenderer("")
	}

	buffer := newHTMLBuffer(r.MaxHTMLBytes)
	if err := source.RenderHTML(ctx, doc, buffer); err != nil {
		return err
	}

	pdf, err := r.Engine.Render(ctx, RenderRequest{HTML: buffer.Bytes(), Page: r.Page})
	if err != nil {
		return err
	}
	if len(pdf) == 0 {
		return export.NewError(export.KindRender, "pdf engine returned no output", nil)
	}
	if _, err := w.Write(pdf); err != nil {
		return export.NewError(export.KindRender, "write pdf", err)
	}
	return nil
}

// htmlBuffer collects rendered HTML and fails once it grows past limit.
type htmlBuffer struct {
	buf   bytes.Buffer
	limit int64
}

func newHTMLBuffer(limit int64) *htmlBuffer {
	if limit <= 0 {
		limit = DefaultMaxHTMLBytes
	}
	return &htmlBuffer{limit: limit}
}

func (b *htmlBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len()+len(p)) > b.limit {
		return 0, export.NewError(export.KindValidation, fmt.Sprintf("report html exceeds %d bytes", b.limit), nil)
	}
	return b.buf.Write(p)
}

func (b *htmlBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
