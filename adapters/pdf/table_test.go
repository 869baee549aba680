package exportpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

func sampleDocument(rows int) export.Document {
	doc := export.Document{
		Title:    "INVENTARIO GENERAL",
		Subtitle: "Archivo Central",
		Header: []export.Line{
			{Name: "unidadOrganica", Label: "Unidad Orgánica", Value: "Archivo Central"},
			{Name: "anio", Label: "Año", Value: "2024"},
		},
		Columns: []export.TableColumn{
			{Name: "item", Label: "N°", Width: 0.5, Align: export.AlignCenter},
			{Name: "caja", Label: "Caja", Width: 1, Align: export.AlignCenter},
			{Name: "descripcion", Label: "Descripción", Width: 3, Align: export.AlignLeft},
			{Name: "volumen", Label: "Volumen", Width: 1, Align: export.AlignRight},
		},
		Summary:    []export.Line{{Name: "total", Label: "TOTAL", Value: "12.5"}},
		Signatures: []export.Line{{Name: "jefe", Label: "Jefe de Archivo", Value: "M. Quispe"}},
		Footer:     "Sistema de Gestión de Archivos",
	}
	for i := 1; i <= rows; i++ {
		doc.Rows = append(doc.Rows, []string{
			fmt.Sprint(i),
			fmt.Sprintf("Caja %d", i),
			"Expedientes de personal, resoluciones y correspondencia",
			"0.5",
		})
	}
	return doc
}

func renderTable(t *testing.T, doc export.Document) []byte {
	t.Helper()
	renderer := NewTableRenderer()
	renderer.DisableCompression = true
	renderer.Now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	buf := &bytes.Buffer{}
	if err := renderer.RenderPDF(context.Background(), doc, buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf header")
	}
	return buf.Bytes()
}

var pageObject = regexp.MustCompile(`/Type /Page\b`)

func TestTableRenderer_Renders(t *testing.T) {
	out := renderTable(t, sampleDocument(3))
	for _, want := range []string{"INVENTARIO GENERAL", "Caja 3", "TOTAL: 12.5", "M. Quispe"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Fatalf("expected output to contain %q", want)
		}
	}
	if n := len(pageObject.FindAll(out, -1)); n != 1 {
		t.Fatalf("expected 1 page, got %d", n)
	}
}

// cellRect matches the stroked or filled rectangle drawn around each table cell.
var cellRect = regexp.MustCompile(` re [SB]\b`)

func TestTableRenderer_EmptyRows(t *testing.T) {
	out := renderTable(t, sampleDocument(0))
	if !bytes.Contains(out, []byte("Descripci")) {
		t.Fatalf("expected column header in output")
	}
	columns := len(sampleDocument(0).Columns)
	if n := len(cellRect.FindAll(out, -1)); n != columns {
		t.Fatalf("expected header cells only (%d), got %d rectangles", columns, n)
	}
	if n := len(cellRect.FindAll(renderTable(t, sampleDocument(1)), -1)); n != 2*columns {
		t.Fatalf("expected header and one body row (%d), got %d rectangles", 2*columns, n)
	}
}

func TestTableRenderer_PaginatesAndRepeatsHeader(t *testing.T) {
	out := renderTable(t, sampleDocument(120))
	pages := len(pageObject.FindAll(out, -1))
	if pages < 2 {
		t.Fatalf("expected several pages, got %d", pages)
	}
	if got := strings.Count(string(out), "(Caja)"); got != pages {
		t.Fatalf("expected column header once per page (%d), got %d", pages, got)
	}
	if !bytes.Contains(out, []byte("Caja 120")) {
		t.Fatalf("expected last row in output")
	}
}

func TestTableRenderer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewTableRenderer().RenderPDF(ctx, sampleDocument(1), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths([]export.TableColumn{{Width: 1}, {Width: 3}, {}}, 100)
	if widths[0] != 20 || widths[1] != 60 || widths[2] != 20 {
		t.Fatalf("unexpected widths %v", widths)
	}
}

func TestTableRenderer_RejectsUnknownPaper(t *testing.T) {
	renderer := NewTableRenderer()
	renderer.Page.PageSize = "B9"
	err := renderer.RenderPDF(context.Background(), sampleDocument(1), &bytes.Buffer{})
	if export.KindFromError(err) != export.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
