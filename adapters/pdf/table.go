package exportpdf

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/jung-kurt/gofpdf"
)

const (
	tableMargin     = 10.0
	tableLineHeight = 4.5
	tableCellPad    = 1.0
	signatureHeight = 26.0
)

// TableRenderer draws a Document as a paginated, bordered table with gofpdf.
// It needs no browser or external binary.
type TableRenderer struct {
	Page       PageOptions
	FontFamily string
	FontSize   float64
	Author     string
	// DisableCompression leaves content streams readable, mostly for tests.
	DisableCompression bool
	Now                func() time.Time
}

// NewTableRenderer returns a landscape A4 renderer.
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{
		Page:       PageOptions{PageSize: "A4", Landscape: boolPtr(true)},
		FontFamily: "Helvetica",
		FontSize:   8,
	}
}

var _ export.PDFRenderer = (*TableRenderer)(nil)

// RenderPDF writes doc to w.
func (r *TableRenderer) RenderPDF(ctx context.Context, doc export.Document, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := r.Page.paperInches(); err != nil {
		return err
	}

	t := r.newTable(doc)
	t.pdf.AddPage()
	t.drawTitle(doc)
	t.drawHeaderLines(doc.Header)

	t.drawColumnHeader()
	for i, row := range doc.Rows {
		if i%200 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		t.drawRow(row)
	}

	t.drawSummary(doc.Summary)
	t.drawSignatures(doc.Signatures)

	if err := t.pdf.Error(); err != nil {
		return export.NewError(export.KindRender, "draw pdf table", err)
	}
	if err := t.pdf.Output(w); err != nil {
		return export.NewError(export.KindRender, "write pdf", err)
	}
	return nil
}

type table struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	family  string
	size    float64
	columns []export.TableColumn
	widths  []float64
	usable  float64
	limit   float64
}

func (r *TableRenderer) newTable(doc export.Document) *table {
	family := strings.TrimSpace(r.FontFamily)
	if family == "" {
		family = "Helvetica"
	}
	size := r.FontSize
	if size <= 0 {
		size = 8
	}
	orientation := "P"
	if r.Page.landscape() {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", r.Page.pageSize(), "")
	pdf.SetMargins(tableMargin, tableMargin, tableMargin)
	pdf.SetAutoPageBreak(true, tableMargin+5)
	pdf.SetCompression(!r.DisableCompression)
	pdf.AliasNbPages("")
	if r.Now != nil {
		pdf.SetCreationDate(r.Now())
	}
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.Subtitle, true)
	if r.Author != "" {
		pdf.SetAuthor(r.Author, true)
	}
	pdf.SetCreator("archivex", true)

	pageW, pageH := pdf.GetPageSize()
	t := &table{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		family:  family,
		size:    size,
		columns: doc.Columns,
		usable:  pageW - 2*tableMargin,
		limit:   pageH - tableMargin - 5,
	}
	t.widths = columnWidths(doc.Columns, t.usable)

	footer := doc.Footer
	pdf.SetFooterFunc(func() {
		pdf.SetY(-tableMargin - 2)
		pdf.SetFont(family, "I", 7)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(t.usable/2, 5, t.tr(footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(t.usable/2, 5, t.tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return t
}

// columnWidths spreads the usable width proportionally to the declared weights.
func columnWidths(columns []export.TableColumn, usable float64) []float64 {
	total := 0.0
	for _, col := range columns {
		total += weight(col)
	}
	widths := make([]float64, len(columns))
	for i, col := range columns {
		widths[i] = usable * weight(col) / total
	}
	return widths
}

func weight(col export.TableColumn) float64 {
	if col.Width <= 0 {
		return 1
	}
	return col.Width
}

func (t *table) drawTitle(doc export.Document) {
	if strings.TrimSpace(doc.Title) != "" {
		t.pdf.SetFont(t.family, "B", 14)
		t.pdf.CellFormat(t.usable, 7, t.tr(doc.Title), "", 1, "C", false, 0, "")
	}
	if strings.TrimSpace(doc.Subtitle) != "" {
		t.pdf.SetFont(t.family, "B", 12)
		t.pdf.CellFormat(t.usable, 6, t.tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	t.pdf.Ln(3)
}

func (t *table) drawHeaderLines(lines []export.Line) {
	for _, line := range lines {
		t.pdf.SetFont(t.family, "B", t.size+1)
		t.pdf.Write(tableLineHeight+0.5, t.tr(line.Label+": "))
		t.pdf.SetFont(t.family, "", t.size+1)
		t.pdf.Write(tableLineHeight+0.5, t.tr(line.Value))
		t.pdf.Ln(tableLineHeight + 0.5)
	}
	if len(lines) > 0 {
		t.pdf.Ln(2)
	}
}

func (t *table) drawColumnHeader() {
	if len(t.columns) == 0 {
		return
	}
	labels := make([]string, len(t.columns))
	for i, col := range t.columns {
		labels[i] = col.Label
	}
	t.pdf.SetFont(t.family, "B", t.size)
	t.pdf.SetFillColor(217, 225, 242)
	t.drawCells(labels, true)
}

func (t *table) drawRow(cells []string) {
	if len(t.columns) == 0 {
		return
	}
	t.pdf.SetFont(t.family, "", t.size)
	height := t.rowHeight(cells)
	if t.pdf.GetY()+height > t.limit {
		t.pdf.AddPage()
		t.drawColumnHeader()
		t.pdf.SetFont(t.family, "", t.size)
	}
	t.drawCells(cells, false)
}

func (t *table) rowHeight(cells []string) float64 {
	lines := 1
	for i := range t.columns {
		if n := len(t.split(cellAt(cells, i), t.widths[i])); n > lines {
			lines = n
		}
	}
	return float64(lines)*tableLineHeight + 2*tableCellPad
}

func (t *table) drawCells(cells []string, header bool) {
	height := t.rowHeight(cells)
	x0, y0 := t.pdf.GetX(), t.pdf.GetY()
	style := "D"
	align := "C"
	if header {
		style = "FD"
	}

	x := x0
	for i, col := range t.columns {
		w := t.widths[i]
		t.pdf.Rect(x, y0, w, height, style)
		if !header {
			align = alignCode(col.Align)
		}
		for j, line := range t.split(cellAt(cells, i), w) {
			t.pdf.SetXY(x, y0+tableCellPad+float64(j)*tableLineHeight)
			t.pdf.CellFormat(w, tableLineHeight, line, "", 0, align, false, 0, "")
		}
		x += w
	}
	t.pdf.SetXY(x0, y0+height)
}

// split wraps translated text to the column width using the current font.
func (t *table) split(text string, width float64) []string {
	text = t.tr(text)
	if text == "" {
		return []string{""}
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		lines := t.pdf.SplitLines([]byte(para), width)
		if len(lines) == 0 {
			out = append(out, "")
			continue
		}
		for _, line := range lines {
			out = append(out, string(line))
		}
	}
	return out
}

func (t *table) drawSummary(lines []export.Line) {
	if len(lines) == 0 {
		return
	}
	t.pdf.Ln(2)
	for _, line := range lines {
		t.pdf.SetFont(t.family, "B", t.size+1)
		t.pdf.CellFormat(t.usable, tableLineHeight+1, t.tr(line.Label+": "+line.Value), "", 1, "R", false, 0, "")
	}
}

// drawSignatures lays signature blocks out two per row.
func (t *table) drawSignatures(lines []export.Line) {
	if len(lines) == 0 {
		return
	}
	t.pdf.Ln(6)
	colW := t.usable / 2
	rows := int(math.Ceil(float64(len(lines)) / 2))
	for r := 0; r < rows; r++ {
		if t.pdf.GetY()+signatureHeight > t.limit {
			t.pdf.AddPage()
		}
		y := t.pdf.GetY()
		for c := 0; c < 2; c++ {
			idx := r*2 + c
			if idx >= len(lines) {
				break
			}
			x := tableMargin + float64(c)*colW
			t.pdf.Line(x+12, y+12, x+colW-12, y+12)
			t.pdf.SetXY(x, y+13)
			t.pdf.SetFont(t.family, "", t.size+1)
			t.pdf.CellFormat(colW, tableLineHeight, t.tr(lines[idx].Value), "", 0, "C", false, 0, "")
			t.pdf.SetXY(x, y+13+tableLineHeight)
			t.pdf.SetFont(t.family, "B", t.size)
			t.pdf.CellFormat(colW, tableLineHeight, t.tr(lines[idx].Label), "", 0, "C", false, 0, "")
		}
		t.pdf.SetXY(tableMargin, y+signatureHeight)
	}
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func alignCode(align export.Align) string {
	switch align {
	case export.AlignCenter:
		return "C"
	case export.AlignRight:
		return "R"
	default:
		return "L"
	}
}
