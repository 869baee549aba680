package exportpdf

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/flosch/pongo2/v6"
)

// DefaultHTMLTemplate lays out a Document for an HTML-to-PDF engine.
const DefaultHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ doc.Title }}</title>
<style>
@page { size: A4 landscape; margin: 10mm; }
body { font-family: Helvetica, Arial, sans-serif; font-size: 9pt; color: #000; }
h1 { font-size: 14pt; text-align: center; margin: 0; }
h2 { font-size: 12pt; text-align: center; margin: 2pt 0 8pt; }
dl.header { margin: 0 0 8pt; }
dl.header div { margin: 1pt 0; }
dl.header dt { display: inline; font-weight: bold; }
dl.header dd { display: inline; margin: 0; }
table { width: 100%; border-collapse: collapse; table-layout: fixed; }
thead { display: table-header-group; }
th { background: #d9e1f2; font-weight: bold; }
th, td { border: 1px solid #000; padding: 2pt; vertical-align: top; word-wrap: break-word; }
.align-left { text-align: left; }
.align-center { text-align: center; }
.align-right { text-align: right; }
.summary { text-align: right; font-weight: bold; margin-top: 6pt; }
.signatures { display: flex; flex-wrap: wrap; margin-top: 30pt; }
.signature { width: 50%; text-align: center; margin-bottom: 24pt; page-break-inside: avoid; }
.signature .rule { border-top: 1px solid #000; margin: 0 40pt 2pt; }
footer { margin-top: 12pt; font-size: 7pt; color: #555; }
</style>
</head>
<body>
{% if doc.Title %}<h1>{{ doc.Title }}</h1>{% endif %}
{% if doc.Subtitle %}<h2>{{ doc.Subtitle }}</h2>{% endif %}
<dl class="header">
{% for line in doc.Header %}<div><dt>{{ line.Label }}:</dt> <dd>{{ line.Value }}</dd></div>
{% endfor %}</dl>
<table>
<colgroup>{% for col in columns %}<col style="width: {{ col.Percent|floatformat:2 }}%">{% endfor %}</colgroup>
<thead><tr>{% for col in columns %}<th>{{ col.Label }}</th>{% endfor %}</tr></thead>
<tbody>
{% for row in rows %}<tr>{% for cell in row %}<td class="align-{{ cell.Align }}">{{ cell.Text }}</td>{% endfor %}</tr>
{% endfor %}</tbody>
</table>
{% for line in doc.Summary %}<div class="summary">{{ line.Label }}: {{ line.Value }}</div>
{% endfor %}
{% if doc.Signatures %}<div class="signatures">
{% for line in doc.Signatures %}<div class="signature"><div class="rule"></div><div>{{ line.Value }}</div><strong>{{ line.Label }}</strong></div>
{% endfor %}</div>{% endif %}
{% if doc.Footer %}<footer>{{ doc.Footer }}</footer>{% endif %}
</body>
</html>
`

// HTMLSource renders a Document as HTML.
type HTMLSource interface {
	RenderHTML(ctx context.Context, doc export.Document, w io.Writer) error
}

// HTMLRenderer renders Documents through a pongo2 template.
type HTMLRenderer struct {
	Source string

	once sync.Once
	tpl  *pongo2.Template
	err  error
}

// NewHTMLRenderer returns a renderer for source, or DefaultHTMLTemplate when empty.
func NewHTMLRenderer(source string) *HTMLRenderer {
	return &HTMLRenderer{Source: source}
}

// LoadHTMLRenderer reads a template file from disk.
func LoadHTMLRenderer(path string) (*HTMLRenderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, export.NewError(export.KindTemplate, "read html template", err)
	}
	r := NewHTMLRenderer(string(data))
	if _, err := r.template(); err != nil {
		return nil, err
	}
	return r, nil
}

type htmlColumn struct {
	Label   string
	Percent float64
}

type htmlCell struct {
	Text  string
	Align string
}

// RenderHTML executes the template with doc, columns and rows in scope.
func (r *HTMLRenderer) RenderHTML(ctx context.Context, doc export.Document, w io.Writer) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	tpl, err := r.template()
	if err != nil {
		return err
	}

	widths := columnWidths(doc.Columns, 100)
	columns := make([]htmlColumn, len(doc.Columns))
	for i, col := range doc.Columns {
		columns[i] = htmlColumn{Label: col.Label, Percent: widths[i]}
	}
	rows := make([][]htmlCell, len(doc.Rows))
	for i, row := range doc.Rows {
		cells := make([]htmlCell, len(doc.Columns))
		for j, col := range doc.Columns {
			align := string(col.Align)
			if align == "" {
				align = string(export.AlignLeft)
			}
			cells[j] = htmlCell{Text: cellAt(row, j), Align: align}
		}
		rows[i] = cells
	}

	if err := tpl.ExecuteWriter(pongo2.Context{
		"doc":     doc,
		"columns": columns,
		"rows":    rows,
	}, w); err != nil {
		return export.NewError(export.KindRender, "render html", err)
	}
	return nil
}

func (r *HTMLRenderer) template() (*pongo2.Template, error) {
	r.once.Do(func() {
		source := r.Source
		if source == "" {
			source = DefaultHTMLTemplate
		}
		tpl, err := pongo2.FromString(source)
		if err != nil {
			r.err = export.NewError(export.KindTemplate, "parse html template", err)
			return
		}
		r.tpl = tpl
	})
	return r.tpl, r.err
}
