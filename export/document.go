package export

// Line is one "label: value" entry of a rendered document.
type Line struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// TableColumn describes one detail table column.
type TableColumn struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Width float64 `json:"width"`
	Align Align   `json:"align"`
}

// Document is the format-neutral content of an export. PDF engines draw it;
// it holds the same values the workbook path writes.
type Document struct {
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle"`
	Header     []Line        `json:"header"`
	Columns    []TableColumn `json:"columns"`
	Rows       [][]string    `json:"rows"`
	Summary    []Line        `json:"summary"`
	Signatures []Line        `json:"signatures"`
	Footer     string        `json:"footer"`
}

// BuildDocument formats a request against its definition.
func BuildDocument(def Definition, req ExportRequest) Document {
	return buildDocument(def, req, formatContext{})
}

func buildDocument(def Definition, req ExportRequest, fc formatContext) Document {
	doc := Document{
		Title:    def.Title,
		Subtitle: def.Subtitle,
		Footer:   def.Footer,
	}

	for _, field := range def.Fields {
		line := Line{
			Name:  field.Name,
			Label: field.label(),
			Value: fc.format(headerValue(field, req)),
		}
		switch field.section() {
		case SectionSummary:
			doc.Summary = append(doc.Summary, line)
		case SectionSignature:
			doc.Signatures = append(doc.Signatures, line)
		case SectionHidden:
		default:
			doc.Header = append(doc.Header, line)
		}
	}

	columns := def.sortedColumns()
	for _, col := range columns {
		doc.Columns = append(doc.Columns, TableColumn{
			Name:  col.Name,
			Label: col.label(),
			Width: col.Width,
			Align: col.Align,
		})
	}

	doc.Rows = make([][]string, 0, len(req.Details))
	for _, record := range req.Details {
		cells := make([]string, len(columns))
		for i, col := range columns {
			if col.Ordinal < len(record) {
				cells[i] = fc.format(record[col.Ordinal])
			}
		}
		doc.Rows = append(doc.Rows, cells)
	}
	return doc
}
