package export

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

type scaffoldStyles struct {
	title  int
	label  int
	value  int
	header int
	detail map[Align]int
}

// Scaffold builds a starter template for def: a label and named value cell
// per field, a column header row and a bordered detail row named by the
// definition's detail range. Summary and signature fields go below the
// detail row.
func Scaffold(def Definition) (*excelize.File, error) {
	if err := def.normalize(); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := strings.TrimSpace(def.SheetName)
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		f.SetSheetName("Sheet1", sheet)
	}

	styles, err := newScaffoldStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	lastCol := def.rowWidth()
	if lastCol < 2 {
		lastCol = 2
	}
	lastColName, _ := excelize.ColumnNumberToName(lastCol)

	fail := func(err error) (*excelize.File, error) {
		_ = f.Close()
		return nil, NewError(KindInternal, "scaffold template "+quote(def.Name), err)
	}

	row := 1
	for _, text := range []string{def.Title, def.Subtitle} {
		if strings.TrimSpace(text) == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(lastCol, row)
		if err := f.SetCellStr(sheet, cell, text); err != nil {
			return fail(err)
		}
		if err := f.MergeCell(sheet, cell, end); err != nil {
			return fail(err)
		}
		if err := f.SetCellStyle(sheet, cell, end, styles.title); err != nil {
			return fail(err)
		}
		row++
	}
	row++

	var trailing []FieldDescriptor
	for _, field := range def.Fields {
		switch field.section() {
		case SectionSummary, SectionSignature:
			trailing = append(trailing, field)
			continue
		}
		if err := scaffoldField(f, sheet, row, field, styles); err != nil {
			return fail(err)
		}
		row++
	}
	row++

	columns := def.sortedColumns()
	for _, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(1+col.Ordinal, row)
		if err := f.SetCellStr(sheet, cell, col.label()); err != nil {
			return fail(err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return fail(err)
		}
	}
	row++

	for _, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(1+col.Ordinal, row)
		if err := f.SetCellStyle(sheet, cell, cell, styles.detail[col.Align]); err != nil {
			return fail(err)
		}
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     def.detailRange(),
		RefersTo: absoluteRange(sheet, 1, row, lastCol, row),
	}); err != nil {
		return fail(err)
	}
	row += 2

	for _, field := range trailing {
		if err := scaffoldField(f, sheet, row, field, styles); err != nil {
			return fail(err)
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", lastColName, 18); err != nil {
		return fail(err)
	}
	return f, nil
}

// ScaffoldBytes returns the scaffolded template as workbook bytes.
func ScaffoldBytes(def Definition) ([]byte, error) {
	f, err := Scaffold(def)
	if err != nil {
		return nil, err
	}
	return serialize(f)
}

func scaffoldField(f *excelize.File, sheet string, row int, field FieldDescriptor, styles scaffoldStyles) error {
	label, _ := excelize.CoordinatesToCellName(1, row)
	value, _ := excelize.CoordinatesToCellName(2, row)
	if err := f.SetCellStr(sheet, label, field.label()+":"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, label, label, styles.label); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, value, value, styles.value); err != nil {
		return err
	}
	return f.SetDefinedName(&excelize.DefinedName{
		Name:     field.Range,
		RefersTo: absoluteRange(sheet, 2, row, 2, row),
	})
}

func newScaffoldStyles(f *excelize.File) (scaffoldStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	out := scaffoldStyles{detail: make(map[Align]int)}
	var err error

	if out.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return out, err
	}
	if out.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return out, err
	}
	if out.value, err = f.NewStyle(&excelize.Style{
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	}); err != nil {
		return out, err
	}
	if out.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    border,
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return out, err
	}
	for _, align := range []Align{AlignLeft, AlignCenter, AlignRight} {
		id, err := f.NewStyle(&excelize.Style{
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: string(align), Vertical: "top", WrapText: true},
		})
		if err != nil {
			return out, err
		}
		out.detail[align] = id
	}
	return out, nil
}

// absoluteRange formats a defined-name reference, quoting the sheet when needed.
func absoluteRange(sheet string, col0, row0, col1, row1 int) string {
	start, _ := excelize.CoordinatesToCellName(col0, row0, true)
	ref := quoteSheet(sheet) + "!" + start
	if col1 != col0 || row1 != row0 {
		end, _ := excelize.CoordinatesToCellName(col1, row1, true)
		ref += ":" + end
	}
	return ref
}

func quoteSheet(sheet string) string {
	if strings.ContainsAny(sheet, " '!-()") {
		return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet
}
