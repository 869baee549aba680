package export

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef is a resolved 1-based cell location.
type CellRef struct {
	Sheet string
	Row   int
	Col   int
}

// Cell returns the A1-style name of the cell.
func (c CellRef) Cell() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return ""
	}
	return name
}

// NamedRange is a defined name bound to one cell or a rectangle on one sheet.
type NamedRange struct {
	Name  string
	Sheet string
	Row0  int
	Col0  int
	Row1  int
	Col1  int
}

// TopLeft returns the first cell of the area.
func (r NamedRange) TopLeft() CellRef {
	return CellRef{Sheet: r.Sheet, Row: r.Row0, Col: r.Col0}
}

// ResolveReference parses a range definition such as Sheet1!$B$3 or
// 'My Sheet'!$B$3:$E$3 and returns its top-left cell.
func ResolveReference(refersTo string) (CellRef, error) {
	area, err := ParseNamedRange("", refersTo)
	if err != nil {
		return CellRef{}, err
	}
	return area.TopLeft(), nil
}

// ParseNamedRange parses a range definition into a normalized area.
func ParseNamedRange(name, refersTo string) (NamedRange, error) {
	ref := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(refersTo), "="))
	if ref == "" {
		return NamedRange{}, malformedReference(refersTo, "empty reference")
	}
	if strings.Contains(ref, ",") {
		return NamedRange{}, malformedReference(refersTo, "multi-area references are not supported")
	}

	idx := strings.LastIndex(ref, "!")
	if idx <= 0 || idx == len(ref)-1 {
		return NamedRange{}, malformedReference(refersTo, "expected Sheet!Cell")
	}
	sheet := unquoteSheet(ref[:idx])
	if sheet == "" {
		return NamedRange{}, malformedReference(refersTo, "empty sheet name")
	}

	cells := strings.Split(strings.ReplaceAll(ref[idx+1:], "$", ""), ":")
	if len(cells) > 2 {
		return NamedRange{}, malformedReference(refersTo, "too many range separators")
	}

	col0, row0, err := excelize.CellNameToCoordinates(cells[0])
	if err != nil {
		return NamedRange{}, malformedReference(refersTo, "invalid cell "+quote(cells[0]))
	}
	col1, row1 := col0, row0
	if len(cells) == 2 {
		col1, row1, err = excelize.CellNameToCoordinates(cells[1])
		if err != nil {
			return NamedRange{}, malformedReference(refersTo, "invalid cell "+quote(cells[1]))
		}
	}

	if col1 < col0 {
		col0, col1 = col1, col0
	}
	if row1 < row0 {
		row0, row1 = row1, row0
	}

	return NamedRange{
		Name:  name,
		Sheet: sheet,
		Row0:  row0,
		Col0:  col0,
		Row1:  row1,
		Col1:  col1,
	}, nil
}

func unquoteSheet(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
		raw = strings.ReplaceAll(raw[1:len(raw)-1], "''", "'")
	}
	return raw
}

// definedNames indexes workbook defined names by lower-cased name.
// Workbook-scoped names win over sheet-scoped duplicates.
func definedNames(f *excelize.File) map[string]string {
	out := make(map[string]string)
	for _, dn := range f.GetDefinedName() {
		key := strings.ToLower(strings.TrimSpace(dn.Name))
		if key == "" {
			continue
		}
		global := dn.Scope == "" || strings.EqualFold(dn.Scope, "Workbook")
		if _, exists := out[key]; exists && !global {
			continue
		}
		out[key] = dn.RefersTo
	}
	return out
}

// lookupRange finds and parses a named range. The bool is false when the
// workbook does not define the name.
func lookupRange(f *excelize.File, names map[string]string, name string) (NamedRange, bool, error) {
	refersTo, ok := names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return NamedRange{}, false, nil
	}
	area, err := ParseNamedRange(name, refersTo)
	if err != nil {
		return NamedRange{}, true, err
	}
	if idx, err := f.GetSheetIndex(area.Sheet); err != nil || idx < 0 {
		return NamedRange{}, true, malformedReference(refersTo, "sheet "+quote(area.Sheet)+" not found")
	}
	return area, true, nil
}
