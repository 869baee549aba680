package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// detailCheckEvery is how many detail rows are written between context checks.
const detailCheckEvery = 200

// detailLayout is the resolved position of the repeating detail row.
type detailLayout struct {
	sheet    string
	row      int
	firstCol int
	lastCol  int
}

// expandDetails grows the detail-template row into one row per record.
// Row r0 holds the first record; rows r0+1.. are inserted below it and get
// a style-only copy of r0, so content below the block shifts down.
func expandDetails(ctx context.Context, f *excelize.File, names map[string]string, def Definition, req ExportRequest, fc formatContext, logger Logger) error {
	rangeName := def.detailRange()
	area, ok, err := lookupRange(f, names, rangeName)
	if err != nil {
		return err
	}
	if !ok {
		logger.Warnf("export %s: named range %q not in template, details skipped", def.Name, rangeName)
		return nil
	}

	layout := detailLayout{
		sheet:    area.Sheet,
		row:      area.Row0,
		firstCol: area.Col0,
		lastCol:  detailLastColumn(f, area, def),
	}

	if err := clearRow(f, layout); err != nil {
		return err
	}
	n := len(req.Details)
	if n == 0 {
		return nil
	}

	if n > 1 {
		if err := cloneRowStyle(f, layout, n-1); err != nil {
			return err
		}
	}

	for i, record := range req.Details {
		if i%detailCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := writeDetailRow(f, layout, layout.row+i, def.Columns, record, fc); err != nil {
			return err
		}
	}
	logger.Debugf("export %s: %d detail rows written from %s!%d", def.Name, n, layout.sheet, layout.row)
	return nil
}

func writeDetailRow(f *excelize.File, layout detailLayout, row int, columns []ColumnDescriptor, record Row, fc formatContext) error {
	for _, col := range columns {
		value := Null(col.Kind)
		if col.Ordinal < len(record) {
			value = record[col.Ordinal]
		}
		cell, err := excelize.CoordinatesToCellName(layout.firstCol+col.Ordinal, row)
		if err != nil {
			return NewError(KindInternal, "detail cell out of range", err)
		}
		if err := writeValue(f, layout.sheet, cell, value, fc); err != nil {
			return err
		}
	}
	return nil
}

// cloneRowStyle inserts count rows below the template row and copies its
// style ids and height onto them. Style ids are shared, immutable entries of
// the style table, so the template row itself is never modified.
func cloneRowStyle(f *excelize.File, layout detailLayout, count int) error {
	styles := make(map[int]int)
	for col := 1; col <= layout.lastCol; col++ {
		cell, err := excelize.CoordinatesToCellName(col, layout.row)
		if err != nil {
			return NewError(KindInternal, "detail cell out of range", err)
		}
		styleID, err := f.GetCellStyle(layout.sheet, cell)
		if err != nil {
			return NewError(KindInternal, "read template row style", err)
		}
		if styleID != 0 {
			styles[col] = styleID
		}
	}
	height, err := f.GetRowHeight(layout.sheet, layout.row)
	if err != nil {
		return NewError(KindInternal, "read template row height", err)
	}

	if err := f.InsertRows(layout.sheet, layout.row+1, count); err != nil {
		return NewError(KindInternal, fmt.Sprintf("insert %d detail rows", count), err)
	}

	for i := 1; i <= count; i++ {
		row := layout.row + i
		if err := f.SetRowHeight(layout.sheet, row, height); err != nil {
			return NewError(KindInternal, "set detail row height", err)
		}
		for col, styleID := range styles {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return NewError(KindInternal, "detail cell out of range", err)
			}
			if err := f.SetCellStyle(layout.sheet, cell, cell, styleID); err != nil {
				return NewError(KindInternal, "copy detail row style", err)
			}
		}
	}
	return nil
}

// clearRow blanks every valued cell of the template row and keeps styles.
func clearRow(f *excelize.File, layout detailLayout) error {
	for col := 1; col <= layout.lastCol; col++ {
		cell, err := excelize.CoordinatesToCellName(col, layout.row)
		if err != nil {
			return NewError(KindInternal, "detail cell out of range", err)
		}
		value, err := f.GetCellValue(layout.sheet, cell, excelize.Options{RawCellValue: true})
		if err != nil {
			return NewError(KindInternal, "read template row", err)
		}
		formula, _ := f.GetCellFormula(layout.sheet, cell)
		if value == "" && formula == "" {
			continue
		}
		if err := blankCell(f, layout.sheet, cell); err != nil {
			return NewError(KindInternal, "clear template row", err)
		}
	}
	return nil
}

// detailLastColumn is the widest of the template area, the descriptor
// columns and the sheet's used range.
func detailLastColumn(f *excelize.File, area NamedRange, def Definition) int {
	last := area.Col1
	for _, col := range def.Columns {
		if c := area.Col0 + col.Ordinal; c > last {
			last = c
		}
	}
	if dim, err := f.GetSheetDimension(area.Sheet); err == nil && dim != "" {
		if used, err := ParseNamedRange("", area.Sheet+"!"+dim); err == nil && used.Col1 > last {
			last = used.Col1
		}
	}
	return last
}
