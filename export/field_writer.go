package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// writeValue stores value at cell. Every kind goes through the same null
// check, so a null always blanks the cell and keeps its style.
func writeValue(f *excelize.File, sheet, cell string, value Value, fc formatContext) error {
	var err error
	if value.IsNull() {
		err = blankCell(f, sheet, cell)
	} else {
		switch value.Kind() {
		case ValueInteger:
			err = f.SetCellValue(sheet, cell, value.num)
		case ValueDecimal:
			err = f.SetCellDefault(sheet, cell, formatDecimal(value.dec))
		case ValueDate, ValueDateTime:
			err = f.SetCellStr(sheet, cell, fc.format(value))
		default:
			err = f.SetCellStr(sheet, cell, value.text)
		}
	}
	if err != nil {
		return NewError(KindInternal, fmt.Sprintf("write %s!%s", sheet, cell), err)
	}
	return nil
}

// blankCell clears value and formula; the cell keeps its style id.
func blankCell(f *excelize.File, sheet, cell string) error {
	if formula, err := f.GetCellFormula(sheet, cell); err == nil && formula != "" {
		if err := f.SetCellFormula(sheet, cell, ""); err != nil {
			return err
		}
	}
	return f.SetCellDefault(sheet, cell, "")
}
