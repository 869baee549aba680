package export

import (
	"github.com/xuri/excelize/v2"
)

// serialize flattens the workbook into bytes and releases it.
func serialize(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	closeErr := f.Close()
	if err != nil {
		return nil, NewError(KindSerialize, "write workbook", err)
	}
	if closeErr != nil {
		return nil, NewError(KindSerialize, "close workbook", closeErr)
	}
	return buf.Bytes(), nil
}
