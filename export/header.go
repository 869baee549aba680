package export

import (
	"github.com/xuri/excelize/v2"
)

// mergeHeader writes each header field into the cell its named range points
// at. Fields whose range is absent are logged and skipped.
func mergeHeader(f *excelize.File, names map[string]string, def Definition, req ExportRequest, fc formatContext, logger Logger) error {
	for _, field := range def.Fields {
		area, ok, err := lookupRange(f, names, field.Range)
		if err != nil {
			return err
		}
		if !ok {
			logger.Debugf("export %s: named range %q not in template, field %s skipped", def.Name, field.Range, field.Name)
			continue
		}
		ref := area.TopLeft()
		if err := writeValue(f, ref.Sheet, ref.Cell(), headerValue(field, req), fc); err != nil {
			return err
		}
	}
	return nil
}

// headerValue applies the field's declared default when the request value is null.
func headerValue(field FieldDescriptor, req ExportRequest) Value {
	value, ok := req.Header[field.Name]
	if ok && !value.IsNull() {
		return value
	}
	if field.Default != "" {
		if def, err := Coerce(field.Kind, field.Default); err == nil {
			return def
		}
	}
	return Null(field.Kind)
}
