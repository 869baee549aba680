package export

import (
	"fmt"
)

// RawRequest is an undecoded export request, as read from JSON or YAML.
// Detail rows are either objects keyed by column name or arrays indexed by
// column ordinal.
type RawRequest struct {
	Definition string         `json:"definition,omitempty" yaml:"definition,omitempty"`
	Header     map[string]any `json:"header" yaml:"header"`
	Details    []any          `json:"details" yaml:"details"`
}

// DecodeRequest coerces raw input by the kinds declared in def.
func DecodeRequest(def Definition, raw RawRequest) (ExportRequest, error) {
	req := ExportRequest{
		Definition: def.Name,
		Header:     make(map[string]Value, len(raw.Header)),
		Details:    make([]Row, 0, len(raw.Details)),
	}

	for name, input := range raw.Header {
		field, ok := def.Field(name)
		if !ok {
			return ExportRequest{}, NewError(KindValidation, fmt.Sprintf("unknown header field %q", name), nil)
		}
		value, err := Coerce(field.Kind, input)
		if err != nil {
			return ExportRequest{}, NewError(KindValidation, fmt.Sprintf("header field %q", name), err)
		}
		req.Header[name] = value
	}

	width := def.rowWidth()
	for i, input := range raw.Details {
		row := make(Row, width)
		for _, col := range def.Columns {
			row[col.Ordinal] = Null(col.Kind)
		}
		switch record := input.(type) {
		case map[string]any:
			for name, cell := range record {
				col, ok := def.Column(name)
				if !ok {
					return ExportRequest{}, NewError(KindValidation, fmt.Sprintf("detail %d: unknown column %q", i, name), nil)
				}
				value, err := Coerce(col.Kind, cell)
				if err != nil {
					return ExportRequest{}, NewError(KindValidation, fmt.Sprintf("detail %d column %q", i, name), err)
				}
				row[col.Ordinal] = value
			}
		case []any:
			if len(record) > width {
				return ExportRequest{}, NewError(KindValidation, fmt.Sprintf("detail %d: %d values for %d columns", i, len(record), width), nil)
			}
			for _, col := range def.Columns {
				if col.Ordinal >= len(record) {
					continue
				}
				value, err := Coerce(col.Kind, record[col.Ordinal])
				if err != nil {
					return ExportRequest{}, NewError(KindValidation, fmt.Sprintf("detail %d column %q", i, col.Name), err)
				}
				row[col.Ordinal] = value
			}
		default:
			return ExportRequest{}, NewError(KindValidation, fmt.Sprintf("detail %d: expected object or array", i), nil)
		}
		req.Details = append(req.Details, row)
	}
	return req, nil
}

// validateRequest checks that every supplied value matches its descriptor.
func validateRequest(def Definition, req ExportRequest) error {
	for name, value := range req.Header {
		field, ok := def.Field(name)
		if !ok {
			return NewError(KindValidation, fmt.Sprintf("unknown header field %q", name), nil)
		}
		if !value.IsNull() && value.Kind() != field.Kind {
			return NewError(KindValidation, fmt.Sprintf("header field %q: expected %s, got %s", name, field.Kind, value.Kind()), nil)
		}
		if !inRange(value) {
			return NewError(KindValidation, fmt.Sprintf("header field %q: decimal out of range", name), nil)
		}
	}

	width := def.rowWidth()
	for i, row := range req.Details {
		if len(row) > width {
			return NewError(KindValidation, fmt.Sprintf("detail %d: %d values for %d columns", i, len(row), width), nil)
		}
		for _, col := range def.Columns {
			if col.Ordinal >= len(row) {
				continue
			}
			value := row[col.Ordinal]
			if !value.IsNull() && value.Kind() != col.Kind {
				return NewError(KindValidation, fmt.Sprintf("detail %d column %q: expected %s, got %s", i, col.Name, col.Kind, value.Kind()), nil)
			}
			if !inRange(value) {
				return NewError(KindValidation, fmt.Sprintf("detail %d column %q: decimal out of range", i, col.Name), nil)
			}
		}
	}
	return nil
}

func inRange(v Value) bool {
	return v.IsNull() || v.Kind() != ValueDecimal || decimalInRange(v.dec)
}

// rowWidth is one past the highest column ordinal.
func (d Definition) rowWidth() int {
	width := 0
	for _, col := range d.Columns {
		if col.Ordinal+1 > width {
			width = col.Ordinal + 1
		}
	}
	return width
}
