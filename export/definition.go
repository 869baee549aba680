package export

import (
	"fmt"
	"sort"
	"strings"
)

func (d Definition) detailRange() string {
	if name := strings.TrimSpace(d.DetailRange); name != "" {
		return name
	}
	return DefaultDetailRange
}

func (d Definition) sortedColumns() []ColumnDescriptor {
	cols := append([]ColumnDescriptor(nil), d.Columns...)
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Ordinal < cols[j].Ordinal })
	return cols
}

// Field returns the header field named name.
func (d Definition) Field(name string) (FieldDescriptor, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Column returns the detail column named name.
func (d Definition) Column(name string) (ColumnDescriptor, bool) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnDescriptor{}, false
}

func (f FieldDescriptor) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f FieldDescriptor) section() Section {
	if f.Section == "" {
		return SectionHeader
	}
	return f.Section
}

func (c ColumnDescriptor) label() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// normalize fills derived defaults: range names fall back to field names,
// kinds and sections are canonicalized.
func (d *Definition) normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	if strings.TrimSpace(d.Template) == "" {
		d.Template = d.Name
	}
	if strings.TrimSpace(d.DetailRange) == "" {
		d.DetailRange = DefaultDetailRange
	}

	for i := range d.Fields {
		field := &d.Fields[i]
		field.Name = strings.TrimSpace(field.Name)
		if strings.TrimSpace(field.Range) == "" {
			field.Range = field.Name
		}
		kind, err := ParseValueKind(string(field.Kind))
		if err != nil {
			return NewError(KindValidation, fmt.Sprintf("definition %q field %q", d.Name, field.Name), err)
		}
		field.Kind = kind
		section, err := parseSection(string(field.Section))
		if err != nil {
			return NewError(KindValidation, fmt.Sprintf("definition %q field %q", d.Name, field.Name), err)
		}
		field.Section = section
	}

	for i := range d.Columns {
		col := &d.Columns[i]
		col.Name = strings.TrimSpace(col.Name)
		kind, err := ParseValueKind(string(col.Kind))
		if err != nil {
			return NewError(KindValidation, fmt.Sprintf("definition %q column %q", d.Name, col.Name), err)
		}
		col.Kind = kind
		if col.Width <= 0 {
			col.Width = 1
		}
		if col.Align == "" {
			col.Align = defaultAlign(kind)
		}
	}
	return nil
}

// Validate checks the descriptor tables of a definition.
func (d Definition) Validate() error {
	if d.Name == "" {
		return NewError(KindValidation, "definition name is required", nil)
	}
	if strings.TrimSpace(d.Template) == "" {
		return NewError(KindValidation, fmt.Sprintf("definition %q: template is required", d.Name), nil)
	}

	seen := make(map[string]bool, len(d.Fields))
	for _, field := range d.Fields {
		if field.Name == "" {
			return NewError(KindValidation, fmt.Sprintf("definition %q: field name is required", d.Name), nil)
		}
		if seen[field.Name] {
			return NewError(KindValidation, fmt.Sprintf("definition %q: duplicate field %q", d.Name, field.Name), nil)
		}
		seen[field.Name] = true
		if field.Default != "" {
			if _, err := Coerce(field.Kind, field.Default); err != nil {
				return NewError(KindValidation, fmt.Sprintf("definition %q: default for %q", d.Name, field.Name), err)
			}
		}
	}

	ordinals := make(map[int]bool, len(d.Columns))
	names := make(map[string]bool, len(d.Columns))
	for _, col := range d.Columns {
		if col.Ordinal < 0 {
			return NewError(KindValidation, fmt.Sprintf("definition %q: column %q has negative ordinal", d.Name, col.Name), nil)
		}
		if ordinals[col.Ordinal] {
			return NewError(KindValidation, fmt.Sprintf("definition %q: duplicate column ordinal %d", d.Name, col.Ordinal), nil)
		}
		ordinals[col.Ordinal] = true
		if col.Name != "" {
			if names[col.Name] {
				return NewError(KindValidation, fmt.Sprintf("definition %q: duplicate column %q", d.Name, col.Name), nil)
			}
			names[col.Name] = true
		}
	}
	return nil
}

func parseSection(raw string) (Section, error) {
	switch normalizeKey(raw) {
	case "", "header":
		return SectionHeader, nil
	case "summary", "total":
		return SectionSummary, nil
	case "signature", "signatures", "footer":
		return SectionSignature, nil
	case "hidden", "none":
		return SectionHidden, nil
	default:
		return "", NewError(KindValidation, "unknown section "+quote(raw), nil)
	}
}

func defaultAlign(kind ValueKind) Align {
	switch kind {
	case ValueInteger, ValueDecimal, ValueDate, ValueDateTime:
		return AlignCenter
	default:
		return AlignLeft
	}
}
