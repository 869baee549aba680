package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	ValueText     ValueKind = "text"
	ValueInteger  ValueKind = "integer"
	ValueDecimal  ValueKind = "decimal"
	ValueDate     ValueKind = "date"
	ValueDateTime ValueKind = "datetime"
)

// Fixed layouts for date values.
const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
)

// ParseValueKind normalizes a kind name. Empty input means text.
func ParseValueKind(raw string) (ValueKind, error) {
	switch normalizeKey(raw) {
	case "", "text", "string":
		return ValueText, nil
	case "integer", "int", "int64":
		return ValueInteger, nil
	case "decimal", "number", "numeric", "float":
		return ValueDecimal, nil
	case "date":
		return ValueDate, nil
	case "datetime", "timestamp":
		return ValueDateTime, nil
	default:
		return "", NewError(KindValidation, "unknown value kind "+quote(raw), nil)
	}
}

// Value is a tagged union of the cell value kinds. The zero Value is a null text.
type Value struct {
	kind  ValueKind
	valid bool
	text  string
	num   int64
	dec   decimal.Decimal
	when  time.Time
}

func Text(s string) Value { return Value{kind: ValueText, valid: true, text: s} }

func Integer(n int64) Value { return Value{kind: ValueInteger, valid: true, num: n} }

func Decimal(d decimal.Decimal) Value { return Value{kind: ValueDecimal, valid: true, dec: d} }

func Date(t time.Time) Value { return Value{kind: ValueDate, valid: true, when: t} }

func DateTime(t time.Time) Value { return Value{kind: ValueDateTime, valid: true, when: t} }

// Null returns an absent value of the given kind.
func Null(kind ValueKind) Value { return Value{kind: kind} }

// maxDecimalExponent keeps decimals within what a float64 cell can hold.
const maxDecimalExponent = 308

// DecimalString parses a decimal literal. Literals beyond ±1e308 or finer
// than 1e-308 are rejected.
func DecimalString(s string) (Value, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Value{}, NewError(KindValidation, "invalid decimal "+quote(s), err)
	}
	if !decimalInRange(d) {
		return Value{}, NewError(KindValidation, "decimal out of range "+quote(s), nil)
	}
	return Decimal(d), nil
}

func decimalInRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := int64(d.Exponent())
	return exp >= -maxDecimalExponent && exp+int64(d.NumDigits())-1 <= maxDecimalExponent
}

// Kind reports the variant.
func (v Value) Kind() ValueKind {
	if v.kind == "" {
		return ValueText
	}
	return v.kind
}

// IsNull reports whether the value blanks its cell. Blank text counts as null.
func (v Value) IsNull() bool {
	if !v.valid {
		return true
	}
	if v.Kind() == ValueText {
		return strings.TrimSpace(v.text) == ""
	}
	return false
}

// Format renders the value as report text. DateTime values are shown in loc
// when it is set; Date values are calendar days and never shifted.
func (v Value) Format(loc *time.Location) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case ValueInteger:
		return strconv.FormatInt(v.num, 10)
	case ValueDecimal:
		return formatDecimal(v.dec)
	case ValueDate:
		return v.when.Format(DateLayout)
	case ValueDateTime:
		t := v.when
		if loc != nil {
			t = t.In(loc)
		}
		return t.Format(DateTimeLayout)
	default:
		return v.text
	}
}

func (v Value) String() string {
	return v.Format(nil)
}

// formatDecimal strips trailing zeros and never uses exponent notation.
func formatDecimal(d decimal.Decimal) string {
	return d.String()
}
