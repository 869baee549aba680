package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// inputLayouts are tried in order when a date arrives as text. ISO forms come
// first since that is what JSON clients send.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	DateTimeLayout,
	DateLayout,
}

// Coerce converts decoded input into a Value of the declared kind.
// nil and blank strings yield a null of that kind.
func Coerce(kind ValueKind, raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(kind), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return Null(kind), nil
		}
	case Value:
		if v.IsNull() {
			return Null(kind), nil
		}
		if v.Kind() != kind {
			return Value{}, NewError(KindValidation, fmt.Sprintf("expected %s value, got %s", kind, v.Kind()), nil)
		}
		return v, nil
	}

	invalid := func() (Value, error) {
		return Value{}, NewError(KindValidation, fmt.Sprintf("invalid %s %v", kind, raw), nil)
	}
	switch kind {
	case ValueInteger:
		d, ok := toDecimal(raw)
		if !ok || !d.IsInteger() || d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
			return invalid()
		}
		return Integer(d.IntPart()), nil
	case ValueDecimal:
		d, ok := toDecimal(raw)
		if !ok {
			return invalid()
		}
		return Decimal(d), nil
	case ValueDate, ValueDateTime:
		t, ok := toTime(raw)
		if !ok {
			return invalid()
		}
		if kind == ValueDate {
			return Date(t), nil
		}
		return DateTime(t), nil
	default:
		return Text(stringify(raw)), nil
	}
}

// toDecimal accepts every numeric shape a JSON or YAML decoder produces, plus
// numeric text.
func toDecimal(raw any) (decimal.Decimal, bool) {
	var (
		d   decimal.Decimal
		err error
	)
	switch v := raw.(type) {
	case decimal.Decimal:
		d = v
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint64:
		d, err = decimal.NewFromString(fmt.Sprint(v))
	case float32:
		return decimal.NewFromFloat32(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v), true
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	default:
		return decimal.Decimal{}, false
	}
	if err != nil || !decimalInRange(d) {
		return decimal.Decimal{}, false
	}
	if d.IsZero() {
		return decimal.Zero, true
	}
	return d, true
}

// toTime treats bare integers as unix seconds.
func toTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		text := strings.TrimSpace(v)
		for _, layout := range inputLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int, int64, json.Number:
		d, ok := toDecimal(v)
		if !ok || !d.IsInteger() {
			return time.Time{}, false
		}
		return time.Unix(d.IntPart(), 0), true
	default:
		return time.Time{}, false
	}
}
