package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValueFormat(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	instant := time.Date(2024, 3, 15, 14, 5, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value Value
		loc   *time.Location
		want  string
	}{
		{"text", Text("Archivo Central"), nil, "Archivo Central"},
		{"integer", Integer(42), nil, "42"},
		{"decimal trailing zeros", Decimal(decimal.RequireFromString("1.500")), nil, "1.5"},
		{"decimal whole", Decimal(decimal.RequireFromString("100.00")), nil, "100"},
		{"decimal large", Decimal(decimal.RequireFromString("1E+3")), nil, "1000"},
		{"date", Date(instant), lima, "15/03/2024"},
		{"datetime", DateTime(instant), nil, "15/03/2024 14:05"},
		{"datetime location", DateTime(instant), lima, "15/03/2024 09:05"},
		{"null decimal", Null(ValueDecimal), nil, ""},
		{"zero value", Value{}, nil, ""},
	}
	for _, tc := range cases {
		if got := tc.value.Format(tc.loc); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestValueNullPolicy(t *testing.T) {
	for _, v := range []Value{Null(ValueText), Text(""), Text("  \t"), Null(ValueInteger), Null(ValueDate), {}} {
		if !v.IsNull() {
			t.Fatalf("expected %#v to be null", v)
		}
	}
	for _, v := range []Value{Text("x"), Integer(0), Decimal(decimal.Zero), Date(time.Time{})} {
		if v.IsNull() {
			t.Fatalf("expected %#v to be present", v)
		}
	}
	if (Value{}).Kind() != ValueText {
		t.Fatalf("expected zero value to be text")
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		kind ValueKind
		raw  any
		want string
	}{
		{ValueText, "Archivo", "Archivo"},
		{ValueText, json.Number("12"), "12"},
		{ValueInteger, json.Number("7"), "7"},
		{ValueInteger, float64(3), "3"},
		{ValueInteger, "15", "15"},
		{ValueDecimal, json.Number("2.750"), "2.75"},
		{ValueDecimal, "0.10", "0.1"},
		{ValueDecimal, 4, "4"},
		{ValueDate, "2024-03-15", "15/03/2024"},
		{ValueDate, "15/03/2024", "15/03/2024"},
		{ValueDateTime, "2024-03-15T10:30:00Z", "15/03/2024 10:30"},
		{ValueDateTime, "15/03/2024 10:30", "15/03/2024 10:30"},
	}
	for _, tc := range cases {
		v, err := Coerce(tc.kind, tc.raw)
		if err != nil {
			t.Fatalf("coerce %v as %s: %v", tc.raw, tc.kind, err)
		}
		if v.Kind() != tc.kind {
			t.Fatalf("coerce %v: expected kind %s, got %s", tc.raw, tc.kind, v.Kind())
		}
		if got := v.Format(nil); got != tc.want {
			t.Fatalf("coerce %v as %s: expected %q, got %q", tc.raw, tc.kind, tc.want, got)
		}
	}

	for _, raw := range []any{nil, "", "   "} {
		v, err := Coerce(ValueInteger, raw)
		if err != nil || !v.IsNull() || v.Kind() != ValueInteger {
			t.Fatalf("expected null integer for %#v, got %#v err=%v", raw, v, err)
		}
	}

	bad := []struct {
		kind ValueKind
		raw  any
	}{
		{ValueInteger, "1.5"},
		{ValueInteger, true},
		{ValueDecimal, "abc"},
		{ValueDecimal, "1e40000"},
		{ValueDecimal, json.Number("-1e309")},
		{ValueDecimal, "1e-40000"},
		{ValueInteger, "1e40000"},
		{ValueDate, "yesterday"},
		{ValueDate, Integer(1)},
	}
	for _, tc := range bad {
		if _, err := Coerce(tc.kind, tc.raw); KindFromError(err) != KindValidation {
			t.Fatalf("expected validation error for %v as %s, got %v", tc.raw, tc.kind, err)
		}
	}
}

func TestDecimalStringRange(t *testing.T) {
	for _, raw := range []string{"1e40000", "-1e309", "1e-309", "12345e305"} {
		if _, err := DecimalString(raw); KindFromError(err) != KindValidation {
			t.Fatalf("expected validation error for %s, got %v", raw, err)
		}
	}
	for _, raw := range []string{"1e308", "-9.99e307", "2.5e-3", "1e-308", "0e40000"} {
		if _, err := DecimalString(raw); err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
	}
	v, err := Coerce(ValueDecimal, "0e40000")
	if err != nil || v.Format(nil) != "0" {
		t.Fatalf("expected zero, got %q (%v)", v.Format(nil), err)
	}
}

func TestParseValueKind(t *testing.T) {
	cases := map[string]ValueKind{
		"":          ValueText,
		"String":    ValueText,
		"int":       ValueInteger,
		"number":    ValueDecimal,
		"date":      ValueDate,
		"timestamp": ValueDateTime,
	}
	for raw, want := range cases {
		got, err := ParseValueKind(raw)
		if err != nil || got != want {
			t.Fatalf("parse %q: expected %s, got %s (%v)", raw, want, got, err)
		}
	}
	if _, err := ParseValueKind("blob"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
