package export

import (
	"testing"
	"time"
)

func TestRenderFilename(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		name    string
		pattern string
		base    string
		format  Format
		want    string
	}{
		{"default pattern", "", "", FormatXLSX, "inventario_abc.xlsx"},
		{"explicit base", "", "anexo04", FormatPDF, "anexo04_abc.pdf"},
		{"custom pattern", "inv_{{.Date}}_{{.ID}}", "", FormatXLSX, "inv_20240102_abc.xlsx"},
		{"extension kept", "{{.Definition}}.{{.Format}}", "", FormatPDF, "inventario.pdf"},
	}
	for _, tc := range cases {
		def := Definition{Name: "inventario", Filename: tc.pattern}
		got, err := renderFilename(def, tc.base, tc.format, "abc", now)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRenderFilenameRejectsEmpty(t *testing.T) {
	def := Definition{Name: "inventario", Filename: "{{if false}}x{{end}}"}
	if _, err := renderFilename(def, "", FormatXLSX, "abc", time.Now()); err == nil {
		t.Fatalf("expected empty filename error")
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"xlsx": FormatXLSX, ".XLSX": FormatXLSX, "excel": FormatXLSX, " pdf ": FormatPDF, ".pdf": FormatPDF} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("csv"); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if FormatPDF.ContentType() != "application/pdf" || Format("txt").ContentType() != "application/octet-stream" {
		t.Fatalf("unexpected content types")
	}
}
