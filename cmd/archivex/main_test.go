package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestScaffoldCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "", "scaffold", "--templates", dir)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three templates, got %q", out)
	}
	for _, line := range lines {
		if _, err := os.Stat(line); err != nil {
			t.Fatalf("template %s missing: %v", line, err)
		}
	}

	again, err := runCLI(t, "", "scaffold", "--templates", dir, "--type", "transfer_catalog")
	if err != nil || strings.TrimSpace(again) != "" {
		t.Fatalf("existing templates should be skipped, got %q (%v)", again, err)
	}
}

func TestExportCommandXLSX(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "inventario.json")
	body := `{"header": {"unidadAdministrativa": "Archivo Central"}, "details": [{"numeroItem": 1, "serieDocumental": "Actas"}]}`
	if err := os.WriteFile(input, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	templates := filepath.Join(dir, "templates")
	if _, err := runCLI(t, "", "export", "--type", "general_inventory", "--input", input, "--out", outDir, "--templates", templates); err == nil {
		t.Fatalf("expected missing template error without --scaffold-missing")
	}

	out, err := runCLI(t, "", "export", "--type", "general_inventory", "--input", input, "--out", outDir, "--templates", templates, "--scaffold-missing")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimSpace(out)
	if !strings.HasPrefix(filepath.Base(path), "inventario_general_") || filepath.Ext(path) != ".xlsx" {
		t.Fatalf("unexpected output path %q", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Inventario General", "B19"); got != "Actas" {
		t.Fatalf("expected detail row in output, got %q", got)
	}
}

func TestExportCommandPDFFromYAMLStdin(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "registro.yaml")
	body := "header:\n  nombreEntidad: Universidad Nacional\ndetails:\n  - [1, Actas]\n"
	if err := os.WriteFile(input, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	out, err := runCLI(t, "", "export", "-t", "transfer_register", "-f", "pdf", "-i", input, "-o", dir, "--base", "registro")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf output")
	}
	if !strings.HasPrefix(filepath.Base(strings.TrimSpace(out)), "registro_") {
		t.Fatalf("expected base in filename, got %q", out)
	}
}

func TestExportCommandErrors(t *testing.T) {
	if _, err := runCLI(t, "{}", "export", "--type", "ledger"); err == nil {
		t.Fatalf("expected unknown type error")
	}
	if _, err := runCLI(t, "{", "export", "--type", "general_inventory", "--out", t.TempDir()); err == nil {
		t.Fatalf("expected invalid json error")
	}
	if _, err := runCLI(t, "{}", "export", "--type", "general_inventory", "--format", "csv"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestDefinitionsCommand(t *testing.T) {
	out, err := runCLI(t, "", "definitions")
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	for _, name := range []string{"general_inventory", "transfer_register", "transfer_catalog"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in %q", name, out)
		}
	}

	yamlOut, err := runCLI(t, "", "definitions", "transfer_catalog")
	if err != nil {
		t.Fatalf("definitions yaml: %v", err)
	}
	if !strings.Contains(yamlOut, "name: transfer_catalog") {
		t.Fatalf("expected descriptor yaml, got %q", yamlOut)
	}
}
