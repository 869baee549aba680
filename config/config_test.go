package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func lookupMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.PDF.Engine != EngineGoFPDF || !cfg.PDF.Landscape() {
		t.Fatalf("unexpected pdf defaults %+v", cfg.PDF)
	}
	if cfg.Export.ScaffoldMissing {
		t.Fatalf("template scaffolding should be opt-in")
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr())
	}
}

func TestApply(t *testing.T) {
	cfg := Defaults()
	err := cfg.Apply(lookupMap(map[string]string{
		"PORT":                     "9090",
		"EXPORT_ARTIFACT_DIR":      "/tmp/artifacts",
		"EXPORT_SCAFFOLD_MISSING":  "true",
		"EXPORT_PDF_ENGINE":        "chromium",
		"EXPORT_PDF_ORIENTATION":   "portrait",
		"EXPORT_PDF_CHROMIUM_ARGS": "--no-sandbox, ,--disable-gpu",
		"EXPORT_PDF_TIMEOUT":       "45",
		"EXPORT_SHUTDOWN_TIMEOUT":  "1m30s",
		"LOG_LEVEL":                "  ",
	}))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Export.ArtifactDir != "/tmp/artifacts" || !cfg.Export.ScaffoldMissing {
		t.Fatalf("unexpected export config %+v %+v", cfg.Server, cfg.Export)
	}
	if cfg.PDF.Engine != EngineChromium || cfg.PDF.Landscape() {
		t.Fatalf("unexpected pdf config %+v", cfg.PDF)
	}
	if !reflect.DeepEqual(cfg.PDF.Args, []string{"--no-sandbox", "--disable-gpu"}) {
		t.Fatalf("unexpected args %v", cfg.PDF.Args)
	}
	if cfg.PDF.Timeout != 45*time.Second || cfg.Server.ShutdownTimeout != 90*time.Second {
		t.Fatalf("unexpected timeouts %v %v", cfg.PDF.Timeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("blank values should keep defaults, got %q", cfg.Log.Level)
	}
}

func TestApplyRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bool":        {"EXPORT_PDF_HEADLESS": "sometimes"},
		"int":         {"EXPORT_MAX_BODY_BYTES": "lots"},
		"duration":    {"EXPORT_PDF_TIMEOUT": "soon"},
		"engine":      {"EXPORT_PDF_ENGINE": "latex"},
		"orientation": {"EXPORT_PDF_ORIENTATION": "diagonal"},
		"timezone":    {"EXPORT_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		cfg := Defaults()
		if err := cfg.Apply(lookupMap(env)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	if err := os.WriteFile(file, []byte("EXPORT_PDF_PAGE_SIZE=LETTER\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("EXPORT_PDF_PAGE_SIZE") })

	cfg, err := Load(filepath.Join(dir, "missing.env"), file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PDF.PageSize != "LETTER" {
		t.Fatalf("expected page size from env file, got %q", cfg.PDF.PageSize)
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" a ,b,, c")
	if strings.Join(got, "|") != "a|b|c" {
		t.Fatalf("unexpected split %v", got)
	}
}
