// Package config holds runtime settings for the archivex binaries.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds the binary configuration.
type Config struct {
	Server ServerConfig
	Export ExportConfig
	PDF    PDFConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host     string
	Port     string
	BasePath string
	// CORSOrigins is passed to the cors middleware as is.
	CORSOrigins     string
	ShutdownTimeout time.Duration
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// ExportConfig holds export-specific settings.
type ExportConfig struct {
	TemplateDir   string
	DefinitionDir string
	// ArtifactDir enables the artifact store when set.
	ArtifactDir string
	Timezone    string
	// ScaffoldMissing serves a generated template when a workbook is not
	// found in TemplateDir. Off by default so a missing template is reported
	// as not found.
	ScaffoldMissing bool
	MaxBodyBytes    int64
}

// PDFConfig selects and tunes the PDF engine.
type PDFConfig struct {
	Engine          string
	PageSize        string
	Orientation     string
	ChromiumPath    string
	Headless        bool
	Args            []string
	Timeout         time.Duration
	WKHTMLTOPDFPath string
	TemplatePath    string
	BaseURL         string
}

// LogConfig configures the zerolog adapter.
type LogConfig struct {
	Level  string
	Format string
}

// PDF engines.
const (
	EngineGoFPDF      = "gofpdf"
	EngineChromium    = "chromium"
	EngineWKHTMLTOPDF = "wkhtmltopdf"
	EngineNone        = "none"
)

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			BasePath:        "/api/exports",
			CORSOrigins:     "*",
			ShutdownTimeout: 10 * time.Second,
		},
		Export: ExportConfig{
			TemplateDir:     "./templates",
			Timezone:        "America/Lima",
			ScaffoldMissing: false,
			MaxBodyBytes:    4 << 20,
		},
		PDF: PDFConfig{
			Engine:      EngineGoFPDF,
			PageSize:    "A4",
			Orientation: "landscape",
			Headless:    true,
			Timeout:     30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the given env files, or ".env" when none are named, and applies
// environment overrides on top of Defaults. Missing files are skipped.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load env file %s: %w", file, err)
		}
	}
	cfg := Defaults()
	if err := cfg.Apply(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply overrides cfg from lookup, which is usually os.LookupEnv.
func (c *Config) Apply(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.str("HOST", &c.Server.Host)
	env.str("PORT", &c.Server.Port)
	env.str("EXPORT_BASE_PATH", &c.Server.BasePath)
	env.str("EXPORT_CORS_ORIGINS", &c.Server.CORSOrigins)
	env.duration("EXPORT_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	env.str("EXPORT_TEMPLATE_DIR", &c.Export.TemplateDir)
	env.str("EXPORT_DEFINITION_DIR", &c.Export.DefinitionDir)
	env.str("EXPORT_ARTIFACT_DIR", &c.Export.ArtifactDir)
	env.str("EXPORT_TIMEZONE", &c.Export.Timezone)
	env.boolean("EXPORT_SCAFFOLD_MISSING", &c.Export.ScaffoldMissing)
	env.int64("EXPORT_MAX_BODY_BYTES", &c.Export.MaxBodyBytes)

	env.str("EXPORT_PDF_ENGINE", &c.PDF.Engine)
	env.str("EXPORT_PDF_PAGE_SIZE", &c.PDF.PageSize)
	env.str("EXPORT_PDF_ORIENTATION", &c.PDF.Orientation)
	env.str("EXPORT_PDF_CHROMIUM_PATH", &c.PDF.ChromiumPath)
	env.boolean("EXPORT_PDF_HEADLESS", &c.PDF.Headless)
	env.list("EXPORT_PDF_CHROMIUM_ARGS", &c.PDF.Args)
	env.duration("EXPORT_PDF_TIMEOUT", &c.PDF.Timeout)
	env.str("EXPORT_WKHTMLTOPDF_PATH", &c.PDF.WKHTMLTOPDFPath)
	env.str("EXPORT_PDF_TEMPLATE", &c.PDF.TemplatePath)
	env.str("EXPORT_PDF_BASE_URL", &c.PDF.BaseURL)

	env.str("LOG_LEVEL", &c.Log.Level)
	env.str("LOG_FORMAT", &c.Log.Format)

	if env.err != nil {
		return env.err
	}
	return c.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.PDF.Engine) {
	case EngineGoFPDF, EngineChromium, EngineWKHTMLTOPDF, EngineNone:
	default:
		return fmt.Errorf("unknown pdf engine %q", c.PDF.Engine)
	}
	switch strings.ToLower(c.PDF.Orientation) {
	case "landscape", "portrait":
	default:
		return fmt.Errorf("unknown page orientation %q", c.PDF.Orientation)
	}
	if _, err := time.LoadLocation(c.Export.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Export.Timezone, err)
	}
	return nil
}

// Landscape reports whether pages are wide.
func (p PDFConfig) Landscape() bool {
	return !strings.EqualFold(p.Orientation, "portrait")
}

// envReader collects the first parse error so Apply reads straight through.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	if e.lookup == nil {
		return "", false
	}
	value, ok := e.lookup(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (e *envReader) fail(key, value string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%s=%q: %w", key, value, err)
	}
}

func (e *envReader) str(key string, dst *string) {
	if value, ok := e.get(key); ok {
		*dst = value
	}
}

func (e *envReader) boolean(key string, dst *bool) {
	value, ok := e.get(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	*dst = parsed
}

func (e *envReader) int64(key string, dst *int64) {
	value, ok := e.get(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	*dst = parsed
}

// duration accepts Go durations or a bare number of seconds.
func (e *envReader) duration(key string, dst *time.Duration) {
	value, ok := e.get(key)
	if !ok {
		return
	}
	if secs, err := strconv.Atoi(value); err == nil {
		*dst = time.Duration(secs) * time.Second
		return
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	*dst = parsed
}

func (e *envReader) list(key string, dst *[]string) {
	if value, ok := e.get(key); ok {
		*dst = SplitCSV(value)
	}
}

// SplitCSV splits a comma separated list, dropping blanks.
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
