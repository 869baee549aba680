package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

type filenameData struct {
	Base       string
	Definition string
	Format     string
	ID         string
	Date       string
	Timestamp  string
}

const defaultFilenamePattern = "{{.Base}}_{{.ID}}"

func defaultIDGenerator() func() string {
	return func() string {
		return uuid.NewString()
	}
}

// renderFilename builds "<base>_<id>.<ext>" by default. Definitions may
// override the pattern with a text/template over filenameData.
func renderFilename(def Definition, base string, format Format, id string, now time.Time) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = def.Name
	}

	pattern := strings.TrimSpace(def.Filename)
	if pattern == "" {
		pattern = defaultFilenamePattern
	}

	data := filenameData{
		Base:       base,
		Definition: def.Name,
		Format:     string(format),
		ID:         id,
		Date:       now.UTC().Format("20060102"),
		Timestamp:  now.UTC().Format("20060102T150405Z"),
	}

	tmpl, err := template.New("filename").Parse(pattern)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	result := strings.TrimSpace(buf.String())
	if result == "" {
		return "", fmt.Errorf("empty filename")
	}

	ext := "." + string(format)
	if format != "" && !strings.HasSuffix(strings.ToLower(result), ext) {
		result += ext
	}
	return result, nil
}
