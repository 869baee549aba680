package exportpdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

// WKHTMLTOPDFEngine pipes report HTML through the wkhtmltopdf binary. Env is
// appended to the process environment.
type WKHTMLTOPDFEngine struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

// Render feeds req.HTML on stdin and reads the PDF from stdout.
func (e WKHTMLTOPDFEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	bin := strings.TrimSpace(e.Command)
	if bin == "" {
		bin = "wkhtmltopdf"
	}
	args := append(append([]string{}, e.Args...), wkhtmltopdfPageArgs(req.Page)...)
	cmd := exec.CommandContext(ctx, bin, append(args, "--quiet", "-", "-")...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(req.HTML)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = bin + " exited without output"
		}
		return nil, export.NewError(export.KindRender, msg, err)
	}
	return stdout.Bytes(), nil
}

// wkhtmltopdfPageArgs maps page options onto command flags in a fixed order.
func wkhtmltopdfPageArgs(page PageOptions) []string {
	args := []string{"--page-size", page.pageSize()}
	if page.landscape() {
		args = append(args, "--orientation", "Landscape")
	} else {
		args = append(args, "--orientation", "Portrait")
	}
	margins := [][2]string{
		{"--margin-top", page.MarginTop},
		{"--margin-right", page.MarginRight},
		{"--margin-bottom", page.MarginBottom},
		{"--margin-left", page.MarginLeft},
	}
	for _, m := range margins {
		if m[1] != "" {
			args = append(args, m[0], m[1])
		}
	}
	if page.BlockExternalAssets {
		args = append(args, "--disable-external-links", "--disable-local-file-access")
	}
	if page.PrintBackground != nil && !*page.PrintBackground {
		args = append(args, "--no-background")
	}
	return args
}
