package exportpdf

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

// chromiumForTest starts a headless engine from CHROME_BIN or the first
// browser on PATH and skips when none is installed.
func chromiumForTest(t *testing.T) *ChromiumEngine {
	t.Helper()
	if testing.Short() {
		t.Skip("chromium tests are slow")
	}
	bin := os.Getenv("CHROME_BIN")
	for _, candidate := range []string{"chromium", "chromium-browser", "google-chrome"} {
		if bin != "" {
			break
		}
		bin, _ = exec.LookPath(candidate)
	}
	if bin == "" {
		t.Skip("no chromium binary; set CHROME_BIN")
	}
	engine := &ChromiumEngine{
		BrowserPath: bin,
		Headless:    true,
		Timeout:     15 * time.Second,
		Args:        []string{"--no-sandbox", "--disable-dev-shm-usage"},
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func TestParseLengthInches(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "1in", want: 1},
		{input: "25.4mm", want: 1},
		{input: "2.54cm", want: 1},
		{input: "72pt", want: 1},
		{input: "96px", want: 1},
		{input: "2", want: 2},
	}

	for _, tc := range tests {
		got, err := parseLengthInches(tc.input)
		if err != nil {
			t.Fatalf("parseLengthInches(%q): %v", tc.input, err)
		}
		if diff := got - tc.want; diff > 0.0001 || diff < -0.0001 {
			t.Fatalf("parseLengthInches(%q): expected %f, got %f", tc.input, tc.want, got)
		}
	}
}

func TestPrintParams_PageSize(t *testing.T) {
	params, err := printParams(PageOptions{
		PageSize:        "a4",
		PrintBackground: boolPtr(true),
		MarginTop:       "10mm",
		MarginLeft:      "1in",
	})
	if err != nil {
		t.Fatalf("printParams: %v", err)
	}
	if params.PaperWidth == 0 || params.PaperHeight == 0 {
		t.Fatalf("expected paper size to be set, got width=%f height=%f", params.PaperWidth, params.PaperHeight)
	}
	if params.MarginTop == 0 || params.MarginLeft != 1 {
		t.Fatalf("expected margins to be set, got top=%f left=%f", params.MarginTop, params.MarginLeft)
	}
	if !params.PrintBackground {
		t.Fatalf("expected print background true")
	}
}

func TestPrintParams_Rejects(t *testing.T) {
	cases := map[string]PageOptions{
		"scale":  {Scale: 3},
		"size":   {PageSize: "B9"},
		"margin": {MarginTop: "3furlongs"},
	}
	for name, opts := range cases {
		if _, err := printParams(opts); export.KindFromError(err) != export.KindValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestPageOptionsMerge(t *testing.T) {
	base := PageOptions{PageSize: "A4", Landscape: boolPtr(true), MarginTop: "10mm"}
	merged := base.Merge(PageOptions{Landscape: boolPtr(false), MarginLeft: "5mm", BlockExternalAssets: true})
	if merged.PageSize != "A4" || merged.MarginTop != "10mm" || merged.MarginLeft != "5mm" {
		t.Fatalf("unexpected merge result %+v", merged)
	}
	if merged.landscape() || !merged.BlockExternalAssets {
		t.Fatalf("expected overrides to apply, got %+v", merged)
	}
	if !(PageOptions{}).landscape() || (PageOptions{}).pageSize() != "A4" {
		t.Fatalf("expected landscape A4 defaults")
	}
}

func TestChromiumEngine_PrintsInventory(t *testing.T) {
	engine := chromiumForTest(t)

	buf := &bytes.Buffer{}
	renderer := Renderer{Enabled: true, Engine: engine, Page: PageOptions{PageSize: "A4"}}
	if err := renderer.RenderPDF(context.Background(), sampleDocument(40), buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}

	// the browser survives Close and restarts on the next render
	_ = engine.Close()
	out, err := engine.Render(context.Background(), RenderRequest{HTML: []byte("<p>Acta</p>")})
	if err != nil || !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("render after close: %v", err)
	}
}

func TestChromiumEngine_BlocksRemoteLogo(t *testing.T) {
	engine := chromiumForTest(t)
	var fetched atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched.Add(1)
	}))
	defer server.Close()

	doc := []byte(`<html><body><img src="` + server.URL + `/escudo.png"><h1>Registro</h1></body></html>`)
	if _, err := engine.Render(context.Background(), RenderRequest{HTML: doc, Page: PageOptions{BlockExternalAssets: true}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := fetched.Load(); n != 0 {
		t.Fatalf("expected logo request to be blocked, got %d", n)
	}
}

func TestChromiumEngine_Canceled(t *testing.T) {
	engine := chromiumForTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Render(ctx, RenderRequest{HTML: []byte("<p>x</p>")}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestPrintParams_Orientation(t *testing.T) {
	params, err := printParams(PageOptions{PageSize: "letter", Landscape: boolPtr(false)})
	if err != nil {
		t.Fatalf("printParams: %v", err)
	}
	if params.Landscape || params.PaperWidth < 8.49 || params.PaperWidth > 8.51 || params.PreferCSSPageSize {
		t.Fatalf("unexpected params %+v", params)
	}
	css, err := printParams(PageOptions{})
	if err != nil || !css.PreferCSSPageSize || !css.Landscape {
		t.Fatalf("expected css page size with landscape default, got %+v %v", css, err)
	}
}

func TestWithBaseHref(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<html><body>x</body></html>", `<html><head><base href="https://a/"></head><body>x</body></html>`},
		{"<p>x</p>", `<base href="https://a/"><p>x</p>`},
		{`<head><base href="/x"></head>`, `<head><base href="/x"></head>`},
	}
	for _, tc := range cases {
		if got := string(withBaseHref([]byte(tc.in), "https://a/")); got != tc.want {
			t.Fatalf("withBaseHref(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChromiumFlags(t *testing.T) {
	if got := len(chromiumFlags([]string{"--no-sandbox", " ", "--window-size=800,600", "--"})); got != 2 {
		t.Fatalf("expected 2 flags, got %d", got)
	}
}
