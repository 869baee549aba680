package exportpdf

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromiumEngine prints report HTML through a headless Chromium. One browser
// process is shared by every export; each render opens its own tab.
type ChromiumEngine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	DefaultPage PageOptions

	mu      sync.Mutex
	browser context.Context
	stop    []context.CancelFunc
}

// Render loads req.HTML into a blank tab and prints it.
func (e *ChromiumEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if e == nil {
		return nil, export.NewError(export.KindInternal, "chromium engine is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	browser, err := e.start()
	if err != nil {
		return nil, err
	}

	tab, closeTab := chromedp.NewContext(browser)
	defer closeTab()
	// the tab derives from the browser, so the caller's ctx is bridged in
	stopBridge := context.AfterFunc(ctx, closeTab)
	defer stopBridge()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		tab, cancel = context.WithTimeout(tab, e.Timeout)
		defer cancel()
	}

	opts := e.pageDefaults().Merge(req.Page)
	params, err := printParams(opts)
	if err != nil {
		return nil, err
	}

	var out []byte
	if err := chromedp.Run(tab, e.printActions(opts, withBaseHref(req.HTML, opts.BaseURL), params, &out)...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, export.NewError(export.KindRender, "chromium print failed", err)
	}
	return out, nil
}

func (e *ChromiumEngine) printActions(opts PageOptions, doc []byte, params *page.PrintToPDFParams, out *[]byte) []chromedp.Action {
	var actions []chromedp.Action
	if opts.BlockExternalAssets {
		actions = append(actions, network.Enable(), network.SetBlockedURLs([]string{"http://*", "https://*"}))
	}
	return append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(doc)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			*out = data
			return err
		}),
	)
}

// Close stops the browser. A later Render starts a new one.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.stop) - 1; i >= 0; i-- {
		e.stop[i]()
	}
	e.stop = nil
	e.browser = nil
	return nil
}

func (e *ChromiumEngine) start() (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser != nil {
		return e.browser, nil
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if e.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(e.BrowserPath))
	}
	opts = append(opts, chromedp.Flag("headless", e.Headless))
	opts = append(opts, chromiumFlags(e.Args)...)

	alloc, stopAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browser, stopBrowser := chromedp.NewContext(alloc)
	// launch eagerly so a missing binary surfaces here and not mid-export
	if err := chromedp.Run(browser); err != nil {
		stopBrowser()
		stopAlloc()
		return nil, export.NewError(export.KindInternal, "start chromium", err)
	}
	e.browser = browser
	e.stop = []context.CancelFunc{stopAlloc, stopBrowser}
	return browser, nil
}

func (e *ChromiumEngine) pageDefaults() PageOptions {
	defaults := e.DefaultPage
	if defaults.Scale == 0 {
		defaults.Scale = defaultPDFScale
	}
	if defaults.PrintBackground == nil {
		defaults.PrintBackground = boolPtr(true)
	}
	return defaults
}

// printParams maps page options onto Page.printToPDF. Orientation follows
// PageOptions.landscape, so reports default to landscape like the table engine.
func printParams(opts PageOptions) (*page.PrintToPDFParams, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = defaultPDFScale
	}
	if scale < 0.1 || scale > 2 {
		return nil, export.NewError(export.KindValidation, "pdf scale must be between 0.1 and 2.0", nil)
	}
	params := page.PrintToPDF().WithScale(scale).WithLandscape(opts.landscape())
	if opts.PrintBackground != nil {
		params = params.WithPrintBackground(*opts.PrintBackground)
	}

	if opts.PageSize == "" && (opts.PreferCSSPageSize == nil || *opts.PreferCSSPageSize) {
		params = params.WithPreferCSSPageSize(true)
	} else {
		if opts.PreferCSSPageSize != nil && *opts.PreferCSSPageSize {
			params = params.WithPreferCSSPageSize(true)
		}
		width, height, err := opts.paperInches()
		if err != nil {
			return nil, err
		}
		params = params.WithPaperWidth(width).WithPaperHeight(height)
	}

	for _, m := range []struct {
		raw string
		dst *float64
	}{
		{opts.MarginTop, &params.MarginTop},
		{opts.MarginBottom, &params.MarginBottom},
		{opts.MarginLeft, &params.MarginLeft},
		{opts.MarginRight, &params.MarginRight},
	} {
		if m.raw == "" {
			continue
		}
		inches, err := parseLengthInches(m.raw)
		if err != nil {
			return nil, err
		}
		*m.dst = inches
	}
	return params, nil
}

// withBaseHref adds a <base> element so relative logo and stylesheet paths in
// report templates resolve against baseURL. Documents that declare their own
// base are left alone.
func withBaseHref(doc []byte, baseURL string) []byte {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return doc
	}
	lower := strings.ToLower(string(doc))
	if strings.Contains(lower, "<base") {
		return doc
	}

	tag := fmt.Sprintf(`<base href="%s">`, html.EscapeString(baseURL))
	insert := func(at int, text string) []byte {
		out := make([]byte, 0, len(doc)+len(text))
		out = append(out, doc[:at]...)
		out = append(out, text...)
		return append(out, doc[at:]...)
	}
	if at := afterOpeningTag(lower, "<head"); at >= 0 {
		return insert(at, tag)
	}
	if at := afterOpeningTag(lower, "<html"); at >= 0 {
		return insert(at, "<head>"+tag+"</head>")
	}
	return insert(0, tag)
}

func afterOpeningTag(lower, open string) int {
	start := strings.Index(lower, open)
	if start < 0 {
		return -1
	}
	end := strings.IndexByte(lower[start:], '>')
	if end < 0 {
		return -1
	}
	return start + end + 1
}

// chromiumFlags turns "--name=value" style arguments into allocator flags.
func chromiumFlags(args []string) []chromedp.ExecAllocatorOption {
	flags := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			flags = append(flags, chromedp.Flag(name, value))
		} else {
			flags = append(flags, chromedp.Flag(arg, true))
		}
	}
	return flags
}
