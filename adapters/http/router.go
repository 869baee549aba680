package exporthttp

import (
	"bytes"
	"net/http"

	"github.com/goliatone/go-router"
)

// forwardedHeaders are copied from a go-router request onto the
// net/http request the handler sees.
var forwardedHeaders = []string{"Content-Type", "Accept"}

// Route serves one go-router request through ServeHTTP. The response is
// buffered and written back with the status and headers the handler set.
func (h *Handler) Route(c router.Context) error {
	if c == nil {
		return nil
	}
	req, err := http.NewRequestWithContext(c.Context(), c.Method(), c.OriginalURL(), bytes.NewReader(c.Body()))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: errorBody{Message: "invalid request url", Code: "bad_request"},
		})
	}
	for _, name := range forwardedHeaders {
		if value := c.Header(name); value != "" {
			req.Header.Set(name, value)
		}
	}

	w := &routeWriter{header: make(http.Header)}
	h.ServeHTTP(w, req)
	return w.flush(c)
}

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

func (h *Handler) registerRouter(r routeRegistrar) {
	base := h.BasePath()
	r.Get(base, h.Route)
	r.Get(base+"/", h.Route)
	r.Get(base+"/:type", h.Route)
	r.Get(base+"/:type/template", h.Route)
	r.Post(base+"/:type", h.Route)
}

// routeWriter records what ServeHTTP writes.
type routeWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *routeWriter) Header() http.Header { return w.header }

func (w *routeWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *routeWriter) Write(p []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.body.Write(p)
}

func (w *routeWriter) flush(c router.Context) error {
	// the framework sets Content-Length from the body it sends
	w.header.Del("Content-Length")
	for name, values := range w.header {
		if len(values) > 0 {
			c.SetHeader(name, values[0])
		}
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return c.Status(w.status).Send(w.body.Bytes())
}
