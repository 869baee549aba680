package exporthttp

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

const defaultBasePath = "/api/exports"

// Config configures the HTTP adapter.
type Config struct {
	Service  export.Service
	BasePath string
	Decoder  RequestDecoder
	Logger   export.Logger
}

// Handler exposes export HTTP endpoints:
//
//	GET  {base}                     list record types
//	GET  {base}/{type}              describe one record type
//	GET  {base}/{type}/template     download a starter template
//	POST {base}/{type}.{xlsx|pdf}   render an export
//	POST {base}/{type}?format=pdf   same, format from the query
type Handler struct {
	service  export.Service
	basePath string
	decoder  RequestDecoder
	logger   export.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	base := strings.TrimRight(strings.TrimSpace(cfg.BasePath), "/")
	if base == "" {
		base = defaultBasePath
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	decoder := cfg.Decoder
	if decoder == nil {
		decoder = JSONRequestDecoder{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = export.NopLogger{}
	}
	return &Handler{service: cfg.Service, basePath: base, decoder: decoder, logger: logger}
}

// BasePath returns the mount point.
func (h *Handler) BasePath() string {
	if h == nil {
		return defaultBasePath
	}
	return h.basePath
}

// RegisterRoutes registers handlers on a go-router router or a net/http mux.
func (h *Handler) RegisterRoutes(router any) {
	switch r := router.(type) {
	case routeRegistrar:
		h.registerRouter(r)
	case interface{ Handle(string, http.Handler) }:
		r.Handle(h.BasePath(), h)
		r.Handle(h.BasePath()+"/", h)
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		r.HandleFunc(h.BasePath(), h.ServeHTTP)
		r.HandleFunc(h.BasePath()+"/", h.ServeHTTP)
	}
}

// ServeHTTP routes export endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil || r == nil {
		return
	}
	if h == nil || h.service == nil {
		writeError(w, export.NewError(export.KindInternal, "export service is not configured", nil))
		return
	}
	if r.URL.Path != h.basePath && !strings.HasPrefix(r.URL.Path, h.basePath+"/") {
		writeNotFound(w)
		return
	}

	suffix := strings.Trim(strings.TrimPrefix(r.URL.Path, h.basePath), "/")
	var parts []string
	if suffix != "" {
		parts = strings.Split(suffix, "/")
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		switch {
		case len(parts) == 0:
			h.handleList(w)
		case len(parts) == 1:
			h.handleDescribe(w, parts[0])
		case len(parts) == 2 && parts[1] == "template":
			h.handleTemplate(w, parts[0])
		default:
			writeNotFound(w)
		}
	case http.MethodPost:
		if len(parts) != 1 {
			writeNotFound(w)
			return
		}
		h.handleExport(w, r, parts[0])
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Error: errorBody{Message: fmt.Sprintf("method %s not allowed", r.Method), Code: "method_not_allowed"},
		})
	}
}

func (h *Handler) handleList(w http.ResponseWriter) {
	defs := h.service.Definitions()
	out := make([]definitionSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, summarize(def))
	}
	writeJSON(w, http.StatusOK, listResponse{Definitions: out})
}

func (h *Handler) handleDescribe(w http.ResponseWriter, name string) {
	exp, err := h.service.Exporter(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp.Definition)
}

func (h *Handler) handleTemplate(w http.ResponseWriter, name string) {
	exp, err := h.service.Exporter(name)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := export.ScaffoldBytes(exp.Definition)
	if err != nil {
		h.logger.Errorf("scaffold %s: %v", name, err)
		writeError(w, err)
		return
	}
	filename := path.Base(exp.Definition.Template)
	if path.Ext(filename) == "" {
		filename += ".xlsx"
	}
	writeFile(w, export.FormatXLSX.ContentType(), filename, data)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, target string) {
	name, format, err := splitTarget(target, r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	exp, err := h.service.Exporter(name)
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.decoder.Decode(r, exp.Definition)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.service.Export(r.Context(), format, req)
	if err != nil {
		h.logger.Warnf("http export %s.%s: %v", name, format, err)
		writeError(w, err)
		return
	}
	if result.Artifact != nil {
		w.Header().Set("X-Export-Artifact", result.Artifact.Key)
	}
	writeFile(w, result.ContentType, result.Filename, result.Data)
}

// splitTarget reads "{type}.{ext}" or "{type}" plus an explicit format.
func splitTarget(target, queryFormat string) (string, export.Format, error) {
	name := target
	raw := strings.TrimSpace(queryFormat)
	if ext := path.Ext(target); ext != "" {
		name = strings.TrimSuffix(target, ext)
		if raw == "" {
			raw = ext
		}
	}
	if name == "" {
		return "", "", export.NewError(export.KindValidation, "record type is required", nil)
	}
	if raw == "" {
		return "", "", export.NewError(export.KindValidation, "format is required", nil)
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		return "", "", err
	}
	return name, format, nil
}
