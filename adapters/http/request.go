package exporthttp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes int64 = 4 * 1024 * 1024

// RequestDecoder parses an HTTP request into an export request for def.
type RequestDecoder interface {
	Decode(r *http.Request, def export.Definition) (export.ExportRequest, error)
}

// JSONRequestDecoder decodes {"header": {...}, "details": [...]} bodies.
// Numbers are kept as json.Number so integers and decimals stay exact.
type JSONRequestDecoder struct {
	MaxBodyBytes int64
}

// Decode decodes a JSON request body into an export request.
func (d JSONRequestDecoder) Decode(r *http.Request, def export.Definition) (export.ExportRequest, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return export.ExportRequest{}, export.NewError(export.KindValidation, "request body is required", nil)
	}
	defer r.Body.Close()

	limit := d.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, limit+1))
	dec.UseNumber()

	var raw export.RawRequest
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return export.ExportRequest{}, export.NewError(export.KindValidation, "request body is required", nil)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return export.ExportRequest{}, export.NewError(export.KindValidation, "request body is truncated or too large", err)
		}
		return export.ExportRequest{}, export.NewError(export.KindValidation, "invalid json body", err)
	}
	if raw.Definition != "" && raw.Definition != def.Name {
		return export.ExportRequest{}, export.NewError(export.KindValidation, "body definition does not match the url", nil)
	}
	return export.DecodeRequest(def, raw)
}
