package exporthttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	errorslib "github.com/goliatone/go-errors"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type listResponse struct {
	Definitions []definitionSummary `json:"definitions"`
}

type definitionSummary struct {
	Name     string   `json:"name"`
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Formats  []string `json:"formats"`
	Fields   int      `json:"fields"`
	Columns  int      `json:"columns"`
}

func summarize(def export.Definition) definitionSummary {
	return definitionSummary{
		Name:     def.Name,
		Title:    def.Title,
		Subtitle: def.Subtitle,
		Formats:  []string{string(export.FormatXLSX), string(export.FormatPDF)},
		Fields:   len(def.Fields),
		Columns:  len(def.Columns),
	}
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	ge := export.AsGoError(err)
	writeJSON(w, statusForError(ge), errorResponse{
		Error: errorBody{Message: ge.Message, Code: ge.TextCode},
	})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error: errorBody{Message: "not found", Code: "not_found"},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	if err.TextCode == "not_implemented" {
		return http.StatusNotImplemented
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		if err.TextCode == "canceled" {
			return http.StatusConflict
		}
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
