package export

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines export error kinds.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindTemplate   ErrorKind = "template"
	KindReference  ErrorKind = "malformed_reference"
	KindSerialize  ErrorKind = "serialization"
	KindRender     ErrorKind = "render"
	KindTimeout    ErrorKind = "timeout"
	KindCanceled   ErrorKind = "canceled"
	KindInternal   ErrorKind = "internal"
	KindNotImpl    ErrorKind = "not_implemented"
)

// ExportError wraps errors with a kind.
type ExportError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Msg: msg, Err: err}
}

// MalformedReferenceError reports a named-range definition that cannot be
// resolved to a cell.
type MalformedReferenceError struct {
	Reference string
	Reason    string
}

func (e *MalformedReferenceError) Error() string {
	return "malformed reference " + quote(e.Reference) + ": " + e.Reason
}

func malformedReference(ref, reason string) *ExportError {
	return NewError(KindReference, "cannot resolve named range", &MalformedReferenceError{Reference: ref, Reason: reason})
}

// goErrorCategories maps each kind to the go-errors category the HTTP layer
// translates into a status. The kind doubles as the text code.
var goErrorCategories = map[ErrorKind]errorslib.Category{
	KindValidation: errorslib.CategoryValidation,
	KindNotFound:   errorslib.CategoryNotFound,
	KindTemplate:   errorslib.CategoryInternal,
	KindReference:  errorslib.CategoryInternal,
	KindSerialize:  errorslib.CategoryInternal,
	KindRender:     errorslib.CategoryInternal,
	KindTimeout:    errorslib.CategoryOperation,
	KindCanceled:   errorslib.CategoryOperation,
	KindNotImpl:    errorslib.CategoryOperation,
	KindInternal:   errorslib.CategoryInternal,
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}
	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	category, ok := goErrorCategories[kind]
	if !ok {
		kind, category = KindInternal, errorslib.CategoryInternal
	}
	return errorslib.New(err.Error(), category).WithTextCode(string(kind))
}

// KindFromError maps an error to its export error kind. Context errors win
// over the kind of any wrapper so aborted exports never read as failures.
func KindFromError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return KindInternal
}
