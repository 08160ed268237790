// Package errors defines the sentinel errors shared by the index, the query
// engine and the HTTP surface, plus an AppError wrapper that carries an HTTP
// status code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrQueryTooComplex    = errors.New("query too complex")
	ErrMalformedNot       = errors.New("malformed NOT")
	ErrMalformedProximity = errors.New("malformed proximity query")
	ErrDuplicateDocument  = errors.New("duplicate document id")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrCorruptSnapshot    = errors.New("corrupt index snapshot")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
	ErrTimeout            = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// Code returns a stable machine-readable code for err, suitable for JSON
// error bodies. Unknown errors map to "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrQueryTooComplex):
		return "query_too_complex"
	case errors.Is(err, ErrMalformedNot):
		return "malformed_not"
	case errors.Is(err, ErrMalformedProximity):
		return "malformed_proximity"
	case errors.Is(err, ErrDuplicateDocument):
		return "duplicate_document"
	case errors.Is(err, ErrDocumentNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "internal"
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateDocument):
		return http.StatusConflict
	case errors.Is(err, ErrQueryTooComplex),
		errors.Is(err, ErrMalformedNot),
		errors.Is(err, ErrMalformedProximity),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
