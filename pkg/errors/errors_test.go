package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"too complex", fmt.Errorf("boolean: %w", ErrQueryTooComplex), http.StatusBadRequest},
		{"malformed not", ErrMalformedNot, http.StatusBadRequest},
		{"not found", ErrDocumentNotFound, http.StatusNotFound},
		{"duplicate", ErrDuplicateDocument, http.StatusConflict},
		{"app error wins", New(ErrInternal, http.StatusTeapot, "x"), http.StatusTeapot},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, "query_too_complex", Code(Newf(ErrQueryTooComplex, 400, "%d terms", 4)))
	assert.Equal(t, "malformed_not", Code(fmt.Errorf("q: %w", ErrMalformedNot)))
	assert.Equal(t, "internal", Code(fmt.Errorf("other")))
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrQueryTooComplex, http.StatusBadRequest, "got %d terms", 4)
	assert.ErrorIs(t, err, ErrQueryTooComplex)
	assert.Equal(t, "query too complex: got 4 terms", err.Error())
}
