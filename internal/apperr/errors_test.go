package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: book.title")
	err := ConstraintViolation("book title already exists", cause)

	assert.Equal(t, CodeConflict, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[CONFLICT] book title already exists: UNIQUE constraint failed: book.title", err.Error())
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"plain error", errors.New("boom"), CodeInternal},
		{"not found", NotFound("book %d not found", 3), CodeNotFound},
		{"wrapped by fmt", fmt.Errorf("get: %w", InvalidRequest("bad id")), CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "internal server error", MessageOf(errors.New("disk I/O error")))
	assert.Equal(t, "internal server error", MessageOf(Wrap(CodeInternal, "query failed", errors.New("x"))))
	assert.Equal(t, "book 3 not found", MessageOf(NotFound("book %d not found", 3)))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidRequest))
	assert.Equal(t, http.StatusUnsupportedMediaType, HTTPStatus(CodeUnsupportedMediaType))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(CodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternal))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(NotFound("x"), CodeNotFound))
	assert.False(t, Is(nil, CodeNotFound))
	assert.False(t, Is(errors.New("x"), CodeNotFound))
}
