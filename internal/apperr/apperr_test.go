package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *Error
		status int
		code   string
	}{
		{"validation", Validation("bad body", nil), http.StatusBadRequest, CodeValidation},
		{"invalid filter", InvalidFilter("ge"), http.StatusBadRequest, CodeInvalidFilter},
		{"invalid language", InvalidLanguage("Klingon"), http.StatusBadRequest, CodeInvalidLang},
		{"unauthenticated", Unauthenticated("no cookie", nil), http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden, CodeForbidden},
		{"not found", NotFound("game"), http.StatusNotFound, CodeNotFound},
		{"conflict", Conflict("exists", nil), http.StatusConflict, CodeConflict},
		{"dependency", Dependency("store down", cause), http.StatusInternalServerError, CodeInternal},
		{"translation", TranslationFailed(cause), http.StatusInternalServerError, CodeTranslation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFound("user"))
	got := As(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "user not found", got.Message)

	plain := errors.New("socket closed")
	got = As(plain)
	assert.Equal(t, KindDependency, got.Kind)
	assert.ErrorIs(t, got, plain)
	assert.NotContains(t, got.Message, "socket")
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(Forbidden("x"), KindAuthorization))
	assert.False(t, IsKind(Forbidden("x"), KindNotFound))
	assert.False(t, IsKind(errors.New("x"), KindDependency))
}

func TestInvalidFilterMessage(t *testing.T) {
	err := InvalidFilter("ge")
	assert.Contains(t, err.Message, `"ge"`)
}
