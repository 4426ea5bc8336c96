// Package apperr defines the error taxonomy shared by every handler and
// its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by how the caller should react to it.
type Kind int

const (
	KindDependency Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error codes surfaced in response bodies.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
	CodeTranslation    = "TRANSLATION_FAILED"
	CodeInvalidFilter  = "INVALID_FILTER"
	CodeInvalidLang    = "INVALID_LANGUAGE"
	CodeSignInRejected = "SIGN_IN_FAILED"
)

// Error is an error with a client-facing code and message. Err keeps the
// underlying cause for logs; it is never written to a response.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, err error) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message, Err: err}
}

// InvalidFilter reports an unrecognised popularity comparison operator.
func InvalidFilter(op string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeInvalidFilter,
		Message: fmt.Sprintf("invalid filter parameter %q, expected one of [gt lt et]", op),
	}
}

// InvalidLanguage reports a translation target outside the supported set.
func InvalidLanguage(language string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeInvalidLang,
		Message: fmt.Sprintf("unsupported translation language %q", language),
	}
}

func Unauthenticated(message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Code: CodeUnauthorized, Message: message, Err: err}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: CodeForbidden, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Code: CodeConflict, Message: message, Err: err}
}

// Dependency wraps a store or provider failure.
func Dependency(message string, err error) *Error {
	return &Error{Kind: KindDependency, Code: CodeInternal, Message: message, Err: err}
}

// TranslationFailed wraps a translation provider failure.
func TranslationFailed(err error) *Error {
	return &Error{Kind: KindDependency, Code: CodeTranslation, Message: "unable to translate the game", Err: err}
}

// As extracts an *Error from err. Anything else is treated as an
// unexpected dependency failure.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Dependency("an unexpected error occurred", err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
