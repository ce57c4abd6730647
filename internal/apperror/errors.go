// Package apperror defines the typed failures returned by domain services.
// Handlers translate them into HTTP status codes in one place.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindUpstream
	KindAggregation
)

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	case KindUpstream:
		return "UpstreamFailure"
	case KindAggregation:
		return "AggregationFailed"
	default:
		return "InternalError"
	}
}

// HTTPStatus maps a kind to its response status code
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a structured domain failure
type Error struct {
	Kind    Kind
	Code    string // Stable machine-readable code, e.g. "InvalidQuantity"
	Message string // Human-readable message safe to return to clients
	Err     error  // Underlying cause, never sent to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two errors by code, so a sentinel with a rewritten message
// still satisfies errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific message
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// Sentinel errors for comparison using errors.Is()
var (
	ErrInvalidQuantity   = &Error{Kind: KindValidation, Code: "InvalidQuantity", Message: "quantity must be between 1 and 10"}
	ErrEmptyCart         = &Error{Kind: KindValidation, Code: "EmptyCart", Message: "no items selected for checkout"}
	ErrInvalidTransition = &Error{Kind: KindValidation, Code: "InvalidTransition", Message: "status transition is not allowed"}
	ErrAggregationFailed = &Error{Kind: KindAggregation, Code: "AggregationFailed", Message: "failed to compute dashboard statistics"}
)

// Validation creates a ValidationError
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: KindValidation.String(), Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFound error for the named entity
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Code: KindNotFound.String(), Message: entity + " not found"}
}

// Unauthorized creates an Unauthorized error
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: KindUnauthorized.String(), Message: message}
}

// Forbidden creates a Forbidden error
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: KindForbidden.String(), Message: message}
}

// Conflict creates a Conflict error
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: KindConflict.String(), Message: message}
}

// Upstream wraps a failure of the store or media host
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Code: KindUpstream.String(), Message: message, Err: err}
}

// Aggregation wraps a dashboard read failure
func Aggregation(err error) *Error {
	return &Error{Kind: ErrAggregationFailed.Kind, Code: ErrAggregationFailed.Code, Message: ErrAggregationFailed.Message, Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is* helpers mirror the kind checks handlers and tests need most

func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
