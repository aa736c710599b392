// Package apperrors defines the machine-distinguishable failure kinds the
// service reports: invalid input, registry not-found, upstream failure, and
// configuration fault.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindNotFound     Kind = "NOT_FOUND"
	KindUpstream     Kind = "UPSTREAM_FAILURE"
	KindConfig       Kind = "CONFIGURATION_FAULT"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same kind so callers can compare against the
// sentinel constructors with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Cause: cause}
}

func Config(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

// KindOf extracts the failure kind. Unclassified errors report as upstream
// failures so they are never mistaken for caller mistakes.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
