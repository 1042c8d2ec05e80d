package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure with a stable wire value.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodePromotion     Code = "PROMOTION_REJECTED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata drives how a code is rendered at the HTTP boundary.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func meta(status int, retryable bool, public string, detailsAllowed bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		Retryable:      retryable,
		PublicMessage:  public,
		DetailsAllowed: detailsAllowed,
	}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    meta(http.StatusBadRequest, false, "validation failed", true),
	CodeUnauthorized:  meta(http.StatusUnauthorized, false, "authentication required", false),
	CodeForbidden:     meta(http.StatusForbidden, false, "access denied", false),
	CodeNotFound:      meta(http.StatusNotFound, false, "resource not found", false),
	CodeConflict:      meta(http.StatusConflict, false, "conflict detected", true),
	CodeStateConflict: meta(http.StatusUnprocessableEntity, false, "state transition disallowed", true),
	CodePromotion:     meta(http.StatusUnprocessableEntity, false, "promotion not applicable", true),
	CodeInternal:      meta(http.StatusInternalServerError, true, "internal server error", false),
	CodeDependency:    meta(http.StatusServiceUnavailable, true, "dependency unavailable", true),
}

// MetadataFor resolves rendering metadata, treating unknown codes as internal.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded error with an optional cause and structured details.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

// WithDetails attaches structured details rendered to the client when the
// code's metadata allows it.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the first coded error in the chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
