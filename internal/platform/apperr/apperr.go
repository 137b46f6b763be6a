// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type shared by every layer of the admin server.

An [AppError] carries a machine-readable code, a message that is safe to show
to an administrator, the HTTP status it maps to, and an optional cause that is
only ever logged.

Sources of errors:

  - Validation: form and JSON input rejected before reaching a provider.
  - Upstream: the RiddleRush backend answered with a failure or was unreachable.
  - Access: the guard refused a request (401/403).

Handlers never build status codes by hand; they return an [AppError] and let
the respond package or the page renderer present it.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes, rendered as the "code" field of JSON errors.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError is the canonical error type of the admin server.
//
// # Security
//
// Cause is for server-side logging only and is never rendered.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e that records cause for logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Client Errors (4xx)

// NotFound reports a missing campaign, riddle or page.
//
//	apperr.NotFound("Campaign") // "Campaign not found"
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

// Unauthorized is a 401: no session, or the backend rejected the token.
func Unauthorized(msg string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, msg)
}

// Forbidden is a 403: signed in, but not an admin.
func Forbidden(msg string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, msg)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	ae := newError(CodeValidation, http.StatusBadRequest, msg)
	ae.Details = details
	return ae
}

// RateLimited is a 429.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(CodeRateLimited, http.StatusTooManyRequests,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors (5xx)

// Internal hides an unexpected failure behind a generic message.
func Internal(cause error) *AppError {
	ae := newError(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred")
	ae.Cause = cause
	return ae
}

// Upstream is a 502 for a failed call to the RiddleRush backend. msg is shown
// to the administrator; pass the backend's own message when it sent one.
func Upstream(msg string, cause error) *AppError {
	ae := newError(CodeUpstream, http.StatusBadGateway, msg)
	ae.Cause = cause
	return ae
}

// ServiceUnavailable is a 503, used while a session is still settling.
func ServiceUnavailable(msg string) *AppError {
	return newError(CodeServiceUnavailable, http.StatusServiceUnavailable, msg)
}

// # Helpers

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
