// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries request-scoped values through [context.Context]:
// the correlation id, the request logger and the verified browser id.
//
// Keys are unexported so no other package can read or overwrite them except
// through these helpers.
package ctxutil

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	browserIDKey
)

func lookup[T any](ctx context.Context, key contextKey) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation value, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := lookup[string](ctx, requestIDKey)
	return id
}

// # Structured Logging

// WithLogger attaches the request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default] so
// background code can log through the same call.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := lookup[*slog.Logger](ctx, loggerKey); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Browser Identity

// WithBrowserID attaches the id carried by a verified rr_sid cookie.
func WithBrowserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, browserIDKey, id)
}

// GetBrowserID returns the browser id, or "" outside the session middleware.
func GetBrowserID(ctx context.Context) string {
	id, _ := lookup[string](ctx, browserIDKey)
	return id
}
