// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes the JSON responses of the admin server.
//
// # Architecture
//
// Success bodies are {"data": ...}. Error bodies are the [apperr.AppError]
// itself: {"error", "code", "details"}. The dashboard scripts parse both
// blindly. HTML pages are rendered by the web package and never go through here.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/ctxutil"
)

type envelope struct {
	Data any `json:"data"`
}

// JSON writes payload as is with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Data writes data in the success envelope with any status code.
func Data(writer http.ResponseWriter, statusCode int, data any) {
	JSON(writer, statusCode, envelope{Data: data})
}

// OK writes data with 200.
func OK(writer http.ResponseWriter, data any) {
	Data(writer, http.StatusOK, data)
}

// Created writes data with 201.
func Created(writer http.ResponseWriter, data any) {
	Data(writer, http.StatusCreated, data)
}

// NoContent writes a bare 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error renders err. Anything that is not an [apperr.AppError] becomes a
// generic 500 and is logged; server-side AppErrors are logged with their cause.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	appError := apperr.As(err)
	if appError == nil {
		logger.ErrorContext(ctx, "unhandled_error_swallowed", slog.Any("error", err))
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, appError)
}

// Denied writes an access refusal for a JSON surface. The Location header
// tells scripted clients where a browser would have been sent.
func Denied(writer http.ResponseWriter, request *http.Request, err *apperr.AppError, location string) {
	writer.Header().Set(constants.HeaderLocation, location)
	Error(writer, request, err)
}
