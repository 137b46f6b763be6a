// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
)

// HTTPError is a non-2xx answer from the backend.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// translate turns a transport or backend failure into the error shown to the
// administrator. fallback is used when the backend gave no message.
func translate(err error, entity, fallback string) error {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return apperr.Upstream(fallback, err)
	}

	message := httpErr.Message
	if message == "" {
		message = fallback
	}

	switch httpErr.StatusCode {
	case http.StatusNotFound:
		return apperr.NotFound(entity).WithCause(err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperr.ValidationError(message).WithCause(err)
	case http.StatusUnauthorized:
		return apperr.Unauthorized(message).WithCause(err)
	case http.StatusForbidden:
		return apperr.Forbidden(message).WithCause(err)
	default:
		return apperr.Upstream(message, err)
	}
}
