// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/platform/respond"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"plain error is hidden", errors.New("pq: connection reset"), http.StatusInternalServerError, apperr.CodeInternal, "An unexpected error occurred"},
		{"not found", apperr.NotFound("Riddle"), http.StatusNotFound, apperr.CodeNotFound, "Riddle not found"},
		{"upstream keeps backend message", apperr.Upstream("Name already taken", errors.New("502")), http.StatusBadGateway, apperr.CodeUpstream, "Name already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			body := decode(t, recorder)
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.message, body["error"])
			assert.NotContains(t, body, "details")
		})
	}
}

func TestError_ValidationDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	err := apperr.ValidationError("Invalid input", apperr.FieldError{Field: "name", Message: "Campaign name is required"})
	respond.Error(recorder, httptest.NewRequest(http.MethodPost, "/", nil), err)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decode(t, recorder)
	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "Campaign name is required", details[0].(map[string]any)["message"])
}

func TestDenied(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Denied(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil), apperr.Unauthorized("Authentication required"), "/login")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

func TestData(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"id": "c1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"c1"}}`, recorder.Body.String())
}
