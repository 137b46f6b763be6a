// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/identity"
)

var sampleAssertion = identity.Assertion{
	ID:        42,
	FirstName: "Layla",
	Username:  "layla",
	PhotoURL:  "https://t.me/i/userpic/320/layla.jpg",
	AuthDate:  1767225600,
	Hash:      "abc123",
}

func backend(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

/*
TestExchange_SendsAssertionVerbatim checks method, path and body of the request.
*/
func TestExchange_SendsAssertionVerbatim(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/telegram", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_, _ = w.Write([]byte(`{"success":true,"access_token":"t","user":{"id":1,"telegram_id":42,"first_name":"Layla","role":"admin"}}`))
	}))
	defer server.Close()

	client := identity.NewClient(server.URL+"/api/", nil)
	_, err := client.Exchange(context.Background(), sampleAssertion)
	require.NoError(t, err)

	assert.Equal(t, float64(42), received["id"])
	assert.Equal(t, "Layla", received["first_name"])
	assert.Equal(t, "layla", received["username"])
	assert.Equal(t, float64(1767225600), received["auth_date"])
	assert.Equal(t, "abc123", received["hash"])
	assert.NotContains(t, received, "last_name")
}

/*
TestExchange_Success merges the widget avatar into the backend user.
*/
func TestExchange_Success(t *testing.T) {
	server := backend(t, http.StatusOK,
		`{"success":true,"access_token":"tok","user":{"id":1,"telegram_id":42,"first_name":"Layla","role":"regular"}}`, nil)

	grant, err := identity.NewClient(server.URL, nil).Exchange(context.Background(), sampleAssertion)
	require.NoError(t, err)

	assert.Equal(t, "tok", grant.Token)
	assert.Equal(t, identity.RoleRegular, grant.User.Role)
	assert.Equal(t, sampleAssertion.PhotoURL, grant.User.PhotoURL)
}

/*
TestExchange_BackendPhotoWins keeps a backend photo over the assertion's.
*/
func TestExchange_BackendPhotoWins(t *testing.T) {
	server := backend(t, http.StatusOK,
		`{"success":true,"access_token":"tok","user":{"id":1,"telegram_id":42,"first_name":"L","photo_url":"https://cdn/x.png","role":"admin"}}`, nil)

	grant, err := identity.NewClient(server.URL, nil).Exchange(context.Background(), sampleAssertion)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", grant.User.PhotoURL)
}

/*
TestExchange_LegacyTokenField accepts "token" when "access_token" is absent.
*/
func TestExchange_LegacyTokenField(t *testing.T) {
	server := backend(t, http.StatusOK,
		`{"success":true,"token":"legacy","user":{"id":1,"telegram_id":42,"first_name":"L","role":"admin"}}`, nil)

	grant, err := identity.NewClient(server.URL, nil).Exchange(context.Background(), sampleAssertion)
	require.NoError(t, err)
	assert.Equal(t, "legacy", grant.Token)
}

/*
TestExchange_Failures covers every failure outcome; each must be an ExchangeError
with a readable message and the backend must be hit exactly once.
*/
func TestExchange_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"success_false", http.StatusOK, `{"success":false,"message":"bad hash"}`, "bad hash"},
		{"success_false_no_message", http.StatusOK, `{"success":false}`, "Authentication failed"},
		{"non_2xx", http.StatusUnauthorized, `{"success":false,"message":"ignored"}`, "Authentication failed: 401"},
		{"server_error", http.StatusInternalServerError, ``, "Authentication failed: 500"},
		{"missing_token", http.StatusOK, `{"success":true,"user":{"id":1,"role":"admin"}}`, "Invalid authentication response"},
		{"missing_user", http.StatusOK, `{"success":true,"access_token":"t"}`, "Invalid authentication response"},
		{"missing_role", http.StatusOK, `{"success":true,"access_token":"t","user":{"id":1}}`, "Invalid authentication response"},
		{"not_json", http.StatusOK, `<html>`, "Invalid authentication response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			server := backend(t, tt.status, tt.body, &hits)

			_, err := identity.NewClient(server.URL, nil).Exchange(context.Background(), sampleAssertion)
			require.Error(t, err)

			var exchangeErr *identity.ExchangeError
			require.ErrorAs(t, err, &exchangeErr)
			assert.Equal(t, tt.message, exchangeErr.Message)
			assert.Equal(t, tt.message, identity.FailureMessage(err))
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
		})
	}
}

/*
TestExchange_NetworkError reports an unreachable backend as a failed login.
*/
func TestExchange_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	_, err := identity.NewClient(address, nil).Exchange(context.Background(), sampleAssertion)

	var exchangeErr *identity.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, "Authentication failed", exchangeErr.Message)
	assert.NotNil(t, exchangeErr.Cause)
}

/*
TestFromQuery parses the redirect flow and rejects incomplete assertions.
*/
func TestFromQuery(t *testing.T) {
	values := url.Values{
		"id":         {"42"},
		"first_name": {"Layla"},
		"username":   {"layla"},
		"auth_date":  {"1767225600"},
		"hash":       {"abc123"},
	}

	assertion, err := identity.FromQuery(values)
	require.NoError(t, err)
	assert.Equal(t, int64(42), assertion.ID)
	assert.Equal(t, "layla", assertion.Username)

	values.Del("hash")
	_, err = identity.FromQuery(values)
	assert.ErrorIs(t, err, identity.ErrMalformedAssertion)

	_, err = identity.FromQuery(url.Values{"id": {"x"}})
	assert.ErrorIs(t, err, identity.ErrMalformedAssertion)
}

/*
TestUser_DisplayName mirrors the navbar label.
*/
func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Layla (@layla)", identity.User{FirstName: "Layla", Username: "layla"}.DisplayName())
	assert.Equal(t, "Layla", identity.User{FirstName: "Layla"}.DisplayName())
}
