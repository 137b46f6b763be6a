// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// exchangePath is appended to the backend base URL.
const exchangePath = "/auth/telegram"

// maxResponseBytes bounds how much of a backend reply is read.
const maxResponseBytes = 1 << 20

// Exchanger turns an assertion into a [Grant].
type Exchanger interface {
	Exchange(ctx context.Context, assertion Assertion) (Grant, error)
}

// Client calls the backend's Telegram endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend rooted at baseURL.
// A nil httpClient uses [http.DefaultClient]; deadlines come from ctx.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// exchangeResponse is the backend's reply. access_token is current; token is
// what older backend builds sent.
type exchangeResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	User        *User  `json:"user"`
	Message     string `json:"message"`
}

// Exchange posts the assertion and decodes the reply into a [Grant] or an
// [*ExchangeError]. It makes exactly one request.
func (c *Client) Exchange(ctx context.Context, assertion Assertion) (Grant, error) {
	payload, err := json.Marshal(assertion)
	if err != nil {
		return Grant{}, &ExchangeError{Message: defaultFailureMessage, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+exchangePath, bytes.NewReader(payload))
	if err != nil {
		return Grant{}, &ExchangeError{Message: defaultFailureMessage, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Grant{}, &ExchangeError{Message: defaultFailureMessage, Cause: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Grant{}, &ExchangeError{Message: defaultFailureMessage, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Grant{}, &ExchangeError{
			Message:    fmt.Sprintf("Authentication failed: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	var decoded exchangeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Grant{}, &ExchangeError{
			Message:    "Invalid authentication response",
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("decode response: %w", err),
		}
	}

	return decoded.grant(resp.StatusCode, assertion)
}

func (r exchangeResponse) grant(status int, assertion Assertion) (Grant, error) {
	if !r.Success {
		message := r.Message
		if message == "" {
			message = defaultFailureMessage
		}
		return Grant{}, &ExchangeError{Message: message, StatusCode: status}
	}

	token := r.AccessToken
	if token == "" {
		token = r.Token
	}

	if token == "" || r.User == nil {
		return Grant{}, &ExchangeError{Message: "Invalid authentication response", StatusCode: status}
	}

	if err := r.User.Validate(); err != nil {
		return Grant{}, &ExchangeError{Message: "Invalid authentication response", StatusCode: status, Cause: err}
	}

	user := *r.User
	if user.PhotoURL == "" {
		user.PhotoURL = assertion.PhotoURL
	}

	return Grant{Token: token, User: user}, nil
}
