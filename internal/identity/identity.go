// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity trades a Telegram Login Widget assertion for a session issued
by the RiddleRush backend.

The backend verifies the assertion hash and owns the user's role; the widget
owns the avatar. A successful exchange therefore merges the assertion's
photo_url into the returned user when the backend omits it.

Exchange never retries. A failure is reported once, as an [*ExchangeError],
and the caller decides what to show.
*/
package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// # Roles

// Role is the backend-assigned role of a user. Unknown values are kept as-is.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

// # Records

// User is the identity record owned by a session.
type User struct {
	ID          int64    `json:"id"`
	TelegramID  int64    `json:"telegram_id"`
	FirstName   string   `json:"first_name"`
	Username    string   `json:"username,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// DisplayName renders "First (@username)" the way the navbar shows it.
func (u User) DisplayName() string {
	if u.Username == "" {
		return u.FirstName
	}
	return fmt.Sprintf("%s (@%s)", u.FirstName, u.Username)
}

// Validate rejects records that cannot back a session.
func (u User) Validate() error {
	if u.ID == 0 && u.TelegramID == 0 {
		return errors.New("identity: user has no id")
	}
	if strings.TrimSpace(string(u.Role)) == "" {
		return errors.New("identity: user has no role")
	}
	return nil
}

// Assertion is the one-shot signed payload delivered by the login widget.
type Assertion struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// ErrMalformedAssertion is returned when an assertion lacks required fields.
var ErrMalformedAssertion = errors.New("identity: malformed login assertion")

// Check verifies that the fields the backend needs to verify the hash are present.
func (a Assertion) Check() error {
	switch {
	case a.ID == 0:
		return fmt.Errorf("%w: missing id", ErrMalformedAssertion)
	case a.AuthDate == 0:
		return fmt.Errorf("%w: missing auth_date", ErrMalformedAssertion)
	case a.Hash == "":
		return fmt.Errorf("%w: missing hash", ErrMalformedAssertion)
	}
	return nil
}

// FromQuery reads an assertion from the widget's redirect parameters
// (the data-auth-url flow).
func FromQuery(values url.Values) (Assertion, error) {
	id, err := strconv.ParseInt(values.Get("id"), 10, 64)
	if err != nil {
		return Assertion{}, fmt.Errorf("%w: id", ErrMalformedAssertion)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return Assertion{}, fmt.Errorf("%w: auth_date", ErrMalformedAssertion)
	}

	assertion := Assertion{
		ID:        id,
		FirstName: values.Get("first_name"),
		LastName:  values.Get("last_name"),
		Username:  values.Get("username"),
		PhotoURL:  values.Get("photo_url"),
		AuthDate:  authDate,
		Hash:      values.Get("hash"),
	}

	return assertion, assertion.Check()
}

// # Outcomes

// Grant is a successful exchange: a bearer token and the user it belongs to.
type Grant struct {
	Token string
	User  User
}

// ExchangeError is a failed exchange. Message is safe to show to the user.
type ExchangeError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *ExchangeError) Error() string { return e.Message }

func (e *ExchangeError) Unwrap() error { return e.Cause }

// FailureMessage extracts the user-facing text of a login failure.
func FailureMessage(err error) string {
	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) && exchangeErr.Message != "" {
		return exchangeErr.Message
	}
	return defaultFailureMessage
}

const defaultFailureMessage = "Authentication failed"
