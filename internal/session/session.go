// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns "who is logged in" for every browser that talks to the
admin server.

Each browser gets one [Store], found through the [Registry] by its signed
rr_sid cookie. A Store moves through four states:

	Initializing    ──Restore, nothing valid stored──▶ Unauthenticated
	Initializing    ──Restore, valid record──────────▶ Authenticated
	Unauthenticated ──Login──────────────────────────▶ Authenticating
	Authenticating  ──exchange succeeds──────────────▶ Authenticated
	Authenticating  ──exchange fails─────────────────▶ Unauthenticated
	Authenticated   ──Logout─────────────────────────▶ Unauthenticated

The [Session] value a Store hands out is a snapshot: it is replaced wholesale
on every transition and never mutated afterwards.
*/
package session

import (
	"fmt"

	"github.com/taibuivan/riddlerush/internal/identity"
)

// # State

// State is the position of a [Store] in its lifecycle.
type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticating
	StateAuthenticated
)

var stateNames = map[State]string{
	StateInitializing:    "initializing",
	StateUnauthenticated: "unauthenticated",
	StateAuthenticating:  "authenticating",
	StateAuthenticated:   "authenticated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// # Snapshot

// Session is an immutable snapshot of a browser's authentication.
//
// Once IsLoading is false, IsAuthenticated is true exactly when User is set.
// While IsLoading is true, User must not be used for authorization.
type Session struct {
	User            *identity.User `json:"user"`
	IsAuthenticated bool           `json:"isAuthenticated"`
	IsLoading       bool           `json:"isLoading"`
	State           State          `json:"state"`
}

// Initial is the session of a store that has not been restored yet.
func Initial() Session {
	return Session{IsLoading: true, State: StateInitializing}
}

// Anonymous is the settled, logged-out session.
func Anonymous() Session {
	return Session{State: StateUnauthenticated}
}

// Authenticating is the session while an exchange is in flight.
func Authenticating() Session {
	return Session{IsLoading: true, State: StateAuthenticating}
}

// Authenticated is the settled session of user.
func Authenticated(user identity.User) Session {
	return Session{User: &user, IsAuthenticated: true, State: StateAuthenticated}
}
