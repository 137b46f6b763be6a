// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard decides whether a request may reach a surface, given the
browser's session.

[Decide] is pure: the same surface and session always give the same decision,
so a redirect can never bounce back. The middleware in this package only
translates that decision into HTTP for pages and for the JSON API.
*/
package guard

import (
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/session"
)

// Surface is the class of route being requested.
type Surface int

const (
	// SurfaceLogin is reachable by anyone; admins are sent home.
	SurfaceLogin Surface = iota
	// SurfaceProtected is reachable by authenticated admins only.
	SurfaceProtected
)

// Outcome is what the guard wants done with the request.
type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeAllow
	OutcomeRedirect
)

// Reason explains a redirect.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonNotAdmin
	ReasonAlreadySignedIn
)

// Decision is the result of [Decide].
type Decision struct {
	Outcome Outcome
	// Target is set for redirects: the login surface for every denial, home
	// for an admin visiting the login surface.
	Target string
	Reason Reason
}

var (
	loading = Decision{Outcome: OutcomeLoading}
	allow   = Decision{Outcome: OutcomeAllow}
)

// Decide evaluates the guard for one request.
func Decide(surface Surface, s session.Session) Decision {
	if s.IsLoading {
		return loading
	}

	admin := session.IsAdmin(s)

	if surface == SurfaceLogin {
		if s.IsAuthenticated && admin {
			return Decision{Outcome: OutcomeRedirect, Target: constants.PathHome, Reason: ReasonAlreadySignedIn}
		}
		return allow
	}

	switch {
	case !s.IsAuthenticated:
		return Decision{Outcome: OutcomeRedirect, Target: constants.PathLogin, Reason: ReasonUnauthenticated}
	case !admin:
		return Decision{Outcome: OutcomeRedirect, Target: constants.PathLogin, Reason: ReasonNotAdmin}
	default:
		return allow
	}
}
