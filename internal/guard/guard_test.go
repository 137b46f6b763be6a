// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/riddlerush/internal/guard"
	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/session"
)

var (
	admin   = identity.User{ID: 1, TelegramID: 42, FirstName: "Layla", Role: identity.RoleAdmin}
	regular = identity.User{ID: 2, TelegramID: 43, FirstName: "Omar", Role: identity.RoleRegular}
)

func staleAdmin() session.Session {
	s := session.Authenticated(admin)
	s.IsLoading = true
	return s
}

func allSessions() map[string]session.Session {
	return map[string]session.Session{
		"initial":        session.Initial(),
		"authenticating": session.Authenticating(),
		"stale_admin":    staleAdmin(),
		"anonymous":      session.Anonymous(),
		"regular":        session.Authenticated(regular),
		"admin":          session.Authenticated(admin),
	}
}

/*
TestDecide covers the full decision table.
*/
func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		surface guard.Surface
		session session.Session
		want    guard.Decision
	}{
		{"login_loading", guard.SurfaceLogin, session.Initial(), guard.Decision{Outcome: guard.OutcomeLoading}},
		{"login_anonymous", guard.SurfaceLogin, session.Anonymous(), guard.Decision{Outcome: guard.OutcomeAllow}},
		{"login_regular", guard.SurfaceLogin, session.Authenticated(regular), guard.Decision{Outcome: guard.OutcomeAllow}},
		{"login_admin", guard.SurfaceLogin, session.Authenticated(admin),
			guard.Decision{Outcome: guard.OutcomeRedirect, Target: "/", Reason: guard.ReasonAlreadySignedIn}},

		{"protected_loading", guard.SurfaceProtected, session.Authenticating(), guard.Decision{Outcome: guard.OutcomeLoading}},
		{"protected_stale_admin", guard.SurfaceProtected, staleAdmin(), guard.Decision{Outcome: guard.OutcomeLoading}},
		{"protected_anonymous", guard.SurfaceProtected, session.Anonymous(),
			guard.Decision{Outcome: guard.OutcomeRedirect, Target: "/login", Reason: guard.ReasonUnauthenticated}},
		{"protected_regular", guard.SurfaceProtected, session.Authenticated(regular),
			guard.Decision{Outcome: guard.OutcomeRedirect, Target: "/login", Reason: guard.ReasonNotAdmin}},
		{"protected_admin", guard.SurfaceProtected, session.Authenticated(admin), guard.Decision{Outcome: guard.OutcomeAllow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Decide(tt.surface, tt.session))
		})
	}
}

/*
TestDecide_NeverLeaksProtected checks that only settled admins reach protected surfaces.
*/
func TestDecide_NeverLeaksProtected(t *testing.T) {
	for name, s := range allSessions() {
		decision := guard.Decide(guard.SurfaceProtected, s)
		allowed := decision.Outcome == guard.OutcomeAllow

		assert.Equal(t, name == "admin", allowed, name)
		if decision.Outcome == guard.OutcomeRedirect {
			assert.Equal(t, "/login", decision.Target, name)
		}
	}
}

/*
TestDecide_Idempotent and loop-free: following a redirect never redirects back.
*/
func TestDecide_Idempotent(t *testing.T) {
	for name, s := range allSessions() {
		for _, surface := range []guard.Surface{guard.SurfaceLogin, guard.SurfaceProtected} {
			first := guard.Decide(surface, s)
			assert.Equal(t, first, guard.Decide(surface, s), name)

			if first.Outcome != guard.OutcomeRedirect {
				continue
			}

			next := guard.SurfaceProtected
			if first.Target == "/login" {
				next = guard.SurfaceLogin
			}
			assert.NotEqual(t, guard.OutcomeRedirect, guard.Decide(next, s).Outcome, name)
		}
	}
}
