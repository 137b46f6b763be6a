// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/ctxutil"
	"github.com/taibuivan/riddlerush/internal/platform/respond"
	"github.com/taibuivan/riddlerush/internal/session"
)

// loadingRetryAfter is the Retry-After hint, in seconds, for a loading session.
const loadingRetryAfter = 1

// Page guards an HTML surface. While the session is loading, loading renders
// instead of next. A redirect is written with no body at all.
func Page(surface Surface, loading http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision, ok := decide(writer, request, surface)
			if !ok {
				return
			}

			switch decision.Outcome {
			case OutcomeLoading:
				writer.Header().Set("Cache-Control", "no-store")
				loading.ServeHTTP(writer, request)
			case OutcomeRedirect:
				logDenied(request, decision)
				writer.Header().Set(constants.HeaderLocation, decision.Target)
				writer.Header().Set("Cache-Control", "no-store")
				writer.WriteHeader(http.StatusSeeOther)
			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}

// API guards a protected JSON surface. Redirects become 401 or 403 with a
// Location header; a loading session becomes 503 with Retry-After.
func API(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		decision, ok := decide(writer, request, SurfaceProtected)
		if !ok {
			return
		}

		switch decision.Outcome {
		case OutcomeLoading:
			writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(loadingRetryAfter))
			respond.Error(writer, request, apperr.ServiceUnavailable("Session is loading"))
		case OutcomeRedirect:
			logDenied(request, decision)
			var denial *apperr.AppError
			if decision.Reason == ReasonNotAdmin {
				denial = apperr.Forbidden("You do not have admin permissions to access this platform.")
			} else {
				denial = apperr.Unauthorized("Authentication required")
			}
			respond.Denied(writer, request, denial, decision.Target)
		default:
			next.ServeHTTP(writer, request)
		}
	})
}

func decide(writer http.ResponseWriter, request *http.Request, surface Surface) (Decision, bool) {
	browser := session.FromContext(request.Context())
	if browser == nil {
		respond.Error(writer, request, apperr.Internal(nil))
		return Decision{}, false
	}
	return Decide(surface, browser.Session.Current()), true
}

var reasonNames = map[Reason]string{
	ReasonUnauthenticated: "unauthenticated",
	ReasonNotAdmin:        "not_admin",
	ReasonAlreadySignedIn: "already_signed_in",
}

func logDenied(request *http.Request, decision Decision) {
	ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "guard_redirect",
		slog.String("reason", reasonNames[decision.Reason]),
		slog.String("target", decision.Target),
	)
}
