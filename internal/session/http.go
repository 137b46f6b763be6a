// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/notify"
	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/riddlerush/internal/platform/request"
	"github.com/taibuivan/riddlerush/internal/platform/respond"
)

const (
	watchPongWait   = 60 * time.Second
	watchPingPeriod = 45 * time.Second
	watchWriteWait  = 5 * time.Second
)

// View is the JSON shape of a session, with the admin predicate resolved.
type View struct {
	Session
	IsAdmin bool `json:"isAdmin"`
}

// NewView resolves s into its JSON shape.
func NewView(s Session) View {
	return View{Session: s, IsAdmin: IsAdmin(s)}
}

// Handler serves the /auth endpoints. It expects [Registry.Middleware]
// upstream.
type Handler struct {
	loginGuard func(http.Handler) http.Handler
	upgrader   websocket.Upgrader
}

// NewHandler creates the auth handler. loginGuard wraps the two login
// endpoints, typically with a rate limiter; nil leaves them unwrapped.
func NewHandler(loginGuard func(http.Handler) http.Handler) *Handler {
	if loginGuard == nil {
		loginGuard = func(next http.Handler) http.Handler { return next }
	}

	return &Handler{
		loginGuard: loginGuard,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Routes returns the router for /auth.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(h.loginGuard).Post("/telegram", h.loginJSON)
	router.With(h.loginGuard).Get("/telegram/callback", h.loginCallback)
	router.Post("/logout", h.logout)
	router.Get("/session", h.current)
	router.Get("/session/watch", h.watch)

	return router
}

// # Login

// loginJSON receives the widget's onauth callback payload.
func (h *Handler) loginJSON(writer http.ResponseWriter, request *http.Request) {
	browser := mustBrowser(writer, request)
	if browser == nil {
		return
	}

	var assertion identity.Assertion
	if err := requestutil.DecodeJSON(request, &assertion); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := assertion.Check(); err != nil {
		respond.Error(writer, request, apperr.ValidationError(err.Error()))
		return
	}

	current, err := browser.Session.Login(request.Context(), assertion)
	if err != nil {
		respond.Error(writer, request, loginError(err))
		return
	}

	respond.OK(writer, NewView(current))
}

// loginCallback receives the widget's data-auth-url redirect.
func (h *Handler) loginCallback(writer http.ResponseWriter, request *http.Request) {
	browser := mustBrowser(writer, request)
	if browser == nil {
		return
	}
	ctx := request.Context()

	assertion, err := identity.FromQuery(request.URL.Query())
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_callback_malformed", slog.Any("error", err))
		if pushErr := browser.Flash.Push(ctx, notify.Failure("Login failed", "The login link is incomplete.")); pushErr != nil {
			ctxutil.GetLogger(ctx).ErrorContext(ctx, "notification_push_failed", slog.Any("error", pushErr))
		}
		http.Redirect(writer, request, constants.PathLogin, http.StatusSeeOther)
		return
	}

	// Failures are already queued as notifications by the store.
	current, _ := browser.Session.Login(ctx, assertion)

	target := constants.PathLogin
	if IsAdmin(current) {
		target = constants.PathHome
	}
	http.Redirect(writer, request, target, http.StatusSeeOther)
}

func loginError(err error) error {
	switch {
	case errors.Is(err, ErrClosed), errors.Is(err, ErrSuperseded):
		return apperr.ServiceUnavailable("Session changed during login, please retry").WithCause(err)
	default:
		return apperr.Unauthorized(identity.FailureMessage(err)).WithCause(err)
	}
}

// # Logout

func (h *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	browser := mustBrowser(writer, request)
	if browser == nil {
		return
	}

	current := browser.Session.Logout(request.Context())

	if wantsJSON(request) {
		respond.OK(writer, NewView(current))
		return
	}
	http.Redirect(writer, request, constants.PathLogin, http.StatusSeeOther)
}

// # Session

func (h *Handler) current(writer http.ResponseWriter, request *http.Request) {
	browser := mustBrowser(writer, request)
	if browser == nil {
		return
	}
	respond.OK(writer, NewView(browser.Session.Current()))
}

// watch streams every session snapshot of this browser over a websocket,
// starting with the current one. Slow readers only see the latest snapshot.
func (h *Handler) watch(writer http.ResponseWriter, request *http.Request) {
	browser := mustBrowser(writer, request)
	if browser == nil {
		return
	}
	logger := ctxutil.GetLogger(request.Context())

	conn, err := h.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		logger.WarnContext(request.Context(), "session_watch_upgrade_failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	updates := make(chan Session, 1)
	unsubscribe := browser.Session.Subscribe(func(next Session) {
		for {
			select {
			case updates <- next:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer unsubscribe()

	// The reader only exists to notice the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(watchPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(watchPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(s Session) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
		return conn.WriteJSON(NewView(s)) == nil
	}

	if !send(browser.Session.Current()) {
		return
	}

	ticker := time.NewTicker(watchPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case next := <-updates:
			if !send(next) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(watchWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// # Helpers

func mustBrowser(writer http.ResponseWriter, request *http.Request) *Browser {
	browser := FromContext(request.Context())
	if browser == nil {
		respond.Error(writer, request, apperr.Internal(errors.New("session: no browser in context")))
	}
	return browser
}

func wantsJSON(request *http.Request) bool {
	return strings.Contains(request.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(request.Header.Get("Content-Type"), "application/json")
}
