// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/notify"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/ctxutil"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
	"github.com/taibuivan/riddlerush/internal/platform/sec"
)

// Browser is everything the server keeps for one browser.
type Browser struct {
	ID      string
	Session *Store
	Flash   *notify.Queue
}

type registryEntry struct {
	browser  *Browser
	lastSeen time.Time
}

// RegistryConfig wires a [Registry].
type RegistryConfig struct {
	Storage         kv.Store
	Tokens          *sec.BrowserTokens
	Exchanger       identity.Exchanger
	Logger          *slog.Logger
	IdleTTL         time.Duration
	CookieMaxAge    time.Duration
	SecureCookie    bool
	ExchangeTimeout time.Duration
}

// Registry maps browser ids to their live [Browser] and evicts idle ones.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry

	cfg    RegistryConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		entries: make(map[string]*registryEntry),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source used for idle eviction.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Browser returns the live browser for id, creating it on first use.
// A new browser's session is not restored yet; callers restore it.
func (r *Registry) Browser(id string) *Browser {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[id]; ok {
		entry.lastSeen = r.now()
		return entry.browser
	}

	scoped := kv.Scope(r.cfg.Storage, constants.PrefixBrowser+id+":")
	queue := notify.NewQueue(scoped)
	browser := &Browser{
		ID:    id,
		Flash: queue,
		Session: NewStore(Options{
			Storage:         scoped,
			Exchanger:       r.cfg.Exchanger,
			Notifier:        queue,
			Logger:          r.logger.With(slog.String("browser_id", id)),
			ExchangeTimeout: r.cfg.ExchangeTimeout,
		}),
	}

	r.entries[id] = &registryEntry{browser: browser, lastSeen: r.now()}
	return browser
}

// Len returns the number of live browsers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// # Eviction

// Run evicts idle browsers until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.RegistrySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := r.Sweep(); evicted > 0 {
				r.logger.Debug("session_registry_swept", slog.Int("evicted", evicted))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep closes and forgets every browser idle for longer than the idle TTL.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	var idle []*Browser
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			idle = append(idle, entry.browser)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, browser := range idle {
		browser.Session.Close()
	}
	return len(idle)
}

// # HTTP

// Middleware identifies the browser from its rr_sid cookie, issuing a new
// one when the cookie is missing or does not verify, restores its session
// and attaches it to the request context.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		browserID, ok := r.browserIDFromCookie(request)
		if !ok {
			var err error
			browserID, err = r.issueCookie(writer)
			if err != nil {
				ctxutil.GetLogger(ctx).ErrorContext(ctx, "browser_cookie_issue_failed", slog.Any("error", err))
				http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		browser := r.Browser(browserID)

		logger := ctxutil.GetLogger(ctx).With(slog.String("browser_id", browserID))
		ctx = ctxutil.WithLogger(ctx, logger)
		ctx = ctxutil.WithBrowserID(ctx, browserID)
		ctx = WithBrowser(ctx, browser)

		browser.Session.Restore(ctx)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (r *Registry) browserIDFromCookie(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(constants.BrowserCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	browserID, err := r.cfg.Tokens.Parse(cookie.Value)
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "browser_cookie_rejected", slog.Any("error", err))
		return "", false
	}
	return browserID, true
}

func (r *Registry) issueCookie(writer http.ResponseWriter) (string, error) {
	browserID, err := sec.NewBrowserID()
	if err != nil {
		return "", err
	}

	signed, err := r.cfg.Tokens.Issue(browserID)
	if err != nil {
		return "", err
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.BrowserCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(r.cfg.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return browserID, nil
}

type browserKey struct{}

// WithBrowser attaches browser to ctx.
func WithBrowser(ctx context.Context, browser *Browser) context.Context {
	return context.WithValue(ctx, browserKey{}, browser)
}

// FromContext returns the browser attached by [Registry.Middleware], or nil.
func FromContext(ctx context.Context) *Browser {
	browser, _ := ctx.Value(browserKey{}).(*Browser)
	return browser
}

// Notifier returns the flash queue of the browser attached to ctx, or nil.
func Notifier(ctx context.Context) notify.Notifier {
	browser := FromContext(ctx)
	if browser == nil {
		return nil
	}
	return browser.Flash
}

// Token returns the bearer token of the session attached to ctx, or "".
func Token(ctx context.Context) string {
	browser := FromContext(ctx)
	if browser == nil {
		return ""
	}
	return browser.Session.Token()
}
