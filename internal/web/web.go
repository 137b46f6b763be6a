// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web renders the admin's HTML pages.

Every page goes through the route guard first. Forms post back to the server,
which runs the mutation, queues a notification for the browser and redirects;
the next rendered page shows the queued notifications.
*/
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/riddlerush/internal/guard"
	"github.com/taibuivan/riddlerush/internal/notify"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/ctxutil"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/internal/resource/fallback"
	"github.com/taibuivan/riddlerush/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// sharedTemplates are parsed into every page.
var sharedTemplates = []string{"templates/layout.html", "templates/partials.html"}

// ViewModes remembers the campaign list layout. Only the fallback store
// persists it.
type ViewModes interface {
	ViewMode() fallback.ViewMode
	SetViewMode(ctx context.Context, mode fallback.ViewMode) error
}

// Options wires a [Handler].
type Options struct {
	Service *resource.Service
	// BotName is the Telegram bot the login widget signs in with.
	BotName string
	// ViewModes is optional.
	ViewModes ViewModes
}

// Handler serves the HTML surfaces.
type Handler struct {
	service *resource.Service
	botName string
	views   ViewModes
	pages   map[string]*template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(opts Options) (*Handler, error) {
	pages, err := parsePages(templateFS)
	if err != nil {
		return nil, err
	}

	return &Handler{
		service: opts.Service,
		botName: opts.BotName,
		views:   opts.ViewModes,
		pages:   pages,
	}, nil
}

func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(fsys, sharedTemplates...)
	if err != nil {
		return nil, fmt.Errorf("web: parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"login", "loading", "home", "campaign", "error"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		page, err := clone.ParseFS(fsys, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		pages[name] = page
	}
	return pages, nil
}

// RegisterRoutes mounts every page on router behind the route guard.
func (h *Handler) RegisterRoutes(router chi.Router) {
	loading := http.HandlerFunc(h.loadingPage)

	router.With(guard.Page(guard.SurfaceLogin, loading)).Get(constants.PathLogin, h.loginPage)

	router.Group(func(protected chi.Router) {
		protected.Use(guard.Page(guard.SurfaceProtected, loading))

		protected.Get(constants.PathHome, h.homePage)
		protected.Post("/campaigns", h.createCampaign)
		protected.Post("/view", h.setView)

		protected.Get("/campaign/{id}", h.campaignPage)
		protected.Post("/campaign/{id}/riddles", h.createRiddle)
		protected.Post("/riddles/{id}", h.updateRiddle)
		protected.Post("/riddles/{id}/delete", h.deleteRiddle)
	})
}

// # Rendering

// pageData is what every template receives.
type pageData struct {
	Title   string
	Session session.View
	Notices []notify.Notification
	Content any
}

func (h *Handler) render(writer http.ResponseWriter, request *http.Request, status int, page, title string, content any) {
	ctx := request.Context()

	data := pageData{Title: title, Content: content}
	if browser := session.FromContext(ctx); browser != nil {
		data.Session = session.NewView(browser.Session.Current())
		data.Notices = h.drain(ctx, browser)
	}

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "page_render_failed", slog.String("page", page), slog.Any("error", err))
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.Header().Set("Cache-Control", "no-store")
	writer.WriteHeader(status)
	_, _ = buf.WriteTo(writer)
}

func (h *Handler) drain(ctx context.Context, browser *session.Browser) []notify.Notification {
	notices, err := browser.Flash.Drain(ctx)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "notifications_drain_failed", slog.Any("error", err))
	}
	return notices
}

func (h *Handler) notify(ctx context.Context, notification notify.Notification) {
	browser := session.FromContext(ctx)
	if browser == nil {
		return
	}
	if err := browser.Flash.Push(ctx, notification); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "notification_push_failed", slog.Any("error", err))
	}
}

// seeOther redirects a form post back to a page.
func seeOther(writer http.ResponseWriter, request *http.Request, target string) {
	http.Redirect(writer, request, target, http.StatusSeeOther)
}
