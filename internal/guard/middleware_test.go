// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/guard"
	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
	"github.com/taibuivan/riddlerush/internal/session"
)

type exchangeFunc func(ctx context.Context, a identity.Assertion) (identity.Grant, error)

func (f exchangeFunc) Exchange(ctx context.Context, a identity.Assertion) (identity.Grant, error) {
	return f(ctx, a)
}

// browserAs returns a browser whose session is settled for user, or
// anonymous when user is nil.
func browserAs(t *testing.T, user *identity.User) *session.Browser {
	t.Helper()
	exchanger := exchangeFunc(func(context.Context, identity.Assertion) (identity.Grant, error) {
		return identity.Grant{Token: "t", User: *user}, nil
	})

	storage := kv.NewMemory()
	browser := &session.Browser{
		ID:    "0190a5c0-0000-7000-8000-000000000001",
		Session: session.NewStore(session.Options{
			Storage:   storage,
			Exchanger: exchanger,
		}),
	}

	ctx := context.Background()
	browser.Session.Restore(ctx)
	if user != nil {
		_, err := browser.Session.Login(ctx, identity.Assertion{ID: 1, AuthDate: 1, Hash: "h"})
		require.NoError(t, err)
	}
	return browser
}

func serve(handler http.Handler, browser *session.Browser) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if browser != nil {
		request = request.WithContext(session.WithBrowser(request.Context(), browser))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

var (
	content = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("protected content"))
	})
	loadingPage = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("loading"))
	})
)

/*
TestPage_Protected maps decisions to HTTP for HTML surfaces.
*/
func TestPage_Protected(t *testing.T) {
	handler := guard.Page(guard.SurfaceProtected, loadingPage)(content)

	t.Run("anonymous_redirects_without_body", func(t *testing.T) {
		recorder := serve(handler, browserAs(t, nil))
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/login", recorder.Header().Get("Location"))
		assert.Empty(t, recorder.Body.String())
	})

	t.Run("regular_redirects", func(t *testing.T) {
		recorder := serve(handler, browserAs(t, &regular))
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/login", recorder.Header().Get("Location"))
		assert.NotContains(t, recorder.Body.String(), "protected")
	})

	t.Run("admin_allowed", func(t *testing.T) {
		recorder := serve(handler, browserAs(t, &admin))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "protected content", recorder.Body.String())
	})

	t.Run("loading_renders_indicator", func(t *testing.T) {
		browser := &session.Browser{Session: session.NewStore(session.Options{Storage: kv.NewMemory()})}
		recorder := serve(handler, browser)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "loading", recorder.Body.String())
	})

	t.Run("no_browser", func(t *testing.T) {
		recorder := serve(handler, nil)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

/*
TestPage_Login sends admins home and lets everyone else in.
*/
func TestPage_Login(t *testing.T) {
	handler := guard.Page(guard.SurfaceLogin, loadingPage)(content)

	recorder := serve(handler, browserAs(t, &admin))
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))

	assert.Equal(t, http.StatusOK, serve(handler, browserAs(t, &regular)).Code)
	assert.Equal(t, http.StatusOK, serve(handler, browserAs(t, nil)).Code)
}

/*
TestAPI maps decisions to status codes for JSON surfaces.
*/
func TestAPI(t *testing.T) {
	handler := guard.API(content)

	anonymous := serve(handler, browserAs(t, nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Equal(t, "/login", anonymous.Header().Get("Location"))
	assert.Contains(t, anonymous.Body.String(), `"code":"UNAUTHORIZED"`)

	regularResp := serve(handler, browserAs(t, &regular))
	assert.Equal(t, http.StatusForbidden, regularResp.Code)
	assert.Equal(t, "/login", regularResp.Header().Get("Location"))

	adminResp := serve(handler, browserAs(t, &admin))
	assert.Equal(t, http.StatusOK, adminResp.Code)

	loading := serve(handler, &session.Browser{Session: session.NewStore(session.Options{Storage: kv.NewMemory()})})
	assert.Equal(t, http.StatusServiceUnavailable, loading.Code)
	assert.Equal(t, "1", loading.Header().Get("Retry-After"))
}
