// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/notify"
	"github.com/taibuivan/riddlerush/internal/resource"
)

// recorder collects pushed notifications.
type recorder struct {
	mu   sync.Mutex
	seen []notify.Notification
}

func (r *recorder) Push(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
	return nil
}

func (r *recorder) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return notify.Notification{}
	}
	return r.seen[len(r.seen)-1]
}

func newAPI(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	notes := &recorder{}
	service := resource.NewService(newFallbackProvider(t)).WithClock(func() time.Time { return testNow })
	handler := resource.NewHandler(service, func(context.Context) notify.Notifier { return notes })

	router := chi.NewRouter()
	router.Route("/api/v1", handler.RegisterRoutes)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, notes
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	request, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

/*
TestAPI_Campaigns lists and creates campaigns.
*/
func TestAPI_Campaigns(t *testing.T) {
	server, notes := newAPI(t)

	resp, body := do(t, http.MethodGet, server.URL+"/api/v1/campaigns", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 4)

	resp, body = do(t, http.MethodPost, server.URL+"/api/v1/campaigns", `{"name":"Night Owls","language":"ar","is_active":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := body["data"].(map[string]any)
	assert.Equal(t, "Night Owls", created["name"])

	assert.Equal(t, notify.LevelSuccess, notes.last().Level)
	assert.Equal(t, "Campaign created successfully", notes.last().Title)
	assert.Equal(t, `"Night Owls" has been created and is ready for questions.`, notes.last().Description)

	resp, body = do(t, http.MethodGet, server.URL+"/api/v1/campaigns/"+created["id"].(string), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["is_active"])
}

/*
TestAPI_CreateCampaignInvalid answers 400 with field details and a notice.
*/
func TestAPI_CreateCampaignInvalid(t *testing.T) {
	server, notes := newAPI(t)

	resp, body := do(t, http.MethodPost, server.URL+"/api/v1/campaigns", `{"name":"ab","language":"en"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "name", details[0].(map[string]any)["field"])

	assert.Equal(t, notify.LevelError, notes.last().Level)
	assert.Equal(t, "Error creating campaign", notes.last().Title)
	assert.Equal(t, "Campaign name must be at least 3 characters", notes.last().Description)

	resp, _ = do(t, http.MethodPost, server.URL+"/api/v1/campaigns", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

/*
TestAPI_Riddles walks a riddle through its lifecycle with derived status.
*/
func TestAPI_Riddles(t *testing.T) {
	server, _ := newAPI(t)
	base := server.URL + "/api/v1"

	resp, body := do(t, http.MethodGet, base+"/campaigns/1/riddles", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	riddles := body["data"].([]any)
	require.Len(t, riddles, 2)
	// Seeded windows lie on 20 and 21 January; the clock is 21 January noon.
	assert.Equal(t, "ended", riddles[0].(map[string]any)["status"])
	assert.Equal(t, "active", riddles[1].(map[string]any)["status"])
	assert.Equal(t, "ai-validated", riddles[1].(map[string]any)["answer_type"])

	payload := `{"question":"What gets wetter the more it dries?","answer":"towel","is_answer_static":true,
		"start_date":"2024-01-22T10:00","end_date":"2024-01-22T12:00"}`
	resp, body = do(t, http.MethodPost, base+"/campaigns/3/riddles", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := body["data"].(map[string]any)
	assert.Equal(t, "upcoming", created["status"])
	id := created["id"].(string)

	resp, body = do(t, http.MethodPut, base+"/riddles/"+id, strings.Replace(payload, `"towel"`, `"a towel"`, 1))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a towel", body["data"].(map[string]any)["answer"])

	resp, _ = do(t, http.MethodDelete, base+"/riddles/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodDelete, base+"/riddles/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Riddle not found", body["error"])
}

/*
TestAPI_RiddleInPast is rejected before reaching the provider.
*/
func TestAPI_RiddleInPast(t *testing.T) {
	server, _ := newAPI(t)

	payload := `{"question":"What gets wetter the more it dries?","answer":"towel","is_answer_static":true,
		"start_date":"2024-01-20T10:00","end_date":"2024-01-22T12:00"}`
	resp, body := do(t, http.MethodPost, server.URL+"/api/v1/campaigns/3/riddles", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	details := body["details"].([]any)
	assert.Equal(t, "Start time must be in the future", details[0].(map[string]any)["message"])
}

/*
TestAPI_Leaderboard honours the limit and falls back on bad values.
*/
func TestAPI_Leaderboard(t *testing.T) {
	server, _ := newAPI(t)

	resp, body := do(t, http.MethodGet, server.URL+"/api/v1/campaigns/4/leaderboard?limit=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	resp, body = do(t, http.MethodGet, server.URL+"/api/v1/campaigns/4/leaderboard?limit=abc", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 2)

	resp, _ = do(t, http.MethodGet, server.URL+"/api/v1/campaigns/missing/leaderboard", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
