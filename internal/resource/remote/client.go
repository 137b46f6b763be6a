// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package remote implements the resource provider against the RiddleRush
// REST backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/riddlerush/internal/resource"
)

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 1 << 20

// TokenFunc returns the bearer token for the request behind ctx, or "".
type TokenFunc func(ctx context.Context) string

// Client talks to the backend. It satisfies [resource.Provider].
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
}

var _ resource.Provider = (*Client)(nil)

// New creates a client for baseURL. token may be nil for anonymous calls.
func New(baseURL string, httpClient *http.Client, token TokenFunc) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      token,
	}
}

// # Campaigns

// ListCampaigns fetches every campaign.
func (c *Client) ListCampaigns(ctx context.Context) ([]resource.Campaign, error) {
	var campaigns []resource.Campaign
	if err := c.get(ctx, "/campaigns", &campaigns); err != nil {
		return nil, translate(err, "Campaign", "Failed to fetch campaigns")
	}
	return campaigns, nil
}

// CreateCampaign posts a new campaign.
func (c *Client) CreateCampaign(ctx context.Context, input resource.CampaignInput) (*resource.Campaign, error) {
	var created resource.Campaign
	if err := c.doRequest(ctx, http.MethodPost, "/campaigns", input, &created); err != nil {
		return nil, translate(err, "Campaign", "Failed to create campaign")
	}
	return &created, nil
}

// # Riddles

// ListRiddles fetches the riddles of one campaign.
func (c *Client) ListRiddles(ctx context.Context, campaignID string) ([]resource.Riddle, error) {
	var riddles []resource.Riddle
	if err := c.get(ctx, "/campaigns/"+url.PathEscape(campaignID)+"/riddles", &riddles); err != nil {
		return nil, translate(err, "Campaign", "Failed to fetch riddles")
	}
	return riddles, nil
}

// CreateRiddle adds a riddle to a campaign.
func (c *Client) CreateRiddle(ctx context.Context, campaignID string, input resource.RiddleInput) (*resource.Riddle, error) {
	var created resource.Riddle
	path := "/campaigns/" + url.PathEscape(campaignID) + "/riddles"
	if err := c.doRequest(ctx, http.MethodPost, path, input, &created); err != nil {
		return nil, translate(err, "Campaign", "Failed to create riddle")
	}
	if created.CampaignID == "" {
		created.CampaignID = campaignID
	}
	return &created, nil
}

// UpdateRiddle replaces a riddle.
func (c *Client) UpdateRiddle(ctx context.Context, riddleID string, input resource.RiddleInput) (*resource.Riddle, error) {
	var updated resource.Riddle
	if err := c.doRequest(ctx, http.MethodPut, "/riddles/"+url.PathEscape(riddleID), input, &updated); err != nil {
		return nil, translate(err, "Riddle", "Failed to update riddle")
	}
	if updated.ID == "" {
		updated.ID = riddleID
	}
	return &updated, nil
}

// DeleteRiddle removes a riddle.
func (c *Client) DeleteRiddle(ctx context.Context, riddleID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/riddles/"+url.PathEscape(riddleID), nil, nil); err != nil {
		return translate(err, "Riddle", "Failed to delete riddle")
	}
	return nil
}

// # Leaderboard

// Leaderboard fetches the top entries of a campaign.
func (c *Client) Leaderboard(ctx context.Context, campaignID string, limit int) ([]resource.LeaderboardEntry, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var entries []resource.LeaderboardEntry
	path := "/campaigns/" + url.PathEscape(campaignID) + "/leaderboard?" + params.Encode()
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, translate(err, "Campaign", "Failed to fetch leaderboard")
	}
	return entries, nil
}

// # Transport

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return readHTTPError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

// readHTTPError takes the backend's message from "message", falling back to
// "error". A body without either yields an empty message.
func readHTTPError(resp *http.Response) error {
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) != nil {
		return &HTTPError{StatusCode: resp.StatusCode}
	}
	if apiErr.Message != "" {
		return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
}
