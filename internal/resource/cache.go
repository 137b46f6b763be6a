// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/ctxutil"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
)

// Cached is a read-through cache over a [Provider].
//
// List results are kept for the configured TTL. Mutations drop the lists
// they could have changed. Cache failures are logged and never fail the call.
type Cached struct {
	inner Provider
	store kv.Store
	ttl   time.Duration

	// riddleCampaign remembers which campaign a riddle belongs to so that
	// updates and deletes, which only carry the riddle id, can invalidate.
	riddleCampaign map[string]string
	mu             sync.Mutex
}

// NewCached wraps inner with a cache kept in store.
func NewCached(inner Provider, store kv.Store, ttl time.Duration) *Cached {
	return &Cached{
		inner:          inner,
		store:          kv.Scope(store, constants.PrefixCache),
		ttl:            ttl,
		riddleCampaign: make(map[string]string),
	}
}

const campaignsKey = "campaigns"

func riddlesKey(campaignID string) string { return "riddles:" + campaignID }

func leaderboardKey(campaignID string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", campaignID, limit)
}

// # Reads

func (c *Cached) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	return readThrough(ctx, c, campaignsKey, func() ([]Campaign, error) {
		return c.inner.ListCampaigns(ctx)
	})
}

func (c *Cached) ListRiddles(ctx context.Context, campaignID string) ([]Riddle, error) {
	riddles, err := readThrough(ctx, c, riddlesKey(campaignID), func() ([]Riddle, error) {
		return c.inner.ListRiddles(ctx, campaignID)
	})
	if err == nil {
		c.remember(riddles...)
	}
	return riddles, err
}

func (c *Cached) Leaderboard(ctx context.Context, campaignID string, limit int) ([]LeaderboardEntry, error) {
	return readThrough(ctx, c, leaderboardKey(campaignID, limit), func() ([]LeaderboardEntry, error) {
		return c.inner.Leaderboard(ctx, campaignID, limit)
	})
}

// # Writes

func (c *Cached) CreateCampaign(ctx context.Context, input CampaignInput) (*Campaign, error) {
	campaign, err := c.inner.CreateCampaign(ctx, input)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, campaignsKey)
	return campaign, nil
}

func (c *Cached) CreateRiddle(ctx context.Context, campaignID string, input RiddleInput) (*Riddle, error) {
	riddle, err := c.inner.CreateRiddle(ctx, campaignID, input)
	if err != nil {
		return nil, err
	}
	c.remember(*riddle)
	// The fallback store also counts questions per campaign.
	c.invalidate(ctx, riddlesKey(campaignID), campaignsKey)
	return riddle, nil
}

func (c *Cached) UpdateRiddle(ctx context.Context, riddleID string, input RiddleInput) (*Riddle, error) {
	riddle, err := c.inner.UpdateRiddle(ctx, riddleID, input)
	if err != nil {
		return nil, err
	}
	if riddle.CampaignID == "" {
		if owner, ok := c.owner(riddleID); ok {
			updated := *riddle
			updated.CampaignID = owner
			riddle = &updated
		}
	}
	if riddle.CampaignID == "" {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_riddle_owner_unknown", slog.String("riddle_id", riddleID))
		return riddle, nil
	}

	c.remember(*riddle)
	c.invalidate(ctx, riddlesKey(riddle.CampaignID))
	return riddle, nil
}

func (c *Cached) DeleteRiddle(ctx context.Context, riddleID string) error {
	campaignID, known := c.forget(riddleID)

	if err := c.inner.DeleteRiddle(ctx, riddleID); err != nil {
		return err
	}

	if !known {
		// Without the owning campaign every riddle list may be stale; the
		// campaign list is the only key that can be named, the rest expire.
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_riddle_owner_unknown", slog.String("riddle_id", riddleID))
		c.invalidate(ctx, campaignsKey)
		return nil
	}
	c.invalidate(ctx, riddlesKey(campaignID), campaignsKey)
	return nil
}

// # Internals

func readThrough[T any](ctx context.Context, c *Cached, key string, load func() ([]T, error)) ([]T, error) {
	logger := ctxutil.GetLogger(ctx)

	var cached []T
	err := kv.GetJSON(ctx, c.store, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, kv.ErrNotFound):
	default:
		logger.WarnContext(ctx, "cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}

	fresh, err := load()
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		fresh = []T{}
	}

	if err := kv.SetJSON(ctx, c.store, key, fresh, c.ttl); err != nil {
		logger.WarnContext(ctx, "cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
	return fresh, nil
}

func (c *Cached) invalidate(ctx context.Context, keys ...string) {
	if err := c.store.Delete(ctx, keys...); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_invalidate_failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

func (c *Cached) remember(riddles ...Riddle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range riddles {
		if r.ID != "" && r.CampaignID != "" {
			c.riddleCampaign[r.ID] = r.CampaignID
		}
	}
}

func (c *Cached) owner(riddleID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	campaignID, ok := c.riddleCampaign[riddleID]
	return campaignID, ok
}

func (c *Cached) forget(riddleID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	campaignID, ok := c.riddleCampaign[riddleID]
	delete(c.riddleCampaign, riddleID)
	return campaignID, ok
}
