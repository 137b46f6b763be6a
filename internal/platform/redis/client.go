// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis backs the admin key-value store with Redis.

Selected with STORAGE_BACKEND=redis, it lets several admin instances behind a
load balancer share browser sessions, flash notifications and the resource
cache. Expiry is native: every TTL becomes a Redis PX.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/riddlerush/internal/platform/constants"
)

const (
	pingTimeout = 2 * time.Second

	// Session reads are tiny and frequent.
	poolSize     = 10
	minIdleConns = 2
)

// Open parses redisURL, connects, and returns a [Store] on the new client.
// The store owns the client; [Store.Close] releases it.
func Open(ctx context.Context, redisURL string, logger *slog.Logger) (*Store, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = pingTimeout
	options.WriteTimeout = pingTimeout

	store := NewStore(redis.NewClient(options))
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Info("redis_store_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return store, nil
}
