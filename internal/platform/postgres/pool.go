// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the durable key-value backend of the admin server.
//
// # Architecture
//
// Selected with STORAGE_BACKEND=postgres. Every value lives in the single
// admin.kv_entry table created by the migration package.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/riddlerush/internal/platform/constants"
)

const (
	maxConns        = 8
	minConns        = 1
	maxConnIdleTime = 10 * time.Minute
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

// Open connects a pool for dsn and returns a [Store] on it. The store owns
// the pool; [Store.Close] releases it.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Session parameters travel in the startup packet, no extra round trip.
	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = constants.AppName
	params["statement_timeout"] = strconv.FormatInt(constants.GlobalRequestTimeout.Milliseconds(), 10)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	store := NewStore(pool)
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, err
	}

	logger.Info("postgres_store_connected",
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return store, nil
}
