// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/riddlerush/internal/platform/kv"
)

// Store implements [kv.Store] on the admin.kv_entry table.
//
// Expired rows are ignored on read and removed lazily by [Store.Purge].
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewStore wraps pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

const (
	selectEntrySQL = `
SELECT value FROM admin.kv_entry
WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`

	upsertEntrySQL = `
INSERT INTO admin.kv_entry (key, value, expires_at, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`

	deleteEntriesSQL = `DELETE FROM admin.kv_entry WHERE key = ANY($1)`

	purgeExpiredSQL = `DELETE FROM admin.kv_entry WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

// Get returns the value under key, or [kv.ErrNotFound].
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, selectEntrySQL, key, s.now()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts value; a zero ttl stores it without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	currentTime := s.now()

	var expiresAt *time.Time
	if ttl > 0 {
		at := currentTime.Add(ttl)
		expiresAt = &at
	}

	if _, err := s.pool.Exec(ctx, upsertEntrySQL, key, value, expiresAt, currentTime); err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, deleteEntriesSQL, keys); err != nil {
		return fmt.Errorf("postgres: delete: %w", err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, purgeExpiredSQL, s.now())
	if err != nil {
		return 0, fmt.Errorf("postgres: purge: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
