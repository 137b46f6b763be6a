// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv defines the byte-oriented key-value contract that every piece of
server-side state goes through.

Key Taxonomy:

  - browser:{id}:telegram_user, browser:{id}:auth_token: persisted sessions.
  - browser:{id}:flash: pending notifications.
  - cache:...: cached backend responses.
  - riddlerush-storage: the fallback store snapshot.

Backends: [Memory] here, plus the redis and postgres packages.
*/
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key is absent or expired.
	ErrNotFound = errors.New("kv: not found")

	// ErrCorrupt is returned by GetJSON when a stored value does not decode.
	ErrCorrupt = errors.New("kv: corrupt value")
)

// Store is the key-value contract.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// # Namespacing

// Scoped prefixes every key with a fixed namespace.
type Scoped struct {
	inner  Store
	prefix string
}

// Scope returns a view of store where every key is prefixed with prefix.
func Scope(store Store, prefix string) *Scoped {
	return &Scoped{inner: store, prefix: prefix}
}

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, value, ttl)
}

func (s *Scoped) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.prefix + key
	}
	return s.inner.Delete(ctx, full...)
}

// # JSON Helpers

// GetJSON decodes the value under key into target.
func GetJSON(ctx context.Context, store Store, key string, target any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return store.Set(ctx, key, raw, ttl)
}
