// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/platform/kv"
)

/*
TestMemory_Expiry verifies that a TTL hides the entry once the clock passes it.
*/
func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := kv.NewMemory().WithClock(func() time.Time { return current })

	require.NoError(t, store.Set(ctx, "cache:campaigns", []byte("[]"), time.Minute))
	require.NoError(t, store.Set(ctx, "riddlerush-storage", []byte("{}"), 0))

	got, err := store.Get(ctx, "cache:campaigns")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)

	current = current.Add(time.Minute)

	_, err = store.Get(ctx, "cache:campaigns")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	_, err = store.Get(ctx, "riddlerush-storage")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

/*
TestMemory_CopiesValues guards against callers mutating stored bytes.
*/
func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

/*
TestScoped_Isolation keeps two browsers' keys apart.
*/
func TestScoped_Isolation(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	alice := kv.Scope(store, "browser:a:")
	bob := kv.Scope(store, "browser:b:")

	require.NoError(t, kv.SetJSON(ctx, alice, "telegram_user", map[string]string{"role": "admin"}, 0))

	_, err := bob.Get(ctx, "telegram_user")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	raw, err := store.Get(ctx, "browser:a:telegram_user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"admin"}`, string(raw))

	require.NoError(t, alice.Delete(ctx, "telegram_user", "auth_token"))
	assert.Equal(t, 0, store.Len())
}

/*
TestGetJSON_Corrupt surfaces decode failures instead of zero values.
*/
func TestGetJSON_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, "k", []byte("{not json"), 0))

	var target map[string]any
	err := kv.GetJSON(ctx, store, "k", &target)
	require.Error(t, err)
	assert.ErrorIs(t, err, kv.ErrCorrupt)
	assert.NotErrorIs(t, err, kv.ErrNotFound)
}
