// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify keeps the per-browser queue of toast notifications.

A handler pushes a notice after a login attempt or a mutation; the next page
rendered for that browser drains the queue and shows it. The queue lives in
the browser's key-value namespace under the "flash" key, so it survives a
redirect and, with a shared backend, a hop to another instance.
*/
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
)

// Level is the tone of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one toast.
type Notification struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Success builds a success notice.
func Success(title, description string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Description: description}
}

// Failure builds an error notice.
func Failure(title, description string) Notification {
	return Notification{Level: LevelError, Title: title, Description: description}
}

// Notifier accepts notifications.
type Notifier interface {
	Push(ctx context.Context, notification Notification) error
}

// Queue is a FIFO of notifications stored in one browser namespace.
type Queue struct {
	mu    sync.Mutex
	store kv.Store
}

// NewQueue binds a queue to a browser-scoped store.
func NewQueue(store kv.Store) *Queue {
	return &Queue{store: store}
}

// Push appends a notification, dropping the oldest ones past the limit.
func (q *Queue) Push(ctx context.Context, notification Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil {
		return err
	}

	pending = append(pending, notification)
	if overflow := len(pending) - constants.FlashQueueLimit; overflow > 0 {
		pending = pending[overflow:]
	}

	if err := kv.SetJSON(ctx, q.store, constants.StorageKeyFlash, pending, constants.FlashTTL); err != nil {
		return fmt.Errorf("notify: push: %w", err)
	}
	return nil
}

// Drain returns and clears every pending notification, oldest first.
func (q *Queue) Drain(ctx context.Context) ([]Notification, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil || len(pending) == 0 {
		return nil, err
	}

	if err := q.store.Delete(ctx, constants.StorageKeyFlash); err != nil {
		return nil, fmt.Errorf("notify: drain: %w", err)
	}
	return pending, nil
}

// load treats an undecodable queue as empty; a lost toast is harmless.
func (q *Queue) load(ctx context.Context) ([]Notification, error) {
	var pending []Notification
	err := kv.GetJSON(ctx, q.store, constants.StorageKeyFlash, &pending)
	switch {
	case err == nil:
		return pending, nil
	case errors.Is(err, kv.ErrNotFound), errors.Is(err, kv.ErrCorrupt):
		return nil, nil
	default:
		return nil, fmt.Errorf("notify: load: %w", err)
	}
}
