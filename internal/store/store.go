// Package store persists the application's collections as JSON blobs, one
// blob per key.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Collection keys.
const (
	KeyEvents        = "campusconnect:events:v1"
	KeyNotifications = "campusconnect:notifications:v1"
	KeyCertificates  = "campusconnect:certificates:v1"
)

// Store is a key/blob store. Get returns nil data and a nil error for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Load decodes the blob stored under key. A missing or unreadable blob
// yields fallback; only backend failures are returned as errors.
func Load[T any](ctx context.Context, s Store, key string, fallback T) (T, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("load %s: %w", key, err)
	}
	if data == nil {
		return fallback, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		zap.L().Warn("discarding unreadable blob", zap.String("key", key), zap.Error(err))
		return fallback, nil
	}
	return v, nil
}

// Save encodes v and stores it under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Guard serialises read-modify-write cycles against a Store within one
// process. Calls to Do must not nest.
type Guard struct {
	mu sync.Mutex
}

// NewGuard returns an unlocked guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Do runs fn while holding the guard.
func (g *Guard) Do(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
