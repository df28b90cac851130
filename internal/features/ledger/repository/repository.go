package repository

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("key not found")
	// ErrConflict is returned when an update kept losing to concurrent writers.
	ErrConflict = errors.New("concurrent update conflict")
)

// UpdateFunc receives the current value (nil when the key is absent) and
// returns the value to store.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is the key-value surface the mirrors are persisted through.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Update applies fn atomically with respect to other writers of key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Notifier fans out change events between sessions.
type Notifier interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns once the subscription is active. The returned close
	// function ends the subscription and closes the channel.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error, error)
}
