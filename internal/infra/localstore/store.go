package localstore

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("local store is closed")

// Store is the device's durable key/value storage.
type Store interface {
	// Get reports ok=false for a missing key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
