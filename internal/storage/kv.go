package storage

import (
	"context"
	"errors"
)

// KV is the byte store the persistence adapter sits on. Collections are
// stored as JSON blobs under three fixed keys.
type KV interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores the value, replacing any previous one.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// ErrKeyNotFound is returned by Get for keys that were never written.
var ErrKeyNotFound = errors.New("key not found")
