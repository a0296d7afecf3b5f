package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable tags any backend failure. It is only ever logged.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrQuotaExceeded is returned by a MemoryBackend that ran out of room.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrClosed is returned by backends used after Close.
	ErrClosed = errors.New("storage closed")
)

// Backend is a raw key/value store.
//
// Get returns (nil, nil) when the key does not exist. Delete of a missing
// key is not an error.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func unavailable(b Backend, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, b.Name(), err)
}
