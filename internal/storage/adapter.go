package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/learnkeeper/internal/logging"
)

// Adapter is the fallback chain over a durable primary and a volatile
// secondary backend. All methods are safe for concurrent use as long as the
// backends are.
type Adapter struct {
	primary   Backend
	secondary Backend
	prefix    string
	log       logging.Logger
}

type AdapterOption func(*Adapter)

// WithPrefix namespaces every key, e.g. "learnkeeper:".
func WithPrefix(prefix string) AdapterOption {
	return func(a *Adapter) { a.prefix = prefix }
}

// NewAdapter chains primary and secondary. A nil secondary gets an
// unbounded MemoryBackend.
func NewAdapter(primary, secondary Backend, logger logging.Logger, opts ...AdapterOption) *Adapter {
	if secondary == nil {
		secondary = NewMemoryBackend(0)
	}
	a := &Adapter{
		primary:   primary,
		secondary: secondary,
		log:       logger.With("component", "storage"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Write stores v as JSON under key in both backends. Failures are logged,
// never returned.
func (a *Adapter) Write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.Error(ctx, "encode failed, nothing persisted", "key", key, "error", err)
		return
	}

	full := a.prefix + key

	primaryErr := a.primary.Set(ctx, full, data)
	if primaryErr != nil {
		a.log.Warn(ctx, "primary write failed, relying on mirror",
			"key", key, "error", unavailable(a.primary, primaryErr))
	}

	if err := a.secondary.Set(ctx, full, data); err != nil {
		if primaryErr != nil {
			a.log.Error(ctx, "write lost on every backend, state kept in memory only",
				"key", key, "error", unavailable(a.secondary, err))
			return
		}
		a.log.Warn(ctx, "mirror write failed", "key", key, "error", unavailable(a.secondary, err))
		return
	}

	a.log.Debug(ctx, "persisted", "key", key, "bytes", len(data))
}

// Read returns the raw JSON stored under key. The primary wins unless it
// has nothing or holds a payload that does not parse.
func (a *Adapter) Read(ctx context.Context, key string) ([]byte, bool) {
	full := a.prefix + key

	for _, b := range []Backend{a.primary, a.secondary} {
		raw, err := b.Get(ctx, full)
		if err != nil {
			a.log.Warn(ctx, "read failed", "key", key, "error", unavailable(b, err))
			continue
		}
		if raw == nil {
			continue
		}
		if !json.Valid(raw) {
			a.log.Warn(ctx, "unparseable payload skipped", "key", key, "backend", b.Name())
			continue
		}
		return raw, true
	}
	return nil, false
}

// Remove deletes key from both backends.
func (a *Adapter) Remove(ctx context.Context, key string) {
	full := a.prefix + key

	for _, b := range []Backend{a.primary, a.secondary} {
		if err := b.Delete(ctx, full); err != nil {
			a.log.Warn(ctx, "remove failed", "key", key, "error", unavailable(b, err))
		}
	}
}

// Close closes both backends.
func (a *Adapter) Close() error {
	return errors.Join(a.primary.Close(), a.secondary.Close())
}
