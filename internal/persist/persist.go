// Package persist mirrors whole lists to a key-value store.
//
// Each list lives under its own key as a JSON array. Writes replace the
// full value; there is no merging and no version field. Reads never fail:
// a missing key, a backend error, or an unparsable value all load as an
// empty list.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// KV is the storage backend behind the bridge.
type KV interface {
	// Get returns the value stored under key. found is false if the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key, replacing any prior value.
	Put(ctx context.Context, key string, value []byte) error
}

// Keys names the two records.
type Keys struct {
	Catalog string
	Order   string
}

// DefaultKeys returns the record names used when none are configured.
func DefaultKeys() Keys {
	return Keys{Catalog: "catalog", Order: "order"}
}

// Load reads the list stored under key.
// Problems are logged at warn level and yield an empty, non-nil slice.
func Load[T any](ctx context.Context, kv KV, key string, logger *slog.Logger) []T {
	if logger == nil {
		logger = slog.Default()
	}

	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		logger.Warn("load failed, starting empty", "key", key, "error", err)
		return []T{}
	}
	if !found {
		logger.Debug("key not found, starting empty", "key", key)
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("stored value is malformed, starting empty", "key", key, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}

	logger.Debug("loaded", "key", key, "count", len(items))
	return items
}

// Save serializes items and writes them under key.
// A nil slice is stored as an empty array.
func Save[T any](ctx context.Context, kv KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	return nil
}
