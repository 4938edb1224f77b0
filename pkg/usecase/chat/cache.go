package chat

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
)

// fetchCached is the cache-aside path for a (location, source) payload.
// A fresh, reusable entry short-circuits the live fetch; a stale, empty
// or failure-looking entry is purged first so it is never served again.
// Cache trouble never fails the request, only the live fetch can.
func fetchCached[T any](ctx context.Context, uc *UseCase, location, source string, fetch func() (T, error)) (T, error) {
	if uc.cache != nil {
		if payload, ok := lookupCache[T](ctx, uc, location, source); ok {
			return payload, nil
		}
	}

	payload, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	if uc.cache != nil {
		storeCache(ctx, uc, location, source, payload)
	}
	return payload, nil
}

// lookupCache returns a decoded payload when a servable entry exists.
// Unusable entries are deleted on the way out.
func lookupCache[T any](ctx context.Context, uc *UseCase, location, source string) (T, bool) {
	logger := logging.From(ctx)
	var zero T

	entry, err := uc.cache.GetCache(ctx, location, source)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			logger.Warn("cache lookup failed",
				"location", location, "source", source, "error", err)
		}
		return zero, false
	}

	if !entry.Fresh(uc.cacheTTL, uc.now()) || !entry.Reusable() {
		logger.Info("purging unusable cache entry",
			"location", location, "source", source,
			"updated_at", entry.UpdatedAt)
		if err := uc.cache.DeleteCache(ctx, location, source); err != nil {
			logger.Warn("failed to purge cache entry",
				"location", location, "source", source, "error", err)
		}
		return zero, false
	}

	var payload T
	if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
		logger.Warn("cached payload is corrupt, purging",
			"location", location, "source", source, "error", err)
		if err := uc.cache.DeleteCache(ctx, location, source); err != nil {
			logger.Warn("failed to purge cache entry",
				"location", location, "source", source, "error", err)
		}
		return zero, false
	}

	logger.Debug("serving cached payload", "location", location, "source", source)
	return payload, true
}

func storeCache[T any](ctx context.Context, uc *UseCase, location, source string, payload T) {
	logger := logging.From(ctx)

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("failed to encode payload for cache",
			"location", location, "source", source, "error", err)
		return
	}

	entry := &model.CacheEntry{
		Location:  model.NormalizeLocation(location),
		Source:    source,
		Payload:   string(raw),
		UpdatedAt: uc.now(),
	}
	if !entry.Reusable() {
		// nothing worth caching
		return
	}

	if err := uc.cache.PutCache(ctx, entry); err != nil {
		logger.Warn("failed to store cache entry",
			"location", location, "source", source, "error", err)
	}
}
