package interfaces

import (
	"context"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// ErrCacheMiss is returned when no entry exists for a (location, source)
// pair.
var ErrCacheMiss = goerr.New("cache miss")

// Cache defines the interface for the per-location source payload cache.
// Freshness is judged by the caller via CacheEntry.Fresh; backends may
// additionally expire entries on their own.
type Cache interface {
	// GetCache retrieves the entry for a (location, source) pair.
	// Returns ErrCacheMiss when absent
	GetCache(ctx context.Context, location, source string) (*model.CacheEntry, error)

	// PutCache stores an entry, replacing any previous one for its pair
	PutCache(ctx context.Context, entry *model.CacheEntry) error

	// DeleteCache removes the entry for a pair. Removing a missing entry
	// is not an error
	DeleteCache(ctx context.Context, location, source string) error
}
