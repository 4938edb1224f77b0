package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/m-mizutani/gt"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/repository"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *repository.RedisCache) {
	mr, err := miniredis.Run()
	gt.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := repository.NewRedisCache(context.Background(), mr.Addr(), "", 0)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return mr, cache
}

func TestRedisCacheRoundTrip(t *testing.T) {
	_, cache := setupRedis(t)
	ctx := context.Background()

	_, err := cache.GetCache(ctx, "Koramangala", model.CacheSourceNews)
	gt.True(t, errors.Is(err, interfaces.ErrCacheMiss))

	entry := &model.CacheEntry{
		Location:  "Koramangala",
		Source:    model.CacheSourceNews,
		Payload:   `[{"title":"new flyover opens"}]`,
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, cache.PutCache(ctx, entry))

	got, err := cache.GetCache(ctx, "koramangala", model.CacheSourceNews)
	gt.NoError(t, err)
	gt.Equal(t, got.Payload, entry.Payload)
	gt.Equal(t, got.Location, "Koramangala")

	gt.NoError(t, cache.DeleteCache(ctx, "koramangala", model.CacheSourceNews))
	_, err = cache.GetCache(ctx, "koramangala", model.CacheSourceNews)
	gt.True(t, errors.Is(err, interfaces.ErrCacheMiss))
}

func TestRedisCacheNativeExpiry(t *testing.T) {
	mr, cache := setupRedis(t)
	ctx := context.Background()

	short, err := repository.NewRedisCache(ctx, mr.Addr(), "", 0,
		repository.WithRedisTTL(time.Minute))
	gt.NoError(t, err)
	t.Cleanup(func() { _ = short.Close() })

	entry := &model.CacheEntry{
		Location:  "whitefield",
		Source:    model.CacheSourceTwitter,
		Payload:   `[{"text":"heavy rain near the tech park"}]`,
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, short.PutCache(ctx, entry))

	_, err = cache.GetCache(ctx, "whitefield", model.CacheSourceTwitter)
	gt.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.GetCache(ctx, "whitefield", model.CacheSourceTwitter)
	gt.True(t, errors.Is(err, interfaces.ErrCacheMiss))
}
