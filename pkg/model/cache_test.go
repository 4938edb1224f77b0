package model_test

import (
	"testing"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestCacheKey(t *testing.T) {
	gt.Equal(t, model.CacheKey("Bangalore", "news"), "bangalore_news")
	gt.Equal(t, model.CacheKey("  HSR Layout ", "twitter"), "hsr layout_twitter")
	gt.Equal(t, model.CacheKey("Indiranagar/100ft", "places"), "indiranagar_100ft_places")
}

func TestCacheEntryFresh(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := &model.CacheEntry{
		Location:  "bangalore",
		Source:    model.CacheSourceNews,
		Payload:   `[{"title":"x"}]`,
		UpdatedAt: now.Add(-23 * time.Hour),
	}
	gt.True(t, entry.Fresh(24*time.Hour, now))
	gt.False(t, entry.Fresh(time.Hour, now))

	empty := &model.CacheEntry{}
	gt.False(t, empty.Fresh(24*time.Hour, now))
}

func TestLooksLikeFailure(t *testing.T) {
	failures := []string{
		"No places found for Whitefield.",
		"error: upstream timed out",
		"Exception while calling API",
		"route not found",
		"could not find any tweets",
		"   ",
	}
	for _, s := range failures {
		gt.True(t, model.LooksLikeFailure(s))
	}

	healthy := []string{
		`[{"title":"new flyover inaugurated"}]`,
		"Top places in Bangalore: Lalbagh, Cubbon Park",
	}
	for _, s := range healthy {
		gt.False(t, model.LooksLikeFailure(s))
	}
}

func TestCacheEntryReusable(t *testing.T) {
	gt.False(t, (&model.CacheEntry{Payload: ""}).Reusable())
	gt.False(t, (&model.CacheEntry{Payload: "[]"}).Reusable())
	gt.False(t, (&model.CacheEntry{Payload: "null"}).Reusable())
	gt.False(t, (&model.CacheEntry{Payload: "No places found for Whitefield."}).Reusable())
	gt.True(t, (&model.CacheEntry{Payload: `[{"name":"Lalbagh"}]`}).Reusable())
}
