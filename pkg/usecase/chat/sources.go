package chat

import (
	"context"
	"fmt"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// BestRoute fetches directions and remembers the result under both
// endpoints, so a later mood snapshot of either location can pick up the
// transit signal.
func (uc *UseCase) BestRoute(ctx context.Context, origin, destination, mode string) (*model.Route, error) {
	if uc.maps == nil {
		return nil, goerr.New("maps source is not configured")
	}

	route, err := uc.maps.BestRoute(ctx, origin, destination, mode)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && route != nil {
		storeCache(ctx, uc, origin, model.CacheSourceMaps, route)
		storeCache(ctx, uc, destination, model.CacheSourceMaps, route)
	}
	return route, nil
}

// Places looks up top rated places with cache-aside reuse.
func (uc *UseCase) Places(ctx context.Context, location string, maxResults int) ([]model.Place, error) {
	if uc.maps == nil {
		return nil, goerr.New("maps source is not configured")
	}
	return fetchCached(ctx, uc, location, model.CacheSourcePlaces, func() ([]model.Place, error) {
		return uc.maps.FindPlaces(ctx, location, maxResults)
	})
}

// Mood gathers a unified snapshot for the location and scores it. Source
// failures contribute empty payloads, so the result degrades toward
// neutral instead of failing.
func (uc *UseCase) Mood(ctx context.Context, location string) model.MoodResult {
	return uc.mood.Aggregate(uc.Collect(ctx, location))
}

// Collect assembles the per-source payloads for one location. Twitter,
// Reddit, news and search go through the cache-aside path; the maps
// payload is only ever read from the cache, because a mood query names a
// single location and a route needs two.
func (uc *UseCase) Collect(ctx context.Context, location string) model.UnifiedResult {
	logger := logging.From(ctx)
	var src model.Sources

	if uc.twitter != nil {
		posts, err := fetchCached(ctx, uc, location, model.CacheSourceTwitter, func() ([]model.SocialPost, error) {
			return uc.twitter.SearchPosts(ctx, location, "general", 10)
		})
		if err != nil {
			logger.Warn("twitter unavailable for snapshot", "location", location, "error", err)
		} else {
			src.Twitter = posts
		}
	}

	if uc.reddit != nil {
		posts, err := fetchCached(ctx, uc, location, model.CacheSourceReddit, func() ([]model.SocialPost, error) {
			return uc.reddit.SubredditPosts(ctx, location, 5)
		})
		if err != nil {
			logger.Warn("reddit unavailable for snapshot", "location", location, "error", err)
		} else {
			src.Reddit = posts
		}
	}

	if uc.news != nil {
		articles, err := fetchCached(ctx, uc, location, model.CacheSourceNews, func() ([]model.NewsArticle, error) {
			return uc.news.CityNews(ctx, location, 5)
		})
		if err != nil {
			logger.Warn("news unavailable for snapshot", "location", location, "error", err)
		} else {
			src.News = articles
		}
	}

	if uc.search != nil {
		items, err := uc.search.Search(ctx, fmt.Sprintf("%s current events", location), 5)
		if err != nil {
			logger.Warn("search unavailable for snapshot", "location", location, "error", err)
		} else {
			src.Search = items
		}
	}

	if uc.cache != nil {
		if route, ok := lookupCache[model.Route](ctx, uc, location, model.CacheSourceMaps); ok {
			src.Maps = route
		}
	}

	return model.Unify(src)
}
