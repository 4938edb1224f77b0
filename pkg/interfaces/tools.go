package interfaces

import (
	"context"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// ErrRateLimited marks an upstream 429. The dispatcher treats it like
// any other source failure, but keeps the distinction for logging.
var ErrRateLimited = goerr.New("rate limit reached")

// TwitterSource retrieves recent posts about a location or topic.
type TwitterSource interface {
	SearchPosts(ctx context.Context, location, topic string, limit int) ([]model.SocialPost, error)
}

// RedditSource retrieves current posts of a subreddit.
type RedditSource interface {
	SubredditPosts(ctx context.Context, subreddit string, limit int) ([]model.SocialPost, error)
}

// NewsSource retrieves recent news articles about a city.
type NewsSource interface {
	CityNews(ctx context.Context, city string, limit int) ([]model.NewsArticle, error)
}

// MapsSource answers routing and place lookups.
type MapsSource interface {
	BestRoute(ctx context.Context, origin, destination, mode string) (*model.Route, error)
	FindPlaces(ctx context.Context, location string, maxResults int) ([]model.Place, error)
}

// SearchSource runs a generic web search.
type SearchSource interface {
	Search(ctx context.Context, query string, numResults int) ([]model.SearchItem, error)
}

// KnowledgeSource produces background facts about a location when no
// live source applies.
type KnowledgeSource interface {
	Lookup(ctx context.Context, location, topic string) ([]string, error)
}
