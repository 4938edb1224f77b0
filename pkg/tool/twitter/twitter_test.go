package twitter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/tool/twitter"
	"github.com/m-mizutani/gt"
)

func TestSearchPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.S(t, r.URL.Path).Contains("/tweets/search/recent")
		gt.Equal(t, r.Header.Get("Authorization"), "Bearer test-token")
		gt.S(t, r.URL.Query().Get("query")).Contains("-is:retweet")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "1", "text": "traffic is terrible near Silk Board", "author_id": "u1", "created_at": "2025-08-01T10:00:00Z"},
				{"id": "2", "text": "lovely weather today", "author_id": "u2", "created_at": "2025-08-01T10:05:00Z"}
			]
		}`))
	}))
	defer srv.Close()

	x := twitter.New(twitter.WithBaseURL(srv.URL), twitter.WithBearerToken("test-token"))

	posts, err := x.SearchPosts(context.Background(), "Bangalore", "traffic", 10)
	gt.NoError(t, err)
	gt.A(t, posts).Length(2)
	gt.Equal(t, posts[0].ID, "1")
	gt.S(t, posts[0].Text).Contains("Silk Board")
	gt.Equal(t, posts[1].Author, "u2")
}

func TestSearchPostsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	x := twitter.New(twitter.WithBaseURL(srv.URL), twitter.WithBearerToken("test-token"))

	_, err := x.SearchPosts(context.Background(), "Bangalore", "general", 10)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, interfaces.ErrRateLimited))
}

func TestInitWithoutToken(t *testing.T) {
	x := twitter.New()
	ok, err := x.Init(context.Background(), nil)
	gt.NoError(t, err)
	gt.False(t, ok)
}
