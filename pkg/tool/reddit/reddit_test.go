package reddit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/tool/reddit"
	"github.com/m-mizutani/gt"
)

func TestNormalizeSubreddit(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Bengaluru", "bangalore"},
		{"Bengaluru City", "bangalore"},
		{"bangalorecity", "bangalore"},
		{"bangalore", "bangalore"},
		{"mumbai", "mumbai"},
		{"New York", "newyork"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			gt.Equal(t, reddit.NormalizeSubreddit(tc.input), tc.expected)
		})
	}
}

func TestSubredditPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Path, "/r/bangalore/hot.json")
		gt.S(t, r.Header.Get("User-Agent")).Contains("citypulse")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"children": [
					{"data": {"id": "a1", "title": "Metro purple line extension opens", "selftext": "", "author": "u/one"}},
					{"data": {"id": "a2", "title": "Best dosa near Jayanagar?", "selftext": "looking for breakfast spots", "author": "u/two"}}
				]
			}
		}`))
	}))
	defer srv.Close()

	x := reddit.New(reddit.WithBaseURL(srv.URL))

	posts, err := x.SubredditPosts(context.Background(), "Bengaluru City", 5)
	gt.NoError(t, err)
	gt.A(t, posts).Length(2)
	gt.S(t, posts[0].Title).Contains("Metro")
	gt.Equal(t, posts[1].Text, "looking for breakfast spots")
}

func TestSubredditPostsEmptyName(t *testing.T) {
	x := reddit.New()
	_, err := x.SubredditPosts(context.Background(), "   ", 5)
	gt.Error(t, err)
}
