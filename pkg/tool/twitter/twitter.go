package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

const defaultBaseURL = "https://api.twitter.com/2"

// recent search accepts max_results between 10 and 100
const (
	minResults = 10
	maxResults = 100
)

type searchInput struct {
	Location string `json:"location"`
	Topic    string `json:"topic"`
	Limit    int    `json:"limit"`
}

type twitterTool struct {
	bearerToken string
	baseURL     string
	httpClient  *http.Client
}

type Option func(*twitterTool)

// WithBaseURL points the tool at a different API endpoint, mainly for
// tests.
func WithBaseURL(baseURL string) Option {
	return func(x *twitterTool) {
		x.baseURL = baseURL
	}
}

// WithBearerToken sets the credential without going through CLI flags.
func WithBearerToken(token string) Option {
	return func(x *twitterTool) {
		x.bearerToken = token
	}
}

// New creates a new Twitter tool
func New(opts ...Option) *twitterTool {
	x := &twitterTool{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Flags returns CLI flags for this tool
func (x *twitterTool) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "twitter-bearer-token",
			Sources:     cli.EnvVars("CITYPULSE_TWITTER_BEARER_TOKEN"),
			Usage:       "Twitter API v2 bearer token",
			Destination: &x.bearerToken,
		},
	}
}

// Init initializes the tool
func (x *twitterTool) Init(ctx context.Context, client *tool.Client) (bool, error) {
	return x.bearerToken != "", nil
}

// Prompt returns additional information to be added to the system prompt
func (x *twitterTool) Prompt(ctx context.Context) string {
	return `When asked what people are saying about a city or a topic right now, use the search_twitter_posts tool to fetch recent tweets.`
}

// Spec returns the tool specification for Gemini function calling
func (x *twitterTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "search_twitter_posts",
				Description: "Search recent tweets about a location and topic",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"location": {
							Type:        genai.TypeString,
							Description: "City or area to search tweets about",
						},
						"topic": {
							Type:        genai.TypeString,
							Description: "Topic or keyword, e.g. traffic or weather",
						},
						"limit": {
							Type:        genai.TypeInteger,
							Description: "Maximum number of tweets to fetch",
						},
					},
					Required: []string{"location"},
				},
			},
		},
	}
}

// Execute runs the tool with the given function call
func (x *twitterTool) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	paramsJSON, err := json.Marshal(fc.Args)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal function arguments")
	}

	var input searchInput
	if err := json.Unmarshal(paramsJSON, &input); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input parameters")
	}
	if input.Topic == "" {
		input.Topic = "general"
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}

	posts, err := x.SearchPosts(ctx, input.Location, input.Topic, input.Limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search tweets")
	}

	resultJSON, err := json.MarshalIndent(map[string]any{"posts": posts}, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal result")
	}

	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"result": string(resultJSON)},
	}, nil
}

type tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

type searchResponse struct {
	Data []tweet `json:"data"`
}

// SearchPosts queries the recent search endpoint for tweets mentioning
// the location and topic. Retweets are excluded and results are limited
// to English, matching what the mood scorer can handle.
func (x *twitterTool) SearchPosts(ctx context.Context, location, topic string, limit int) ([]model.SocialPost, error) {
	if limit < minResults {
		limit = minResults
	}
	if limit > maxResults {
		limit = maxResults
	}

	query := fmt.Sprintf("%s %s -is:retweet lang:en", location, topic)

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", fmt.Sprintf("%d", limit))
	params.Set("tweet.fields", "created_at,author_id")

	reqURL := fmt.Sprintf("%s/tweets/search/recent?%s", x.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+x.bearerToken)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, goerr.Wrap(interfaces.ErrRateLimited, "Twitter rate limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, goerr.New("Twitter API returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response")
	}

	posts := make([]model.SocialPost, 0, len(result.Data))
	for _, t := range result.Data {
		posts = append(posts, model.SocialPost{
			ID:        t.ID,
			Text:      t.Text,
			Author:    t.AuthorID,
			CreatedAt: t.CreatedAt,
		})
	}
	return posts, nil
}
