package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

const (
	defaultBaseURL = "https://www.reddit.com"
	userAgent      = "citypulse/0.1"
	defaultLimit   = 5
)

type fetchInput struct {
	Subreddit string `json:"subreddit"`
	Limit     int    `json:"limit"`
}

type redditTool struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*redditTool)

// WithBaseURL points the tool at a different endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(x *redditTool) {
		x.baseURL = baseURL
	}
}

// New creates a new Reddit tool
func New(opts ...Option) *redditTool {
	x := &redditTool{
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
func (x *redditTool) Flags() []cli.Flag {
	return nil
}

// Init initializes the tool. The public listing endpoint needs no
// credentials, so the tool is always available.
func (x *redditTool) Init(ctx context.Context, client *tool.Client) (bool, error) {
	return true, nil
}

// Prompt returns additional information to be added to the system prompt
func (x *redditTool) Prompt(ctx context.Context) string {
	return `When asked what a city's community is discussing, use the fetch_reddit_posts tool with the city's subreddit.`
}

// Spec returns the tool specification for Gemini function calling
func (x *redditTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "fetch_reddit_posts",
				Description: "Fetch the current hot posts of a subreddit, typically a city subreddit",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"subreddit": {
							Type:        genai.TypeString,
							Description: "Subreddit name without the r/ prefix",
						},
						"limit": {
							Type:        genai.TypeInteger,
							Description: "Maximum number of posts to fetch",
						},
					},
					Required: []string{"subreddit"},
				},
			},
		},
	}
}

// Execute runs the tool with the given function call
func (x *redditTool) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	paramsJSON, err := json.Marshal(fc.Args)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal function arguments")
	}

	var input fetchInput
	if err := json.Unmarshal(paramsJSON, &input); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input parameters")
	}
	if input.Limit <= 0 {
		input.Limit = defaultLimit
	}

	posts, err := x.SubredditPosts(ctx, input.Subreddit, input.Limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch reddit posts")
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

// NormalizeSubreddit canonicalizes a subreddit name. Spaces are stripped
// because entity extraction may hand over a phrase like "bengaluru
// city", and the Bengaluru aliases share one community.
func NormalizeSubreddit(subreddit string) string {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(subreddit)), " ", "")
	switch s {
	case "bengaluru", "bengalurucity", "bangalore", "bangalorecity":
		return "bangalore"
	}
	return s
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID       string `json:"id"`
				Title    string `json:"title"`
				Selftext string `json:"selftext"`
				Author   string `json:"author"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// SubredditPosts fetches the hot listing of a subreddit.
func (x *redditTool) SubredditPosts(ctx context.Context, subreddit string, limit int) ([]model.SocialPost, error) {
	sub := NormalizeSubreddit(subreddit)
	if sub == "" {
		return nil, goerr.New("subreddit is empty")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	reqURL := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", x.baseURL, sub, limit)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, goerr.Wrap(interfaces.ErrRateLimited, "Reddit rate limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, goerr.New("Reddit API returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("subreddit", sub),
			goerr.V("body", string(body)))
	}

	var result listing
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response")
	}

	posts := make([]model.SocialPost, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		posts = append(posts, model.SocialPost{
			ID:     child.Data.ID,
			Title:  child.Data.Title,
			Text:   child.Data.Selftext,
			Author: child.Data.Author,
		})
	}
	return posts, nil
}
