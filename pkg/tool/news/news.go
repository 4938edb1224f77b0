package news

import (
	"context"
	"encoding/json"
	"fmt"
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

const (
	defaultBaseURL = "https://newsapi.org/v2"
	defaultLimit   = 5
	maxLimit       = 100
)

type fetchInput struct {
	City  string `json:"city"`
	Limit int    `json:"limit"`
}

type newsTool struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*newsTool)

// WithBaseURL points the tool at a different endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(x *newsTool) {
		x.baseURL = baseURL
	}
}

// WithAPIKey sets the credential without going through CLI flags.
func WithAPIKey(key string) Option {
	return func(x *newsTool) {
		x.apiKey = key
	}
}

// New creates a new NewsAPI tool
func New(opts ...Option) *newsTool {
	x := &newsTool{
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
func (x *newsTool) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "news-api-key",
			Sources:     cli.EnvVars("CITYPULSE_NEWS_API_KEY"),
			Usage:       "NewsAPI key",
			Destination: &x.apiKey,
		},
	}
}

// Init initializes the tool
func (x *newsTool) Init(ctx context.Context, client *tool.Client) (bool, error) {
	return x.apiKey != "", nil
}

// Prompt returns additional information to be added to the system prompt
func (x *newsTool) Prompt(ctx context.Context) string {
	return `When asked about current news in a city, use the fetch_city_news tool.`
}

// Spec returns the tool specification for Gemini function calling
func (x *newsTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "fetch_city_news",
				Description: "Fetch recent news articles about a city",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"city": {
							Type:        genai.TypeString,
							Description: "City to search news for",
						},
						"limit": {
							Type:        genai.TypeInteger,
							Description: "Maximum number of articles to fetch",
						},
					},
					Required: []string{"city"},
				},
			},
		},
	}
}

// Execute runs the tool with the given function call
func (x *newsTool) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
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

	articles, err := x.CityNews(ctx, input.City, input.Limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch news")
	}

	resultJSON, err := json.MarshalIndent(map[string]any{"articles": articles}, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal result")
	}

	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"result": string(resultJSON)},
	}, nil
}

type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// CityNews fetches the most recent articles mentioning the city.
func (x *newsTool) CityNews(ctx context.Context, city string, limit int) ([]model.NewsArticle, error) {
	if city == "" {
		return nil, goerr.New("city is empty")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("pageSize", fmt.Sprintf("%d", limit))
	params.Set("sortBy", "publishedAt")

	reqURL := fmt.Sprintf("%s/everything?%s", x.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("X-Api-Key", x.apiKey)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, goerr.Wrap(interfaces.ErrRateLimited, "NewsAPI rate limit reached")
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response")
	}
	if result.Status != "ok" {
		return nil, goerr.New("NewsAPI returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("message", result.Message))
	}

	articles := make([]model.NewsArticle, 0, len(result.Articles))
	for _, a := range result.Articles {
		articles = append(articles, model.NewsArticle{
			Source:      a.Source.Name,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
