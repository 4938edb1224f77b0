package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	defaultResults = 5
	maxResults     = 10
)

type searchInput struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

type searchTool struct {
	apiKey     string
	engineID   string
	baseURL    string
	httpClient *http.Client
}

type Option func(*searchTool)

// WithBaseURL points the tool at a different endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(x *searchTool) {
		x.baseURL = baseURL
	}
}

// WithCredentials sets the API key and engine ID without going through
// CLI flags.
func WithCredentials(apiKey, engineID string) Option {
	return func(x *searchTool) {
		x.apiKey = apiKey
		x.engineID = engineID
	}
}

// New creates a new Google Custom Search tool
func New(opts ...Option) *searchTool {
	x := &searchTool{
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
func (x *searchTool) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "search-api-key",
			Sources:     cli.EnvVars("CITYPULSE_SEARCH_API_KEY"),
			Usage:       "Google Custom Search API key",
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "search-engine-id",
			Sources:     cli.EnvVars("CITYPULSE_SEARCH_ENGINE_ID"),
			Usage:       "Google Custom Search engine ID",
			Destination: &x.engineID,
		},
	}
}

// Init initializes the tool
func (x *searchTool) Init(ctx context.Context, client *tool.Client) (bool, error) {
	return x.apiKey != "" && x.engineID != "", nil
}

// Prompt returns additional information to be added to the system prompt
func (x *searchTool) Prompt(ctx context.Context) string {
	return `When no specialized tool fits the question, use the web_search tool to look up current information.`
}

// Spec returns the tool specification for Gemini function calling
func (x *searchTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "web_search",
				Description: "Run a web search and return titles, snippets and links",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "Search query",
						},
						"num_results": {
							Type:        genai.TypeInteger,
							Description: "Maximum number of results",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
}

// Execute runs the tool with the given function call
func (x *searchTool) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	paramsJSON, err := json.Marshal(fc.Args)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal function arguments")
	}

	var input searchInput
	if err := json.Unmarshal(paramsJSON, &input); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input parameters")
	}
	if input.NumResults <= 0 {
		input.NumResults = defaultResults
	}

	items, err := x.Search(ctx, input.Query, input.NumResults)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search")
	}

	resultJSON, err := json.MarshalIndent(map[string]any{"results": items}, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal result")
	}

	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"result": string(resultJSON)},
	}, nil
}

type apiResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search runs the query against the custom search engine.
func (x *searchTool) Search(ctx context.Context, query string, numResults int) ([]model.SearchItem, error) {
	if query == "" {
		return nil, goerr.New("query is empty")
	}
	if numResults <= 0 {
		numResults = defaultResults
	}
	if numResults > maxResults {
		numResults = maxResults
	}

	params := url.Values{}
	params.Set("key", x.apiKey)
	params.Set("cx", x.engineID)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", numResults))

	req, err := http.NewRequestWithContext(ctx, "GET", x.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, goerr.New("Custom Search API returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response")
	}

	items := make([]model.SearchItem, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, model.SearchItem{
			Title:   it.Title,
			Snippet: it.Snippet,
			Link:    it.Link,
		})
	}
	return items, nil
}
