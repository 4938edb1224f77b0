package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

const (
	defaultBaseURL    = "https://maps.googleapis.com/maps/api"
	defaultMode       = "driving"
	defaultMaxResults = 3
)

type routeInput struct {
	CurrentLocation string `json:"current_location"`
	Destination     string `json:"destination"`
	Mode            string `json:"mode"`
}

type placesInput struct {
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

type mapsTool struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*mapsTool)

// WithBaseURL points the tool at a different endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(x *mapsTool) {
		x.baseURL = baseURL
	}
}

// WithAPIKey sets the credential without going through CLI flags.
func WithAPIKey(key string) Option {
	return func(x *mapsTool) {
		x.apiKey = key
	}
}

// New creates a new Google Maps tool
func New(opts ...Option) *mapsTool {
	x := &mapsTool{
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
func (x *mapsTool) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "maps-api-key",
			Sources:     cli.EnvVars("CITYPULSE_MAPS_API_KEY"),
			Usage:       "Google Maps API key",
			Destination: &x.apiKey,
		},
	}
}

// Init initializes the tool
func (x *mapsTool) Init(ctx context.Context, client *tool.Client) (bool, error) {
	return x.apiKey != "", nil
}

// Prompt returns additional information to be added to the system prompt
func (x *mapsTool) Prompt(ctx context.Context) string {
	return `For routing questions use the get_best_route tool; for sightseeing recommendations use the find_places tool.`
}

// Spec returns the tool specification for Gemini function calling
func (x *mapsTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "get_best_route",
				Description: "Get the best route between two locations with live traffic",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"current_location": {
							Type:        genai.TypeString,
							Description: "Starting point of the route",
						},
						"destination": {
							Type:        genai.TypeString,
							Description: "Destination of the route",
						},
						"mode": {
							Type:        genai.TypeString,
							Description: "Travel mode",
							Enum:        []string{"driving", "walking", "bicycling", "transit"},
						},
					},
					Required: []string{"current_location", "destination"},
				},
			},
			{
				Name:        "find_places",
				Description: "Find top rated places to visit in a location",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"location": {
							Type:        genai.TypeString,
							Description: "City or area to search places in",
						},
						"max_results": {
							Type:        genai.TypeInteger,
							Description: "Maximum number of places to return",
						},
					},
					Required: []string{"location"},
				},
			},
		},
	}
}

// Execute runs the tool with the given function call
func (x *mapsTool) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	paramsJSON, err := json.Marshal(fc.Args)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal function arguments")
	}

	var result any
	switch fc.Name {
	case "get_best_route":
		var input routeInput
		if err := json.Unmarshal(paramsJSON, &input); err != nil {
			return nil, goerr.Wrap(err, "failed to parse input parameters")
		}
		route, err := x.BestRoute(ctx, input.CurrentLocation, input.Destination, input.Mode)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get route")
		}
		result = route

	case "find_places":
		var input placesInput
		if err := json.Unmarshal(paramsJSON, &input); err != nil {
			return nil, goerr.Wrap(err, "failed to parse input parameters")
		}
		places, err := x.FindPlaces(ctx, input.Location, input.MaxResults)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to find places")
		}
		result = map[string]any{"places": places}

	default:
		return nil, goerr.New("unknown function", goerr.V("name", fc.Name))
	}

	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal result")
	}

	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"result": string(resultJSON)},
	}, nil
}

type textValue struct {
	Text string `json:"text"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Summary string `json:"summary"`
		Legs    []struct {
			Distance          textValue `json:"distance"`
			Duration          textValue `json:"duration"`
			DurationInTraffic textValue `json:"duration_in_traffic"`
			StartAddress      string    `json:"start_address"`
			EndAddress        string    `json:"end_address"`
			Steps             []struct {
				HTMLInstructions string    `json:"html_instructions"`
				Distance         textValue `json:"distance"`
				Duration         textValue `json:"duration"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// BestRoute fetches directions between two points. Driving routes are
// requested with departure_time=now so the response carries a
// traffic-adjusted duration.
func (x *mapsTool) BestRoute(ctx context.Context, origin, destination, mode string) (*model.Route, error) {
	if origin == "" {
		return nil, goerr.New("origin is empty")
	}
	if destination == "" {
		return nil, goerr.New("destination is empty")
	}
	if mode == "" {
		mode = defaultMode
	}

	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", mode)
	params.Set("key", x.apiKey)
	if mode == defaultMode {
		params.Set("departure_time", "now")
		params.Set("traffic_model", "best_guess")
	}

	var result directionsResponse
	if err := x.getJSON(ctx, fmt.Sprintf("%s/directions/json?%s", x.baseURL, params.Encode()), &result); err != nil {
		return nil, err
	}
	if result.Status != "OK" {
		return nil, goerr.New("directions request failed",
			goerr.V("status", result.Status),
			goerr.V("message", result.ErrorMessage))
	}
	if len(result.Routes) == 0 || len(result.Routes[0].Legs) == 0 {
		return nil, goerr.New("no route found",
			goerr.V("origin", origin), goerr.V("destination", destination))
	}

	r := result.Routes[0]
	leg := r.Legs[0]

	steps := make([]model.RouteStep, 0, len(leg.Steps))
	for _, s := range leg.Steps {
		steps = append(steps, model.RouteStep{
			Instruction: s.HTMLInstructions,
			Distance:    s.Distance.Text,
			Duration:    s.Duration.Text,
		})
	}

	return &model.Route{
		Summary:           r.Summary,
		Distance:          leg.Distance.Text,
		Duration:          leg.Duration.Text,
		DurationInTraffic: leg.DurationInTraffic.Text,
		StartAddress:      leg.StartAddress,
		EndAddress:        leg.EndAddress,
		Steps:             steps,
	}, nil
}

type placesResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name             string   `json:"name"`
		Rating           float64  `json:"rating"`
		FormattedAddress string   `json:"formatted_address"`
		PlaceID          string   `json:"place_id"`
		Types            []string `json:"types"`
		OpeningHours     struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

// FindPlaces runs a text search for points of interest and returns the
// top results by rating.
func (x *mapsTool) FindPlaces(ctx context.Context, location string, maxResults int) ([]model.Place, error) {
	if location == "" {
		return nil, goerr.New("location is empty")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("query", "must visit places in "+location)
	params.Set("key", x.apiKey)

	var result placesResponse
	if err := x.getJSON(ctx, fmt.Sprintf("%s/place/textsearch/json?%s", x.baseURL, params.Encode()), &result); err != nil {
		return nil, err
	}
	if result.Status != "OK" && result.Status != "ZERO_RESULTS" {
		return nil, goerr.New("places request failed",
			goerr.V("status", result.Status),
			goerr.V("message", result.ErrorMessage))
	}

	places := make([]model.Place, 0, len(result.Results))
	for _, p := range result.Results {
		placeType := ""
		if len(p.Types) > 0 {
			placeType = p.Types[0]
		}
		places = append(places, model.Place{
			Name:    p.Name,
			Type:    placeType,
			Rating:  p.Rating,
			Address: p.FormattedAddress,
			PlaceID: p.PlaceID,
			OpenNow: p.OpeningHours.OpenNow,
		})
	}

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].Rating > places[j].Rating
	})
	if len(places) > maxResults {
		places = places[:maxResults]
	}
	return places, nil
}

func (x *mapsTool) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.New("Maps API returned error", goerr.V("status", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response")
	}
	return nil
}
