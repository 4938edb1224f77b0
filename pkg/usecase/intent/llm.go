package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"google.golang.org/genai"
)

const llmPrompt = `Classify the user's message into an intent and extract its entities.

Known intents:
- get_twitter_posts: what people are posting about a location (entities: location, topic)
- get_reddit_posts: community discussion of a topic (entities: subreddit, topic)
- get_news: news about a city (entities: city, location)
- get_best_route: route between two places (entities: current_location, destination, mode)
- get_places: places to visit in a location (entities: location)
- get_stored_reports: citizen reports about a location (entities: location, topic)
- get_similar_queries: a user's past similar questions (entities: user_id, query)
- web_search: generic web lookup (entities: query)
- get_location_mood: how a location feels right now (entities: location)
- unknown: none of the above

Respond with a single JSON object {"intent": ..., "entities": {...}} and nothing else.
Entity values are plain strings. Omit entities you cannot extract.

User message: %q`

var llmResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent": {
			Type:        genai.TypeString,
			Description: "One of the known intent tags",
		},
		"entities": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				model.EntityLocation:        {Type: genai.TypeString},
				model.EntityTopic:           {Type: genai.TypeString},
				model.EntitySubreddit:       {Type: genai.TypeString},
				model.EntityCity:            {Type: genai.TypeString},
				model.EntityUserID:          {Type: genai.TypeString},
				model.EntityQuery:           {Type: genai.TypeString},
				model.EntityCurrentLocation: {Type: genai.TypeString},
				model.EntityDestination:     {Type: genai.TypeString},
				model.EntityMode:            {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"intent"},
}

// extractLLM asks the model for a strict JSON classification. Generation
// is schema-constrained, but the reply is still run through the brace
// extractor and a strict parse as a guard against non-compliant output.
// Any failure is logged and reported as a miss.
func (x *Extractor) extractLLM(ctx context.Context, message string) (model.ParsedQuery, bool) {
	logger := logging.From(ctx)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   llmResponseSchema,
	}

	text, err := adapter.GenerateText(ctx, x.gemini, fmt.Sprintf(llmPrompt, message), config)
	if err != nil {
		logger.Warn("intent extraction call failed", "error", err)
		return model.ParsedQuery{}, false
	}

	block, ok := extractJSONBlock(text)
	if !ok {
		logger.Warn("no JSON object in intent response", "text", text)
		return model.ParsedQuery{}, false
	}

	var parsed struct {
		Intent   string            `json:"intent"`
		Entities map[string]string `json:"entities"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		logger.Warn("failed to parse intent JSON", "error", err, "text", block)
		return model.ParsedQuery{}, false
	}

	tag, known := model.ParseIntent(parsed.Intent)
	q := model.NewParsedQuery(tag)
	if !known {
		q.RawIntent = parsed.Intent
	}
	for key, value := range parsed.Entities {
		if v := strings.TrimSpace(value); v != "" {
			q.SetEntity(key, v)
		}
	}
	return q, true
}

// extractJSONBlock returns the first top-level {...} span of a text,
// tolerating markdown fences and prose around it.
func extractJSONBlock(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
