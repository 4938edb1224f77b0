package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/model"
)

// Extractor converts a raw user message into a ParsedQuery. A cascade of
// regex patterns handles the common query shapes without a model call;
// everything else goes to the LLM. Extract never fails: when neither
// strategy yields a usable result, the query is tagged unknown.
type Extractor struct {
	gemini adapter.Gemini
}

func New(gemini adapter.Gemini) *Extractor {
	return &Extractor{gemini: gemini}
}

// pattern binds a regex to an intent and the mapping of its capture
// groups to entities.
type pattern struct {
	re       *regexp.Regexp
	intent   model.Intent
	entities func(groups []string) map[string]string
}

// The cascade is ordered: the first pattern whose match has all groups
// non-empty after trimming wins. Multi-entity shapes come before the
// single-capture catch-alls so "reports in X on Y" is not swallowed by
// "X news".
var patterns = []pattern{
	{
		re:     regexp.MustCompile(`(?i)^\s*(?:best|fastest)?\s*route from (.+?) to (.+?)\s*$`),
		intent: model.IntentBestRoute,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityCurrentLocation: g[1],
				model.EntityDestination:     g[2],
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*(?:best|fastest)?\s*route between (.+?) and (.+?)\s*$`),
		intent: model.IntentBestRoute,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityCurrentLocation: g[1],
				model.EntityDestination:     g[2],
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*reports? in (.+?) (?:on|about) (.+?)\s*$`),
		intent: model.IntentStoredReports,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityLocation: g[1],
				model.EntityTopic:    g[2],
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*similar queries for user (\S+) about (.+?)\s*$`),
		intent: model.IntentSimilarQueries,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityUserID: g[1],
				model.EntityQuery:  g[2],
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*what (?:is|are) (?:everyone|people|twitter) saying about (.+?)\s*$`),
		intent: model.IntentTwitterPosts,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityLocation: g[1],
				model.EntityTopic:    "general",
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*(.+?) tweets\s*$`),
		intent: model.IntentTwitterPosts,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityLocation: g[1],
				model.EntityTopic:    "general",
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*tweets (?:about|in|from) (.+?)\s*$`),
		intent: model.IntentTwitterPosts,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityLocation: g[1],
				model.EntityTopic:    "general",
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*(.+?) reddit\s*$`),
		intent: model.IntentRedditPosts,
		entities: func(g []string) map[string]string {
			return redditEntities(g[1])
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*reddit (?:about|for|on) (.+?)\s*$`),
		intent: model.IntentRedditPosts,
		entities: func(g []string) map[string]string {
			return redditEntities(g[1])
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*news (?:in|about|for|from) (.+?)\s*$`),
		intent: model.IntentCityNews,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityCity:     g[1],
				model.EntityLocation: g[1],
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*(.+?) news\s*$`),
		intent: model.IntentCityNews,
		entities: func(g []string) map[string]string {
			return map[string]string{
				model.EntityCity:     g[1],
				model.EntityLocation: g[1],
			}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*(?:must.visit |best )?places (?:in|near|around) (.+?)\s*$`),
		intent: model.IntentPlaces,
		entities: func(g []string) map[string]string {
			return map[string]string{model.EntityLocation: g[1]}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*(?:what is the |how is the )?mood (?:in|of|at) (.+?)\s*\??\s*$`),
		intent: model.IntentLocationMood,
		entities: func(g []string) map[string]string {
			return map[string]string{model.EntityLocation: g[1]}
		},
	},
	{
		re:     regexp.MustCompile(`(?i)^\s*search for (.+?)(?: on google)?\s*$`),
		intent: model.IntentWebSearch,
		entities: func(g []string) map[string]string {
			return map[string]string{model.EntityQuery: g[1]}
		},
	},
}

// redditEntities keeps the spoken topic and derives the subreddit by
// stripping spaces, e.g. "bengaluru city" -> "bengalurucity".
func redditEntities(topic string) map[string]string {
	return map[string]string{
		model.EntitySubreddit: strings.ReplaceAll(topic, " ", ""),
		model.EntityTopic:     topic,
	}
}

// Extract classifies the message. The regex cascade runs first as a
// latency and cost shortcut; a miss is expected and falls through to the
// model.
func (x *Extractor) Extract(ctx context.Context, message string) model.ParsedQuery {
	if q, ok := matchPatterns(message); ok {
		return q
	}

	if x.gemini != nil {
		if q, ok := x.extractLLM(ctx, message); ok {
			return q
		}
	}

	return model.UnknownQuery("")
}

func matchPatterns(message string) (model.ParsedQuery, bool) {
	for _, p := range patterns {
		groups := p.re.FindStringSubmatch(message)
		if groups == nil {
			continue
		}

		trimmed := make([]string, len(groups))
		copy(trimmed, groups)
		allPresent := true
		for i := 1; i < len(trimmed); i++ {
			trimmed[i] = strings.TrimSpace(trimmed[i])
			if trimmed[i] == "" {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}

		q := model.NewParsedQuery(p.intent)
		for key, value := range p.entities(trimmed) {
			q.SetEntity(key, value)
		}
		return q, true
	}
	return model.ParsedQuery{}, false
}
