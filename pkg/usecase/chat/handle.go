package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
)

// fallbackReply is the last resort when even the plain LLM answer is
// unavailable.
const fallbackReply = "Sorry, I could not find anything useful for that right now. Please try rephrasing your question."

// Handle processes one chat turn. It never returns an error: every
// collaborator failure degrades to the next strategy, ending at a plain
// generated answer. The returned payload always has a non-empty reply.
func (uc *UseCase) Handle(ctx context.Context, userID, message string) model.ResponsePayload {
	logger := logging.From(ctx)

	q := uc.extractor.Extract(ctx, message)
	q.SetEntity(model.EntityUserID, userID)

	logger.Info("dispatching query",
		"intent", q.Intent,
		"raw_intent", q.RawIntent,
		"entities", q.Entities)

	reply, handled := uc.dispatch(ctx, q, message)
	if !handled {
		reply = uc.genericFallback(ctx, message)
	}

	if replyNeedsRescue(reply) {
		logger.Info("reply unusable, falling back to plain answer", "reply", reply)
		reply = uc.plainAnswer(ctx, message)
	}
	if strings.TrimSpace(reply) == "" {
		reply = fallbackReply
	}

	resp := model.ResponsePayload{
		Intent:   q.Intent,
		Entities: q.Entities,
		Reply:    reply,
	}

	uc.recordHistory(ctx, userID, message, resp)
	return resp
}

// dispatch routes a parsed query to its handler. handled=false means no
// handler matched or required entities were missing, and the generic
// fallback should run.
func (uc *UseCase) dispatch(ctx context.Context, q model.ParsedQuery, message string) (string, bool) {
	logger := logging.From(ctx)

	switch q.Intent {
	case model.IntentTwitterPosts:
		location := q.Entity(model.EntityLocation)
		if location == "" || uc.twitter == nil {
			return "", false
		}
		topic := q.Entity(model.EntityTopic)
		if topic == "" {
			topic = "general"
		}
		posts, err := fetchCached(ctx, uc, location, model.CacheSourceTwitter, func() ([]model.SocialPost, error) {
			return uc.twitter.SearchPosts(ctx, location, topic, 10)
		})
		if err != nil {
			logger.Warn("twitter fetch failed", "location", location, "error", err)
			return "", false
		}
		return uc.summarize(ctx, message, model.Unify(model.Sources{Twitter: posts})), true

	case model.IntentRedditPosts:
		subreddit := q.Entity(model.EntitySubreddit)
		if subreddit == "" {
			subreddit = q.Entity(model.EntityTopic)
		}
		if subreddit == "" || uc.reddit == nil {
			return "", false
		}
		posts, err := fetchCached(ctx, uc, subreddit, model.CacheSourceReddit, func() ([]model.SocialPost, error) {
			return uc.reddit.SubredditPosts(ctx, subreddit, 5)
		})
		if err != nil {
			logger.Warn("reddit fetch failed", "subreddit", subreddit, "error", err)
			return "", false
		}
		return uc.summarize(ctx, message, model.Unify(model.Sources{Reddit: posts})), true

	case model.IntentCityNews:
		city := q.Entity(model.EntityCity)
		if city == "" {
			city = q.Entity(model.EntityLocation)
		}
		if city == "" || uc.news == nil {
			return "", false
		}
		articles, err := fetchCached(ctx, uc, city, model.CacheSourceNews, func() ([]model.NewsArticle, error) {
			return uc.news.CityNews(ctx, city, 5)
		})
		if err != nil {
			logger.Warn("news fetch failed", "city", city, "error", err)
			return "", false
		}
		return uc.summarize(ctx, message, model.Unify(model.Sources{News: articles})), true

	case model.IntentBestRoute:
		origin := q.Entity(model.EntityCurrentLocation)
		destination := q.Entity(model.EntityDestination)
		if origin == "" || destination == "" || uc.maps == nil {
			return "", false
		}
		route, err := uc.BestRoute(ctx, origin, destination, q.Entity(model.EntityMode))
		if err != nil {
			logger.Warn("route fetch failed",
				"origin", origin, "destination", destination, "error", err)
			return "", false
		}
		return uc.summarize(ctx, message, model.Unify(model.Sources{Maps: *route})), true

	case model.IntentPlaces:
		location := q.Entity(model.EntityLocation)
		if location == "" || uc.maps == nil {
			return "", false
		}
		places, err := fetchCached(ctx, uc, location, model.CacheSourcePlaces, func() ([]model.Place, error) {
			return uc.maps.FindPlaces(ctx, location, 3)
		})
		if err != nil {
			logger.Warn("places fetch failed", "location", location, "error", err)
			return "", false
		}
		return renderPlaces(location, places), true

	case model.IntentStoredReports:
		location := q.Entity(model.EntityLocation)
		if location == "" || uc.repo == nil {
			return "", false
		}
		reports, err := uc.repo.ListReports(ctx,
			model.NormalizeLocation(location),
			strings.ToLower(q.Entity(model.EntityTopic)), 10)
		if err != nil {
			logger.Warn("report lookup failed", "location", location, "error", err)
			return "", false
		}
		return uc.summarize(ctx, message, model.Unify(model.Sources{Reports: reports})), true

	case model.IntentSimilarQueries:
		userID := q.Entity(model.EntityUserID)
		query := q.Entity(model.EntityQuery)
		if userID == "" || uc.repo == nil {
			return "", false
		}
		records, err := uc.repo.SimilarQueries(ctx, userID, query, 5)
		if err != nil {
			logger.Warn("similar query lookup failed", "user_id", userID, "error", err)
			return "", false
		}
		return renderSimilarQueries(records), true

	case model.IntentWebSearch:
		query := q.Entity(model.EntityQuery)
		if query == "" || uc.search == nil {
			return "", false
		}
		items, err := uc.search.Search(ctx, query, 5)
		if err != nil {
			logger.Warn("web search failed", "query", query, "error", err)
			return "", false
		}
		return uc.summarize(ctx, message, model.Unify(model.Sources{Search: items})), true

	case model.IntentLocationMood:
		location := q.Entity(model.EntityLocation)
		if location == "" {
			return "", false
		}
		result := uc.Mood(ctx, location)
		return renderMood(location, result), true

	default:
		return "", false
	}
}

// replyNeedsRescue reports whether a reply should be replaced by the
// plain LLM answer. The phrase checks mirror the failure texts old tool
// wrappers used to emit; with structured errors they mostly catch cached
// legacy payloads.
func replyNeedsRescue(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "error") {
		return true
	}
	if strings.Contains(lower, "rate limit reached") {
		return true
	}
	if strings.Contains(lower, "not yet implemented") {
		return true
	}
	return false
}

// recordHistory appends the turn to the query history store. Failures
// are logged and swallowed: persistence must never break a reply.
func (uc *UseCase) recordHistory(ctx context.Context, userID, message string, resp model.ResponsePayload) {
	if uc.repo == nil {
		return
	}

	record := model.NewQueryHistory(userID, message, resp)
	record.CreatedAt = uc.now()
	if err := uc.repo.PutHistory(ctx, record); err != nil {
		logging.From(ctx).Warn("failed to record query history",
			"user_id", userID, "error", err)
	}
}

func renderPlaces(location string, places []model.Place) string {
	if len(places) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Top places to visit in %s:\n", location)
	for i, p := range places {
		fmt.Fprintf(&sb, "%d. %s", i+1, p.Name)
		if p.Rating > 0 {
			fmt.Fprintf(&sb, " (rating %.1f)", p.Rating)
		}
		if p.Address != "" {
			fmt.Fprintf(&sb, " - %s", p.Address)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func renderSimilarQueries(records []*model.QueryHistory) string {
	if len(records) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Similar past queries:\n")
	for i, r := range records {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Query)
	}
	return strings.TrimSpace(sb.String())
}

func renderMood(location string, result model.MoodResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The mood in %s is %s (score %.2f).", location, result.Label, result.Score)
	if len(result.Events) > 0 {
		names := make([]string, 0, len(result.Events))
		for _, e := range result.Events {
			names = append(names, e.Type)
		}
		fmt.Fprintf(&sb, " Detected events: %s.", strings.Join(names, ", "))
	}
	return sb.String()
}
