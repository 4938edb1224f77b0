package model

// Intent classifies a user request into one of the categories the
// dispatcher knows how to route. The set is closed: tags coming back from
// the LLM that are not listed here collapse to IntentUnknown, with the
// raw tag preserved on ParsedQuery for logging.
type Intent string

const (
	IntentTwitterPosts   Intent = "get_twitter_posts"
	IntentRedditPosts    Intent = "get_reddit_posts"
	IntentCityNews       Intent = "get_news"
	IntentBestRoute      Intent = "get_best_route"
	IntentPlaces         Intent = "get_places"
	IntentStoredReports  Intent = "get_stored_reports"
	IntentSimilarQueries Intent = "get_similar_queries"
	IntentWebSearch      Intent = "web_search"
	IntentLocationMood   Intent = "get_location_mood"
	IntentUnknown        Intent = "unknown"
)

// ParseIntent maps a raw tag to a known Intent. Unrecognized tags yield
// IntentUnknown and ok=false.
func ParseIntent(raw string) (Intent, bool) {
	switch Intent(raw) {
	case IntentTwitterPosts, IntentRedditPosts, IntentCityNews,
		IntentBestRoute, IntentPlaces, IntentStoredReports,
		IntentSimilarQueries, IntentWebSearch, IntentLocationMood:
		return Intent(raw), true
	case IntentUnknown:
		return IntentUnknown, true
	default:
		return IntentUnknown, false
	}
}

// Entity keys shared between the extractor and the dispatcher.
const (
	EntityLocation        = "location"
	EntityTopic           = "topic"
	EntitySubreddit       = "subreddit"
	EntityCity            = "city"
	EntityUserID          = "user_id"
	EntityQuery           = "query"
	EntityCurrentLocation = "current_location"
	EntityDestination     = "destination"
	EntityMode            = "mode"
)

// ParsedQuery is the outcome of intent extraction. Entities is never nil.
type ParsedQuery struct {
	Intent    Intent            `json:"intent"`
	RawIntent string            `json:"raw_intent,omitempty"`
	Entities  map[string]string `json:"entities"`
}

// NewParsedQuery returns a ParsedQuery with an initialized entity map.
func NewParsedQuery(intent Intent) ParsedQuery {
	return ParsedQuery{
		Intent:   intent,
		Entities: map[string]string{},
	}
}

// UnknownQuery marks a request the extractor could not classify. raw
// keeps the unrecognized tag when the LLM produced one.
func UnknownQuery(raw string) ParsedQuery {
	q := NewParsedQuery(IntentUnknown)
	q.RawIntent = raw
	return q
}

// Entity returns the named entity, or "" when absent.
func (q ParsedQuery) Entity(key string) string {
	if q.Entities == nil {
		return ""
	}
	return q.Entities[key]
}

// SetEntity stores an entity value, allocating the map when needed.
func (q *ParsedQuery) SetEntity(key, value string) {
	if q.Entities == nil {
		q.Entities = map[string]string{}
	}
	q.Entities[key] = value
}
