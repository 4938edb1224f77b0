package mood

import (
	"math"

	"github.com/citypulse-ai/citypulse/pkg/model"
)

// Breakdown source names, also used as event source labels.
const (
	sourceTwitter = "twitter"
	sourceReddit  = "reddit"
	sourceNews    = "news"
	sourceSearch  = "search"
	sourceMaps    = "maps"
)

const (
	// trafficPenalty is the maps contribution when live traffic extends
	// the nominal route duration.
	trafficPenalty = -0.5

	// happyThreshold and tenseThreshold bound the neutral band of the
	// combined score.
	happyThreshold = 0.3
	tenseThreshold = -0.3
)

// Aggregator computes a mood snapshot from a unified result. The zero
// value is not usable; construct with New.
type Aggregator struct {
	scorer Scorer
}

type Option func(*Aggregator)

// WithScorer replaces the default lexicon scorer.
func WithScorer(s Scorer) Option {
	return func(a *Aggregator) {
		a.scorer = s
	}
}

func New(options ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range options {
		opt(a)
	}
	if a.scorer == nil {
		a.scorer = NewScorer()
	}
	return a
}

// Aggregate scores each source, combines them into a single mood score,
// and detects events. The combined score is the mean over all five
// sources, so absent sources pull it toward zero rather than being
// skipped.
func (a *Aggregator) Aggregate(u model.UnifiedResult) model.MoodResult {
	twitterScore, twitterKeywords := a.scorer.Score(anySlice(u.Twitter))
	redditScore, redditKeywords := a.scorer.Score(anySlice(u.Reddit))
	newsScore, newsKeywords := a.scorer.Score(anySlice(u.News))
	searchScore, searchKeywords := a.scorer.Score(anySlice(u.Search))

	mapsScore := 0.0
	var mapsKeywords []string
	if u.Maps.HasTrafficDelay() {
		mapsScore = trafficPenalty
		mapsKeywords = []string{"traffic"}
	}

	score := (twitterScore + redditScore + newsScore + searchScore + mapsScore) / 5

	return model.MoodResult{
		Label:  labelFor(score, mapsScore < 0),
		Score:  round2(score),
		Events: detectEvents(u),
		Breakdown: map[string]model.SourceMood{
			sourceTwitter: {Score: round2(twitterScore), TopKeywords: orEmptyKeywords(twitterKeywords)},
			sourceReddit:  {Score: round2(redditScore), TopKeywords: orEmptyKeywords(redditKeywords)},
			sourceNews:    {Score: round2(newsScore), TopKeywords: orEmptyKeywords(newsKeywords)},
			sourceSearch:  {Score: round2(searchScore), TopKeywords: orEmptyKeywords(searchKeywords)},
			sourceMaps:    {Score: round2(mapsScore), TopKeywords: orEmptyKeywords(mapsKeywords)},
		},
	}
}

// labelFor picks the mood label. The traffic signal only matters inside
// the neutral band.
func labelFor(score float64, trafficDelayed bool) model.MoodLabel {
	switch {
	case score > happyThreshold:
		return model.MoodHappy
	case score < tenseThreshold:
		return model.MoodTense
	case trafficDelayed:
		return model.MoodBusy
	default:
		return model.MoodNeutral
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func anySlice[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func orEmptyKeywords(keywords []string) []string {
	if keywords == nil {
		return []string{}
	}
	return keywords
}
