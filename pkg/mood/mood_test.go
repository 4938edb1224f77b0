package mood_test

import (
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/mood"
	"github.com/m-mizutani/gt"
)

// flatScorer returns a fixed polarity for any non-empty batch.
type flatScorer struct {
	value    float64
	keywords []string
}

func (s *flatScorer) Score(items []any) (float64, []string) {
	if len(items) == 0 {
		return 0, nil
	}
	return s.value, s.keywords
}

func TestAggregateEmptyInputIsNeutral(t *testing.T) {
	agg := mood.New()
	result := agg.Aggregate(model.Unify(model.Sources{}))

	gt.Equal(t, result.Label, model.MoodNeutral)
	gt.Equal(t, result.Score, 0.0)
	gt.A(t, result.Events).Length(0)
	gt.A(t, result.Breakdown["twitter"].TopKeywords).Length(0)

	for source, sm := range result.Breakdown {
		if sm.Score != 0 {
			t.Errorf("source %s: score = %v, want 0", source, sm.Score)
		}
	}
	gt.Equal(t, len(result.Breakdown), 5)
}

func TestAggregateLabels(t *testing.T) {
	allSources := model.Unify(model.Sources{
		Twitter: []model.SocialPost{{Text: "a"}},
		Reddit:  []model.SocialPost{{Title: "b"}},
		News:    []model.NewsArticle{{Title: "c"}},
		Search:  []model.SearchItem{{Title: "d"}},
	})

	cases := []struct {
		name  string
		value float64
		label model.MoodLabel
	}{
		{"happy above threshold", 0.4, model.MoodHappy},   // 4*0.4/5 = 0.32
		{"neutral inside band", 0.37, model.MoodNeutral},  // 0.296
		{"tense below threshold", -0.4, model.MoodTense},  // -0.32
		{"neutral negative band", -0.3, model.MoodNeutral}, // -0.24
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := mood.New(mood.WithScorer(&flatScorer{value: tc.value}))
			result := agg.Aggregate(allSources)
			gt.Equal(t, result.Label, tc.label)
		})
	}
}

func TestAggregateTrafficMakesBusy(t *testing.T) {
	agg := mood.New(mood.WithScorer(&flatScorer{}))
	result := agg.Aggregate(model.Unify(model.Sources{
		Maps: model.Route{Duration: "30 mins", DurationInTraffic: "55 mins"},
	}))

	gt.Equal(t, result.Label, model.MoodBusy)
	gt.Equal(t, result.Score, -0.1)
	gt.Equal(t, result.Breakdown["maps"].Score, -0.5)
	gt.Equal(t, result.Breakdown["maps"].TopKeywords, []string{"traffic"})
}

func TestAggregateFreeFlowingTrafficStaysNeutral(t *testing.T) {
	agg := mood.New(mood.WithScorer(&flatScorer{}))
	result := agg.Aggregate(model.Unify(model.Sources{
		Maps: model.Route{Duration: "30 mins", DurationInTraffic: "30 mins"},
	}))

	gt.Equal(t, result.Label, model.MoodNeutral)
	gt.Equal(t, result.Score, 0.0)
	gt.Equal(t, result.Breakdown["maps"].Score, 0.0)
}

func TestAggregateSingleSourceDilution(t *testing.T) {
	agg := mood.New(mood.WithScorer(&flatScorer{value: 0.85, keywords: []string{"flyover"}}))
	result := agg.Aggregate(model.Unify(model.Sources{
		News: []model.NewsArticle{{Title: "new flyover opens ahead of schedule"}},
	}))

	gt.Equal(t, result.Score, 0.17)
	gt.Equal(t, result.Label, model.MoodNeutral)
	gt.Equal(t, result.Breakdown["news"].Score, 0.85)
	gt.Equal(t, result.Breakdown["news"].TopKeywords, []string{"flyover"})
	gt.Equal(t, result.Breakdown["twitter"].Score, 0.0)
}

func TestAggregateRounding(t *testing.T) {
	agg := mood.New(mood.WithScorer(&flatScorer{value: 0.3333}))
	result := agg.Aggregate(model.Unify(model.Sources{
		Twitter: []model.SocialPost{{Text: "x"}},
	}))

	gt.Equal(t, result.Score, 0.07) // 0.3333/5 = 0.06666
	gt.Equal(t, result.Breakdown["twitter"].Score, 0.33)
}

func TestDetectEventsAcrossSources(t *testing.T) {
	agg := mood.New(mood.WithScorer(&flatScorer{}))
	result := agg.Aggregate(model.Unify(model.Sources{
		Twitter: []model.SocialPost{
			{Text: "Protest near the town hall, avoid MG Road"},
		},
		Reddit: []model.SocialPost{
			{Title: "Anyone going to the music festival this weekend?"},
		},
		News: []model.NewsArticle{
			{Title: "Traffic disrupted by protest", Description: "march continues"},
		},
	}))

	gt.A(t, result.Events).Length(2)
	gt.Equal(t, result.Events[0].Type, "protest")
	gt.Equal(t, result.Events[0].Count, 2)
	gt.Equal(t, result.Events[0].Sources, []string{"twitter", "news"})
	gt.Equal(t, result.Events[1].Type, "festival")
	gt.Equal(t, result.Events[1].Sources, []string{"reddit"})
}

func TestDetectEventsWordBoundary(t *testing.T) {
	agg := mood.New(mood.WithScorer(&flatScorer{}))
	result := agg.Aggregate(model.Unify(model.Sources{
		Twitter: []model.SocialPost{{Text: "firefighters on standby, no fires reported"}},
	}))

	// "firefighters" must not count as "fire".
	gt.A(t, result.Events).Length(0)
}
