package mood_test

import (
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/mood"
	"github.com/m-mizutani/gt"
)

func TestScorerEmptyBatch(t *testing.T) {
	scorer := mood.NewScorer()

	score, keywords := scorer.Score(nil)
	gt.Equal(t, score, 0.0)
	gt.A(t, keywords).Length(0)

	score, keywords = scorer.Score([]any{})
	gt.Equal(t, score, 0.0)
	gt.A(t, keywords).Length(0)
}

func TestScorerPolarityBounds(t *testing.T) {
	scorer := mood.NewScorer()

	positive, _ := scorer.Score([]any{
		"What a wonderful day, the park is beautiful and everyone is happy!",
	})
	gt.True(t, positive > 0)
	gt.True(t, positive <= 1)

	negative, _ := scorer.Score([]any{
		"Terrible accident on the highway, an awful and horrible mess.",
	})
	gt.True(t, negative < 0)
	gt.True(t, negative >= -1)
}

func TestScorerMixedItemShapes(t *testing.T) {
	scorer := mood.NewScorer()

	score, keywords := scorer.Score([]any{
		"plain string about the weather",
		model.SocialPost{Title: "lovely sunset at the lake"},
		model.NewsArticle{Title: "stadium renovation finished early"},
		map[string]any{"text": "great street food around the corner"},
		map[string]any{"description": "calm morning traffic"},
	})

	gt.True(t, score >= -1 && score <= 1)
	gt.A(t, keywords).Longer(0)
}

func TestScorerSkipsEmptyItems(t *testing.T) {
	scorer := mood.NewScorer()

	score, keywords := scorer.Score([]any{"", "   ", map[string]any{}, nil})
	gt.Equal(t, score, 0.0)
	gt.A(t, keywords).Length(0)
}

func TestScorerKeywordCap(t *testing.T) {
	scorer := mood.NewScorer()

	_, keywords := scorer.Score([]any{
		"monsoon drains flooding overpass junction gridlock signal breakdown everywhere",
	})
	gt.A(t, keywords).Length(5)
	gt.Equal(t, keywords[0], "monsoon")
}

func TestScorerKeywordFiltering(t *testing.T) {
	scorer := mood.NewScorer()

	_, keywords := scorer.Score([]any{"the cat sat on it today near them"})
	// All tokens are short words or stopwords.
	gt.A(t, keywords).Length(0)
}
