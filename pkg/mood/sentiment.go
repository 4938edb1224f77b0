package mood

import (
	"fmt"
	"strings"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/jonreiter/govader"
)

// Scorer turns a batch of heterogeneous items into an average polarity
// in [-1, 1] and a small set of representative keywords. An empty batch
// scores 0 with no keywords.
type Scorer interface {
	Score(items []any) (float64, []string)
}

const maxKeywords = 5

// VaderScorer scores text with the VADER sentiment lexicon.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer builds the default lexicon-backed scorer.
func NewScorer() *VaderScorer {
	return &VaderScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score averages the compound polarity of each item's text and collects
// keyword candidates across the batch.
func (s *VaderScorer) Score(items []any) (float64, []string) {
	var total float64
	var scored int
	var keywords []string

	for _, item := range items {
		text := itemText(item)
		if strings.TrimSpace(text) == "" {
			continue
		}
		total += s.analyzer.PolarityScores(text).Compound
		scored++
		keywords = append(keywords, extractKeywords(text)...)
	}
	if scored == 0 {
		return 0, nil
	}
	return total / float64(scored), dedupeKeywords(keywords, maxKeywords)
}

// itemText picks the scoreable text of an item: the first non-empty of
// text, title, and description, matching the loose shapes the sources
// produce.
func itemText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case model.SocialPost:
		return v.Content()
	case *model.SocialPost:
		return v.Content()
	case model.NewsArticle:
		if v.Title != "" {
			return v.Title
		}
		return v.Description
	case model.SearchItem:
		return v.Title
	case map[string]any:
		for _, key := range []string{"text", "title", "description"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"being": true, "could": true, "does": true, "from": true, "have": true,
	"here": true, "http": true, "https": true, "into": true, "just": true,
	"like": true, "more": true, "most": true, "much": true, "near": true,
	"only": true, "over": true, "said": true, "some": true, "than": true,
	"that": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "today": true, "very": true,
	"were": true, "what": true, "when": true, "where": true, "which": true,
	"while": true, "will": true, "with": true, "would": true, "your": true,
}

// extractKeywords pulls lowercase content words out of a text. Tokens
// shorter than four runes and stopwords are skipped.
func extractKeywords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var out []string
	for _, f := range fields {
		if len(f) < 4 || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// dedupeKeywords keeps first occurrences in order, capped at max.
func dedupeKeywords(keywords []string, max int) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range keywords {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) >= max {
			break
		}
	}
	return out
}
