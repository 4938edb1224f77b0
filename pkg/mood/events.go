package mood

import (
	"regexp"

	"github.com/citypulse-ai/citypulse/pkg/model"
)

// eventVocabulary lists the happenings worth surfacing in a mood
// snapshot. Order fixes the order of detected events in the result.
var eventVocabulary = []string{
	"accident",
	"protest",
	"festival",
	"fire",
	"parade",
	"closure",
	"strike",
	"roadwork",
	"emergency",
	"flood",
	"rally",
	"concert",
}

var eventPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(eventVocabulary))
	for _, word := range eventVocabulary {
		patterns[word] = regexp.MustCompile(`(?i)\b` + word + `\b`)
	}
	return patterns
}()

// detectEvents scans every text item of the scored sources for event
// keywords. Counts are merged across sources and each source is named
// once per event.
func detectEvents(u model.UnifiedResult) []model.Event {
	type tally struct {
		count   int
		sources []string
	}
	tallies := map[string]*tally{}

	scan := func(source string, texts []string) {
		for _, text := range texts {
			for _, word := range eventVocabulary {
				n := len(eventPatterns[word].FindAllStringIndex(text, -1))
				if n == 0 {
					continue
				}
				tl := tallies[word]
				if tl == nil {
					tl = &tally{}
					tallies[word] = tl
				}
				tl.count += n
				if len(tl.sources) == 0 || tl.sources[len(tl.sources)-1] != source {
					tl.sources = append(tl.sources, source)
				}
			}
		}
	}

	scan(sourceTwitter, postTexts(u.Twitter))
	scan(sourceReddit, postTexts(u.Reddit))
	scan(sourceNews, articleTexts(u.News))
	scan(sourceSearch, searchTexts(u.Search))

	events := make([]model.Event, 0, len(tallies))
	for _, word := range eventVocabulary {
		tl := tallies[word]
		if tl == nil {
			continue
		}
		events = append(events, model.Event{
			Type:    word,
			Count:   tl.count,
			Sources: tl.sources,
		})
	}
	return events
}

func postTexts(posts []model.SocialPost) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Content())
	}
	return out
}

func articleTexts(articles []model.NewsArticle) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		text := a.Title
		if a.Description != "" {
			text += " " + a.Description
		}
		out = append(out, text)
	}
	return out
}

func searchTexts(items []model.SearchItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		text := it.Title
		if it.Snippet != "" {
			text += " " + it.Snippet
		}
		out = append(out, text)
	}
	return out
}
