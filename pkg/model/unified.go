package model

// Sources carries the raw per-source payloads collected for one request.
// Any field may be left zero when the source was skipped or failed.
type Sources struct {
	Twitter   []SocialPost
	Reddit    []SocialPost
	News      []NewsArticle
	Maps      Route
	Reports   []*Report
	Knowledge []string
	Search    []SearchItem
}

// UnifiedResult is the single aggregate handed to response generation and
// mood scoring. Every field is always present: slices are non-nil and
// Maps falls back to a zero Route, so consumers never branch on missing
// keys.
type UnifiedResult struct {
	Twitter   []SocialPost  `json:"twitter"`
	Reddit    []SocialPost  `json:"reddit"`
	News      []NewsArticle `json:"news"`
	Maps      Route         `json:"maps"`
	Reports   []*Report     `json:"stored_reports"`
	Knowledge []string      `json:"knowledge"`
	Search    []SearchItem  `json:"search"`
}

// Unify normalizes collected payloads into a total UnifiedResult.
func Unify(src Sources) UnifiedResult {
	return UnifiedResult{
		Twitter:   orEmpty(src.Twitter),
		Reddit:    orEmpty(src.Reddit),
		News:      orEmpty(src.News),
		Maps:      src.Maps,
		Reports:   orEmpty(src.Reports),
		Knowledge: orEmpty(src.Knowledge),
		Search:    orEmpty(src.Search),
	}
}

// Empty reports whether no source contributed any data.
func (u UnifiedResult) Empty() bool {
	return len(u.Twitter) == 0 && len(u.Reddit) == 0 && len(u.News) == 0 &&
		u.Maps.IsZero() && len(u.Reports) == 0 && len(u.Knowledge) == 0 &&
		len(u.Search) == 0
}

func orEmpty[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
