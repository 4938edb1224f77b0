package model

import "strings"

// SocialPost is a normalized post from Twitter or Reddit. Twitter fills
// Text, Reddit fills Title and optionally Text (selftext).
type SocialPost struct {
	ID        string `json:"id,omitempty" firestore:"id,omitempty"`
	Text      string `json:"text,omitempty" firestore:"text,omitempty"`
	Title     string `json:"title,omitempty" firestore:"title,omitempty"`
	Author    string `json:"author,omitempty" firestore:"author,omitempty"`
	CreatedAt string `json:"created_at,omitempty" firestore:"created_at,omitempty"`
}

// Content returns the text used for display and sentiment scoring.
func (p SocialPost) Content() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Title
}

type NewsArticle struct {
	Source      string `json:"source,omitempty" firestore:"source,omitempty"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	URL         string `json:"url,omitempty" firestore:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty" firestore:"published_at,omitempty"`
}

type RouteStep struct {
	Instruction string `json:"instruction" firestore:"instruction"`
	Distance    string `json:"distance,omitempty" firestore:"distance,omitempty"`
	Duration    string `json:"duration,omitempty" firestore:"duration,omitempty"`
}

// Route is one driving (or transit) route between two points. Duration
// values are the human readable texts from the directions API.
type Route struct {
	Summary           string      `json:"summary,omitempty" firestore:"summary,omitempty"`
	Distance          string      `json:"distance,omitempty" firestore:"distance,omitempty"`
	Duration          string      `json:"duration,omitempty" firestore:"duration,omitempty"`
	DurationInTraffic string      `json:"duration_in_traffic,omitempty" firestore:"duration_in_traffic,omitempty"`
	StartAddress      string      `json:"start_address,omitempty" firestore:"start_address,omitempty"`
	EndAddress        string      `json:"end_address,omitempty" firestore:"end_address,omitempty"`
	Steps             []RouteStep `json:"steps,omitempty" firestore:"steps,omitempty"`
}

// IsZero reports whether no route data is present.
func (r Route) IsZero() bool {
	return r.Summary == "" && r.Distance == "" && r.Duration == "" &&
		r.DurationInTraffic == "" && r.StartAddress == "" && r.EndAddress == "" &&
		len(r.Steps) == 0
}

// HasTrafficDelay reports whether live traffic extends the nominal
// duration. Equal texts mean free flow.
func (r Route) HasTrafficDelay() bool {
	return r.DurationInTraffic != "" && r.DurationInTraffic != r.Duration
}

type Place struct {
	Name    string  `json:"name" firestore:"name"`
	Type    string  `json:"type,omitempty" firestore:"type,omitempty"`
	Rating  float64 `json:"rating,omitempty" firestore:"rating,omitempty"`
	Address string  `json:"address,omitempty" firestore:"address,omitempty"`
	PlaceID string  `json:"place_id,omitempty" firestore:"place_id,omitempty"`
	PhotoURL string `json:"photo_url,omitempty" firestore:"photo_url,omitempty"`
	OpenNow bool    `json:"open_now,omitempty" firestore:"open_now,omitempty"`
}

type SearchItem struct {
	Title   string `json:"title" firestore:"title"`
	Snippet string `json:"snippet,omitempty" firestore:"snippet,omitempty"`
	Link    string `json:"link,omitempty" firestore:"link,omitempty"`
}

// NormalizeLocation canonicalizes a location string for cache keys and
// stored lookups.
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
