package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Cache source names. Each (location, source) pair maps to one entry.
const (
	CacheSourceTwitter = "twitter"
	CacheSourceReddit  = "reddit"
	CacheSourceNews    = "news"
	CacheSourcePlaces  = "places"
	CacheSourceMaps    = "maps"
)

// CacheEntry is one cached source payload for a location. Payload holds
// the JSON-encoded result so backends only ever store a string.
type CacheEntry struct {
	Location  string    `json:"location" firestore:"location"`
	Source    string    `json:"source" firestore:"source"`
	Payload   string    `json:"payload" firestore:"payload"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at"`
}

// CacheKey builds the canonical key for a (location, source) pair.
// Location is lowercased and slashes are flattened so the key is safe as
// a document ID.
func CacheKey(location, source string) string {
	loc := NormalizeLocation(location)
	loc = strings.ReplaceAll(loc, "/", "_")
	return fmt.Sprintf("%s_%s", loc, source)
}

// Key returns the entry's canonical cache key.
func (e *CacheEntry) Key() string {
	return CacheKey(e.Location, e.Source)
}

// Fresh reports whether the entry is younger than ttl at the given time.
func (e *CacheEntry) Fresh(ttl time.Duration, now time.Time) bool {
	if e.UpdatedAt.IsZero() {
		return false
	}
	return now.Sub(e.UpdatedAt) < ttl
}

// Historic payloads were stored as rendered text, so failures ended up
// cached alongside real data. These phrases identify such entries; they
// are purged on read instead of being served.
var failurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`no .* found`),
	regexp.MustCompile(`\berror\b`),
	regexp.MustCompile(`\bexception\b`),
	regexp.MustCompile(`not found`),
	regexp.MustCompile(`could not find`),
}

// LooksLikeFailure reports whether a payload records a failed or empty
// fetch rather than usable data.
func LooksLikeFailure(payload string) bool {
	p := strings.ToLower(payload)
	if strings.TrimSpace(p) == "" {
		return true
	}
	for _, re := range failurePatterns {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

// Reusable reports whether the entry holds data worth serving.
func (e *CacheEntry) Reusable() bool {
	payload := strings.TrimSpace(e.Payload)
	switch payload {
	case "", "[]", "{}", "null":
		return false
	}
	return !LooksLikeFailure(payload)
}
