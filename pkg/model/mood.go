package model

// MoodLabel is the coarse summary of how a location feels right now.
type MoodLabel string

const (
	MoodHappy   MoodLabel = "happy"
	MoodTense   MoodLabel = "tense"
	MoodBusy    MoodLabel = "busy"
	MoodNeutral MoodLabel = "neutral"
)

// SourceMood is the per-source contribution to a mood score.
type SourceMood struct {
	Score       float64  `json:"score"`
	TopKeywords []string `json:"top_keywords"`
}

// Event is a notable happening detected in source texts, such as a
// protest or a road closure.
type Event struct {
	Type    string   `json:"type"`
	Count   int      `json:"count"`
	Sources []string `json:"sources"`
}

// MoodResult is the aggregate mood snapshot for one location.
type MoodResult struct {
	Label     MoodLabel             `json:"mood_label"`
	Score     float64               `json:"mood_score"`
	Events    []Event               `json:"events"`
	Breakdown map[string]SourceMood `json:"source_breakdown"`
}

// Advisory is a policy-derived recommendation produced from a mood
// snapshot, such as "avoid the ring road during the protest".
type Advisory struct {
	Title    string `json:"title"`
	Severity string `json:"severity,omitempty"`
	Note     string `json:"note,omitempty"`
}
