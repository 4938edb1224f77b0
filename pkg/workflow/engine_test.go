package workflow_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/workflow"
	"github.com/m-mizutani/gt"
)

func writePolicy(t *testing.T, dir, name, body string) {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestEvaluateAdvisories(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	policy := `package advisory

advice contains {
	"title": "Avoid non-essential travel",
	"severity": "high",
	"note": "tense mood with active protest",
} if {
	input.mood_label == "tense"
	some event in input.events
	event.type == "protest"
}

advice contains {
	"title": "Expect delays on major roads",
	"severity": "medium",
	"note": "",
} if {
	input.breakdown.maps.score < 0
}
`
	writePolicy(t, tmpDir, "advisory.rego", policy)

	engine, err := workflow.New(ctx, tmpDir)
	gt.NoError(t, err)

	mood := model.MoodResult{
		Label: model.MoodTense,
		Score: -0.42,
		Events: []model.Event{
			{Type: "protest", Count: 3, Sources: []string{"twitter"}},
		},
		Breakdown: map[string]model.SourceMood{
			"maps": {Score: -0.5, TopKeywords: []string{"traffic"}},
		},
	}

	advisories, err := engine.Evaluate(ctx, "Bangalore", mood)
	gt.NoError(t, err)
	gt.A(t, advisories).Length(2)

	titles := map[string]bool{}
	for _, a := range advisories {
		titles[a.Title] = true
	}
	gt.Equal(t, titles["Avoid non-essential travel"], true)
	gt.Equal(t, titles["Expect delays on major roads"], true)
}

func TestEvaluateNoMatch(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	policy := `package advisory

advice contains {
	"title": "Stay indoors",
	"severity": "high",
	"note": "",
} if {
	input.mood_label == "tense"
}
`
	writePolicy(t, tmpDir, "advisory.rego", policy)

	engine, err := workflow.New(ctx, tmpDir)
	gt.NoError(t, err)

	advisories, err := engine.Evaluate(ctx, "bangalore", model.MoodResult{
		Label: model.MoodHappy,
		Score: 0.6,
	})
	gt.NoError(t, err)
	gt.A(t, advisories).Length(0)
}

func TestNoPolicyFiles(t *testing.T) {
	ctx := context.Background()

	engine, err := workflow.New(ctx, t.TempDir())
	gt.NoError(t, err)

	advisories, err := engine.Evaluate(ctx, "bangalore", model.MoodResult{
		Label: model.MoodNeutral,
	})
	gt.NoError(t, err)
	gt.A(t, advisories).Length(0)
}
