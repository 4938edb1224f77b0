package workflow

import (
	"context"
	"encoding/json"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/topdown/print"
)

// regoPrintHook routes Rego print() statements into the structured log
type regoPrintHook struct{}

func (h *regoPrintHook) Print(ctx print.Context, message string) error {
	logging.Default().Debug("rego print", "message", message)
	return nil
}

// Engine evaluates advisory policies against mood snapshots. Operators
// drop .rego files into the policy directory; each policy contributes
// advisories to the data.advisory document.
type Engine struct {
	policy *rego.PreparedEvalQuery
}

// New creates an advisory engine from all Rego files in policyDir. An
// empty directory yields an engine that produces no advisories.
func New(ctx context.Context, policyDir string) (*Engine, error) {
	policy, err := loadPolicies(ctx, policyDir)
	if err != nil {
		return nil, err
	}

	return &Engine{policy: policy}, nil
}

// Evaluate runs the advisory policies on one mood snapshot and returns
// the advisories they produce.
func (e *Engine) Evaluate(ctx context.Context, location string, mood model.MoodResult) ([]model.Advisory, error) {
	if e.policy == nil {
		return nil, nil
	}

	input := map[string]any{
		"location":   model.NormalizeLocation(location),
		"mood_label": string(mood.Label),
		"mood_score": mood.Score,
		"events":     toInput(mood.Events),
		"breakdown":  toInput(mood.Breakdown),
	}

	rs, err := e.policy.Eval(ctx, rego.EvalInput(input), rego.EvalPrintHook(&regoPrintHook{}))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate advisory policy",
			goerr.V("location", location))
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}

	data, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return nil, goerr.New("invalid advisory result: document is not an object")
	}

	adviceData, ok := data["advice"]
	if !ok {
		return nil, nil
	}
	items, ok := adviceData.([]any)
	if !ok {
		return nil, goerr.New("invalid advisory result: advice is not an array")
	}

	advisories := make([]model.Advisory, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, goerr.New("invalid advisory entry")
		}
		advisories = append(advisories, model.Advisory{
			Title:    getString(m, "title"),
			Severity: getString(m, "severity"),
			Note:     getString(m, "note"),
		})
	}

	return advisories, nil
}

// toInput converts a typed value into the plain map/slice shape Rego
// inputs expect.
func toInput(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
