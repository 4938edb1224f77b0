package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"google.golang.org/genai"
)

// maxToolIterations bounds the tool-calling loop of the generic
// fallback.
const maxToolIterations = 4

// summarize turns a unified result into the final answer text. With a
// model available the aggregated record is handed to it; otherwise a
// plain textual rendering is returned.
func (uc *UseCase) summarize(ctx context.Context, message string, unified model.UnifiedResult) string {
	if unified.Empty() {
		return ""
	}

	if uc.gemini == nil {
		return renderUnified(unified)
	}

	data, err := json.MarshalIndent(unified, "", "  ")
	if err != nil {
		return renderUnified(unified)
	}

	prompt := fmt.Sprintf(
		"Answer the user's question using only the data below. Be concise and conversational; do not mention the data format.\n\nQuestion: %s\n\nData:\n%s",
		message, string(data))

	text, err := adapter.GenerateText(ctx, uc.gemini, prompt, nil)
	if err != nil {
		logging.From(ctx).Warn("summarization failed, using raw rendering", "error", err)
		return renderUnified(unified)
	}
	return text
}

// genericFallback handles queries with no direct handler. Depending on
// the configured mode it either lets the model drive the registered
// tools or goes straight to a web search.
func (uc *UseCase) genericFallback(ctx context.Context, message string) string {
	switch uc.fallbackMode {
	case FallbackSearch:
		if uc.search != nil {
			items, err := uc.search.Search(ctx, message, 5)
			if err == nil && len(items) > 0 {
				return uc.summarize(ctx, message, model.Unify(model.Sources{Search: items}))
			}
			if err != nil {
				logging.From(ctx).Warn("fallback search failed", "error", err)
			}
		}
	default:
		if reply := uc.toolLoop(ctx, message); reply != "" {
			return reply
		}
	}
	return uc.plainAnswer(ctx, message)
}

// toolLoop runs the model with the tool registry until it stops calling
// functions or the iteration budget runs out. Returns "" when the loop
// cannot produce text.
func (uc *UseCase) toolLoop(ctx context.Context, message string) string {
	if uc.gemini == nil || uc.registry == nil {
		return ""
	}
	logger := logging.From(ctx)

	systemPrompt := "You are a helpful city assistant. Use the available tools to answer questions about what is happening in a city."
	if extra := uc.registry.Prompts(ctx); extra != "" {
		systemPrompt += "\n\n" + extra
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		Tools:             uc.registry.Specs(),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(message, genai.RoleUser),
	}

	var reply strings.Builder
	for i := 0; i < maxToolIterations; i++ {
		resp, err := uc.gemini.GenerateContent(ctx, contents, config)
		if err != nil {
			logger.Warn("fallback generation failed", "error", err)
			return ""
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			break
		}

		content := resp.Candidates[0].Content
		contents = append(contents, content)

		var functionResponses []*genai.Part
		for _, part := range content.Parts {
			if part.Text != "" {
				reply.WriteString(part.Text)
			}
			if part.FunctionCall == nil {
				continue
			}

			funcResp, execErr := uc.registry.Execute(ctx, *part.FunctionCall)
			if execErr != nil {
				logger.Warn("fallback tool call failed",
					"tool", part.FunctionCall.Name, "error", execErr)
				funcResp = &genai.FunctionResponse{
					Name:     part.FunctionCall.Name,
					Response: map[string]any{"error": execErr.Error()},
				}
			}
			functionResponses = append(functionResponses, &genai.Part{FunctionResponse: funcResp})
		}

		if len(functionResponses) == 0 {
			break
		}
		reply.Reset() // keep only the text after the last tool round
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: functionResponses,
		})
	}

	return strings.TrimSpace(reply.String())
}

// plainAnswer is the catch-all: a free-text answer with no tool-derived
// content. Returns "" when no model is configured; the caller supplies
// the static fallback text.
func (uc *UseCase) plainAnswer(ctx context.Context, message string) string {
	if uc.gemini == nil {
		return ""
	}

	prompt := fmt.Sprintf(
		"You are a helpful city assistant. Answer the following question conversationally. If you lack current data, say so honestly.\n\nQuestion: %s",
		message)

	text, err := adapter.GenerateText(ctx, uc.gemini, prompt, nil)
	if err != nil {
		logging.From(ctx).Warn("plain answer generation failed", "error", err)
		return ""
	}
	return text
}

// renderUnified is the model-free rendering of an aggregate, used when
// no LLM is configured or summarization fails.
func renderUnified(u model.UnifiedResult) string {
	var sb strings.Builder

	for _, p := range u.Twitter {
		fmt.Fprintf(&sb, "- %s\n", p.Content())
	}
	for _, p := range u.Reddit {
		fmt.Fprintf(&sb, "- %s\n", p.Content())
	}
	for _, a := range u.News {
		fmt.Fprintf(&sb, "- %s\n", a.Title)
	}
	if !u.Maps.IsZero() {
		fmt.Fprintf(&sb, "Route via %s: %s, %s", u.Maps.Summary, u.Maps.Distance, u.Maps.Duration)
		if u.Maps.HasTrafficDelay() {
			fmt.Fprintf(&sb, " (%s in traffic)", u.Maps.DurationInTraffic)
		}
		sb.WriteString("\n")
	}
	for _, r := range u.Reports {
		fmt.Fprintf(&sb, "- [%s] %s: %s\n", r.Severity, r.Topic, r.Description)
	}
	for _, k := range u.Knowledge {
		fmt.Fprintf(&sb, "- %s\n", k)
	}
	for _, s := range u.Search {
		fmt.Fprintf(&sb, "- %s: %s\n", s.Title, s.Snippet)
	}

	return strings.TrimSpace(sb.String())
}
