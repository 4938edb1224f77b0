package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

const maxFacts = 5

type lookupInput struct {
	Location string `json:"location"`
	Topic    string `json:"topic"`
}

// knowledgeTool answers from the model's general knowledge when no live
// source applies. It is the document-store fallback of the original
// system, served by schema-constrained generation instead of a managed
// index.
type knowledgeTool struct {
	gemini adapter.Gemini
}

// New creates a new knowledge fallback tool
func New() *knowledgeTool {
	return &knowledgeTool{}
}

// NewWithGemini builds the tool with an explicit model, for tests.
func NewWithGemini(gemini adapter.Gemini) *knowledgeTool {
	return &knowledgeTool{gemini: gemini}
}

// Flags returns CLI flags for this tool
func (x *knowledgeTool) Flags() []cli.Flag {
	return nil
}

// Init initializes the tool
func (x *knowledgeTool) Init(ctx context.Context, client *tool.Client) (bool, error) {
	if client == nil || client.Gemini == nil {
		return false, nil
	}
	x.gemini = client.Gemini
	return true, nil
}

// Prompt returns additional information to be added to the system prompt
func (x *knowledgeTool) Prompt(ctx context.Context) string {
	return `When no live data source can answer a question about a location, use the lookup_knowledge tool for background facts.`
}

// Spec returns the tool specification for Gemini function calling
func (x *knowledgeTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "lookup_knowledge",
				Description: "Look up background facts about a location and topic",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"location": {
							Type:        genai.TypeString,
							Description: "City or area the question is about",
						},
						"topic": {
							Type:        genai.TypeString,
							Description: "Topic of interest, e.g. transport or food",
						},
					},
					Required: []string{"location"},
				},
			},
		},
	}
}

// Execute runs the tool with the given function call
func (x *knowledgeTool) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	paramsJSON, err := json.Marshal(fc.Args)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal function arguments")
	}

	var input lookupInput
	if err := json.Unmarshal(paramsJSON, &input); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input parameters")
	}

	facts, err := x.Lookup(ctx, input.Location, input.Topic)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up knowledge")
	}

	resultJSON, err := json.MarshalIndent(map[string]any{"facts": facts}, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal result")
	}

	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"result": string(resultJSON)},
	}, nil
}

// Lookup asks the model for a handful of short facts. The response is
// schema-constrained to a JSON string array.
func (x *knowledgeTool) Lookup(ctx context.Context, location, topic string) ([]string, error) {
	if x.gemini == nil {
		return nil, goerr.New("knowledge tool is not initialized")
	}
	if location == "" {
		return nil, goerr.New("location is empty")
	}
	if topic == "" {
		topic = "general"
	}

	prompt := fmt.Sprintf(
		"List up to %d short factual statements about %q relevant to the topic %q. "+
			"One sentence each, no numbering.",
		maxFacts, location, topic)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	}

	text, err := adapter.GenerateText(ctx, x.gemini, prompt, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate facts")
	}

	var facts []string
	if err := json.Unmarshal([]byte(text), &facts); err != nil {
		return nil, goerr.Wrap(err, "failed to parse facts", goerr.V("text", text))
	}
	if len(facts) > maxFacts {
		facts = facts[:maxFacts]
	}
	return facts, nil
}
