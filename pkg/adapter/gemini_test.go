package adapter_test

import (
	"context"
	"os"
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

func TestGenerateContent(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}

	ctx := context.Background()
	client, err := adapter.NewGemini(ctx, projectID, "us-central1")
	gt.NoError(t, err)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: "Hello, what is the capital of France?"},
			},
		},
	}

	resp, err := client.GenerateContent(ctx, contents, nil)
	if err != nil {
		t.Fatal("failed to call GenerateContent", err)
	}

	if adapter.ResponseText(resp) == "" {
		t.Fatal("unexpected empty response")
	}

	t.Log("response:", adapter.ResponseText(resp))
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "first "},
						{Text: "second"},
					},
				},
			},
		},
	}
	gt.Equal(t, adapter.ResponseText(resp), "first second")

	gt.Equal(t, adapter.ResponseText(nil), "")
	gt.Equal(t, adapter.ResponseText(&genai.GenerateContentResponse{}), "")
}

type fixedGemini struct {
	text string
}

func (g *fixedGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: g.text}}}},
		},
	}, nil
}

func TestGenerateText(t *testing.T) {
	ctx := context.Background()

	text, err := adapter.GenerateText(ctx, &fixedGemini{text: "  hello \n"}, "hi", nil)
	gt.NoError(t, err)
	gt.Equal(t, text, "hello")

	_, err = adapter.GenerateText(ctx, &fixedGemini{text: "   "}, "hi", nil)
	gt.Error(t, err)
}
