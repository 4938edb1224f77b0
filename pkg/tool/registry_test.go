package tool_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"

	"github.com/citypulse-ai/citypulse/pkg/tool"
)

type stubTool struct {
	name    string
	usable  bool
	initErr error
	calls   int
}

func (s *stubTool) Init(ctx context.Context, client *tool.Client) (bool, error) {
	return s.usable, s.initErr
}

func (s *stubTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{Name: s.name}},
	}
}

func (s *stubTool) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	s.calls++
	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"tool": s.name},
	}, nil
}

func (s *stubTool) Prompt(ctx context.Context) string {
	return "use " + s.name
}

func (s *stubTool) Flags() []cli.Flag {
	return nil
}

func TestBuildRegistersOnlyUsableTools(t *testing.T) {
	ctx := context.Background()

	ready := &stubTool{name: "city_news", usable: true}
	unconfigured := &stubTool{name: "city_twitter", usable: false}
	broken := &stubTool{name: "city_maps", initErr: context.DeadlineExceeded}

	registry, enabled := tool.Build(ctx, &tool.Client{}, ready, unconfigured, broken)

	gt.A(t, enabled).Length(1)
	gt.Equal(t, enabled[0], tool.Tool(ready))
	gt.A(t, registry.Specs()).Length(1)

	resp, err := registry.Execute(ctx, genai.FunctionCall{Name: "city_news"})
	gt.NoError(t, err)
	gt.Equal(t, resp.Response["tool"], "city_news")
	gt.Equal(t, ready.calls, 1)

	_, err = registry.Execute(ctx, genai.FunctionCall{Name: "city_twitter"})
	gt.Error(t, err)
}

func TestRegistryPrompts(t *testing.T) {
	ctx := context.Background()

	registry, _ := tool.Build(ctx, &tool.Client{},
		&stubTool{name: "city_news", usable: true},
		&stubTool{name: "city_search", usable: true})

	prompts := registry.Prompts(ctx)
	gt.S(t, prompts).Contains("use city_news")
	gt.S(t, prompts).Contains("use city_search")
}
