package mcp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citypulse-ai/citypulse/pkg/service/mcp"
	"github.com/m-mizutani/gt"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

func TestProviderRoutesToolCalls(t *testing.T) {
	ctx := context.Background()

	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "city-data",
		Version: "1.0.0",
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "transit_status",
		Description: "Current status of a transit line",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, params *struct {
		Line string `json:"line" jsonschema:"Transit line name"`
	}) (*mcpsdk.CallToolResult, any, error) {
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: params.Line + ": running"},
			},
		}, nil, nil
	})

	handler := mcpsdk.NewStreamableHTTPHandler(func(r *http.Request) *mcpsdk.Server {
		return server
	}, nil)
	testServer := httptest.NewServer(handler)
	defer testServer.Close()

	client := mcp.NewClient()
	gt.NoError(t, client.Connect(ctx, mcp.ServerConfig{
		Name:      "city-data",
		Transport: "http",
		URL:       testServer.URL,
	}))
	defer client.Close()

	provider := mcp.NewProvider(client)
	ok, err := provider.Init(ctx, nil)
	gt.NoError(t, err)
	gt.True(t, ok)

	spec := provider.Spec()
	gt.V(t, spec).NotNil()
	gt.A(t, spec.FunctionDeclarations).Length(1)
	gt.Equal(t, spec.FunctionDeclarations[0].Name, "transit_status")
	gt.S(t, provider.Prompt(ctx)).Contains("transit_status")

	resp, err := provider.Execute(ctx, genai.FunctionCall{
		Name: "transit_status",
		Args: map[string]any{"line": "purple"},
	})
	gt.NoError(t, err)
	result, isString := resp.Response["result"].(string)
	gt.True(t, isString)
	gt.S(t, result).Contains("purple: running")

	_, err = provider.Execute(ctx, genai.FunctionCall{Name: "no_such_tool"})
	gt.Error(t, err)
}
