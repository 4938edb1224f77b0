package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

// Provider exposes the tools of all connected MCP servers as one
// tool.Tool, routing each function call back to the server that
// advertised it.
type Provider struct {
	client *Client
	decls  []*genai.FunctionDeclaration
	routes map[string]route
}

type route struct {
	server string
	tool   string
}

// NewProvider wraps a connected MCP client.
func NewProvider(client *Client) *Provider {
	return &Provider{
		client: client,
		routes: map[string]route{},
	}
}

// Flags returns nil: MCP servers are configured by file, not flags.
func (p *Provider) Flags() []cli.Flag {
	return nil
}

// Init collects the advertised tools from every connected server. When
// two servers advertise the same tool name, the first one wins and the
// duplicate is skipped with a warning.
func (p *Provider) Init(ctx context.Context, _ *tool.Client) (bool, error) {
	if p.client == nil {
		return false, nil
	}

	for _, server := range p.client.GetAllServers() {
		tools, err := p.client.GetTools(server)
		if err != nil {
			return false, err
		}

		for _, t := range tools {
			decl, err := functionDeclaration(t)
			if err != nil {
				return false, goerr.Wrap(err, "failed to convert mcp tool",
					goerr.V("server", server), goerr.V("tool", t.Name))
			}
			if _, dup := p.routes[decl.Name]; dup {
				logging.From(ctx).Warn("duplicate mcp tool name, keeping first",
					"tool", decl.Name, "server", server)
				continue
			}
			p.decls = append(p.decls, decl)
			p.routes[decl.Name] = route{server: server, tool: t.Name}
		}
	}

	return len(p.decls) > 0, nil
}

// functionDeclaration maps an MCP tool description onto a Gemini
// function declaration, carrying the input schema over when present.
func functionDeclaration(t *mcp.Tool) (*genai.FunctionDeclaration, error) {
	decl := &genai.FunctionDeclaration{
		Name:        t.Name,
		Description: t.Description,
	}
	if t.InputSchema == nil {
		return decl, nil
	}

	raw, err := json.Marshal(t.InputSchema)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode mcp input schema")
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, goerr.Wrap(err, "failed to decode mcp input schema")
	}

	params, err := convertJSONSchemaToGenai(&schema)
	if err != nil {
		return nil, err
	}
	decl.Parameters = params
	return decl, nil
}

// Spec returns the combined function declarations of all servers.
func (p *Provider) Spec() *genai.Tool {
	if len(p.decls) == 0 {
		return nil
	}
	return &genai.Tool{FunctionDeclarations: p.decls}
}

// Prompt names the mounted MCP tools so the model knows they exist.
func (p *Provider) Prompt(ctx context.Context) string {
	if len(p.decls) == 0 {
		return ""
	}

	names := make([]string, 0, len(p.decls))
	for _, decl := range p.decls {
		names = append(names, decl.Name)
	}
	sort.Strings(names)
	return "External MCP tools providing additional city data (transit feeds, open data portals, web lookups): " +
		strings.Join(names, ", ") + "."
}

// Execute routes a function call to the owning server and returns the
// raw result as JSON.
func (p *Provider) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	r, ok := p.routes[fc.Name]
	if !ok {
		return nil, goerr.New("unknown mcp tool", goerr.V("name", fc.Name))
	}

	result, err := p.client.CallTool(ctx, r.server, r.tool, fc.Args)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode mcp result", goerr.V("tool", fc.Name))
	}
	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"result": string(raw)},
	}, nil
}
