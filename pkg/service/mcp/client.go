package mcp

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

// Client holds sessions to the configured MCP servers, keyed by the
// server name from the config file.
type Client struct {
	servers map[string]*connection
}

type connection struct {
	session *mcp.ClientSession
	tools   []*mcp.Tool
}

// ServerConfig describes one MCP server entry in the config file.
type ServerConfig struct {
	Name      string            `yaml:"name"`
	Transport string            `yaml:"transport"` // "stdio" or "http"
	Command   []string          `yaml:"command"`
	URL       string            `yaml:"url"`
	Env       map[string]string `yaml:"env"`
}

// Config is the root of the MCP servers YAML file.
type Config struct {
	Servers []ServerConfig `yaml:"servers"`
}

// NewClient creates an MCP client with no connections.
func NewClient() *Client {
	return &Client{
		servers: map[string]*connection{},
	}
}

// Connect opens a session to one MCP server and lists its tools.
func (c *Client) Connect(ctx context.Context, cfg ServerConfig) error {
	if _, ok := c.servers[cfg.Name]; ok {
		return goerr.New("mcp server already connected", goerr.V("name", cfg.Name))
	}

	transport, err := cfg.transport()
	if err != nil {
		return err
	}

	session, err := mcp.NewClient(&mcp.Implementation{
		Name:    "citypulse",
		Version: "0.1.0",
	}, nil).Connect(ctx, transport, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to connect to mcp server", goerr.V("name", cfg.Name))
	}

	listed, err := session.ListTools(ctx, nil)
	if err != nil {
		_ = session.Close()
		return goerr.Wrap(err, "failed to list mcp tools", goerr.V("name", cfg.Name))
	}

	c.servers[cfg.Name] = &connection{
		session: session,
		tools:   listed.Tools,
	}
	return nil
}

func (cfg ServerConfig) transport() (mcp.Transport, error) {
	switch cfg.Transport {
	case "stdio":
		if len(cfg.Command) == 0 {
			return nil, goerr.New("command is required for stdio transport",
				goerr.V("name", cfg.Name))
		}
		cmd := exec.Command(cfg.Command[0], cfg.Command[1:]...)
		if len(cfg.Env) > 0 {
			env := os.Environ()
			for k, v := range cfg.Env {
				env = append(env, k+"="+v)
			}
			cmd.Env = env
		}
		return &mcp.CommandTransport{Command: cmd}, nil

	case "http":
		if cfg.URL == "" {
			return nil, goerr.New("url is required for http transport",
				goerr.V("name", cfg.Name))
		}
		return &mcp.StreamableClientTransport{Endpoint: cfg.URL}, nil

	default:
		return nil, goerr.New("unsupported mcp transport",
			goerr.V("name", cfg.Name),
			goerr.V("transport", cfg.Transport),
			goerr.V("supported", []string{"stdio", "http"}))
	}
}

// GetTools returns the tools a connected server advertised.
func (c *Client) GetTools(serverName string) ([]*mcp.Tool, error) {
	conn, ok := c.servers[serverName]
	if !ok {
		return nil, goerr.New("mcp server not found", goerr.V("name", serverName))
	}
	return conn.tools, nil
}

// GetAllServers returns the connected server names, sorted.
func (c *Client) GetAllServers() []string {
	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallTool invokes one tool on a connected server.
func (c *Client) CallTool(ctx context.Context, serverName, toolName string, arguments map[string]any) (*mcp.CallToolResult, error) {
	conn, ok := c.servers[serverName]
	if !ok {
		return nil, goerr.New("mcp server not found", goerr.V("name", serverName))
	}

	result, err := conn.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: arguments,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "mcp tool call failed",
			goerr.V("server", serverName), goerr.V("tool", toolName))
	}
	return result, nil
}

// Close shuts down every session. All sessions are closed even when
// some fail.
func (c *Client) Close() error {
	var errs []error
	for name, conn := range c.servers {
		if err := conn.session.Close(); err != nil {
			errs = append(errs, goerr.Wrap(err, "failed to close mcp session",
				goerr.V("name", name)))
		}
	}
	c.servers = map[string]*connection{}
	return errors.Join(errs...)
}

// LoadAndConnect reads the servers config and connects to each entry.
// It returns a tool provider when at least one server is reachable; a
// missing config or all-failed connections yield (nil, nil) so the
// assistant keeps running without MCP tools.
func LoadAndConnect(ctx context.Context, configPath string) (tool.Tool, error) {
	if configPath == "" {
		return nil, nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.From(ctx)
	if len(cfg.Servers) == 0 {
		logger.Info("mcp config has no servers", "path", configPath)
		return nil, nil
	}

	client := NewClient()
	connected := 0
	for _, serverCfg := range cfg.Servers {
		if err := client.Connect(ctx, serverCfg); err != nil {
			logger.Warn("failed to connect to mcp server",
				"server", serverCfg.Name, "error", err)
			continue
		}
		tools, _ := client.GetTools(serverCfg.Name)
		logger.Info("connected to mcp server",
			"server", serverCfg.Name, "tools", len(tools))
		connected++
	}

	if connected == 0 {
		logger.Warn("no mcp servers reachable", "configured", len(cfg.Servers))
		return nil, nil
	}
	return NewProvider(client), nil
}

func loadConfig(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve mcp config path",
			goerr.V("path", path))
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read mcp config", goerr.V("path", abs))
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse mcp config", goerr.V("path", abs))
	}
	return &cfg, nil
}
