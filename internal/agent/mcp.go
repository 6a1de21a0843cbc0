package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"lumen/internal/config"
)

// DiscoverMCPTools connects to the configured stdio MCP servers, lists
// their tools, and returns them as registry entries plus a closer for
// the underlying clients. A server that fails to come up is skipped
// with a warning; tool discovery is best-effort per server.
func DiscoverMCPTools(ctx context.Context, servers []config.MCPServerSpec) ([]Tool, func(), error) {
	var tools []Tool
	var clients []*mcpclient.Client

	closeAll := func() {
		for _, c := range clients {
			_ = c.Close()
		}
	}

	for _, spec := range servers {
		c, err := mcpclient.NewStdioMCPClient(spec.Command, spec.Env, spec.Args...)
		if err != nil {
			log.Warn().Err(err).Str("server", spec.Name).Msg("Failed to start MCP server")
			continue
		}

		initReq := mcp.InitializeRequest{}
		initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
		initReq.Params.ClientInfo = mcp.Implementation{Name: "lumen", Version: "0.1.0"}
		if _, err := c.Initialize(ctx, initReq); err != nil {
			log.Warn().Err(err).Str("server", spec.Name).Msg("Failed to initialize MCP server")
			_ = c.Close()
			continue
		}
		clients = append(clients, c)

		listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			log.Warn().Err(err).Str("server", spec.Name).Msg("Failed to list MCP tools")
			continue
		}

		log.Info().Str("server", spec.Name).Int("tools", len(listed.Tools)).Msg("Discovered MCP tools")
		for _, t := range listed.Tools {
			tools = append(tools, &mcpTool{client: c, server: spec.Name, tool: t})
		}
	}

	if len(tools) == 0 && len(servers) > 0 {
		closeAll()
		return nil, func() {}, fmt.Errorf("no tools discovered from %d MCP servers", len(servers))
	}

	return tools, closeAll, nil
}

// mcpTool adapts one remote MCP tool to the registry interface.
type mcpTool struct {
	client *mcpclient.Client
	server string
	tool   mcp.Tool
}

func (t *mcpTool) Name() string { return t.tool.Name }

func (t *mcpTool) Description() string { return t.tool.Description }

func (t *mcpTool) Schema() map[string]any {
	raw, err := json.Marshal(t.tool.InputSchema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return map[string]any{"type": "object"}
	}
	return schema
}

// Invoke forwards the call and flattens the result contents into text.
// Non-text contents are serialized rather than dropped.
func (t *mcpTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = t.tool.Name
	req.Params.Arguments = args

	res, err := t.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("call %s on %s: %w", t.tool.Name, t.server, err)
	}

	var parts []string
	for _, content := range res.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
			continue
		}
		raw, err := json.Marshal(content)
		if err != nil {
			continue
		}
		parts = append(parts, string(raw))
	}
	joined := strings.Join(parts, "\n")

	if res.IsError {
		return "", fmt.Errorf("%s", joined)
	}
	return joined, nil
}
