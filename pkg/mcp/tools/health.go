package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/config"
)

type healthResult struct {
	Status               string `json:"status"`
	Version              string `json:"version"`
	Transport            string `json:"transport,omitempty"`
	JumpServerConfigured bool   `json:"jumpserver_configured"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool reports the server version and whether JumpServer access is configured,
// without contacting JumpServer.
func RegisterHealthTool(s *server.MCPServer, cfg *config.Config) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status and version"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := json.Marshal(healthResult{
			Status:               "ok",
			Version:              cfg.Version,
			Transport:            cfg.Transport,
			JumpServerConfigured: cfg.JumpServer.Validate() == nil,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(result)), nil
	})
}
