package server

import (
	"github.com/mark3labs/mcp-go/mcp"

	"anchain-mcp/internal/tools"
)

// Tool describes an MCP tool and the endpoint behind it on the JSON surface.
type Tool struct {
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Family      tools.Family        `json:"family"`
	Cost        int                 `json:"cost"`
	InputSchema mcp.ToolInputSchema `json:"inputSchema"`
}

// CallRequest is the body of POST /api/call.
type CallRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"arguments"`
}

func toolFromSpec(s *tools.Spec) Tool {
	return Tool{
		Name:        s.Name,
		Title:       s.Title,
		Description: s.Description,
		Family:      s.Family,
		Cost:        s.Cost,
		InputSchema: s.Tool().InputSchema,
	}
}
