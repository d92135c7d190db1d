package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds every registered tool to s.
func (r *Registry) RegisterTools(s *server.MCPServer) {
	for i := range r.specs {
		spec := &r.specs[i]
		s.AddTool(spec.Tool(), r.handler(spec.Name))
	}
}

// Tool builds the MCP descriptor advertised for this spec.
func (s *Spec) Tool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(s.describe()),
		mcp.WithTitleAnnotation(s.Title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	for _, p := range s.Params {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch p.Kind {
		case Integer:
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		case StringList:
			popts = append(popts, mcp.WithStringItems())
			if p.MinItems > 0 {
				popts = append(popts, mcp.MinItems(p.MinItems))
			}
			if p.MaxItems > 0 {
				popts = append(popts, mcp.MaxItems(p.MaxItems))
			}
			opts = append(opts, mcp.WithArray(p.Name, popts...))
		default:
			if len(p.Enum) > 0 {
				popts = append(popts, mcp.Enum(p.Enum...))
			}
			if p.Default != "" {
				popts = append(popts, mcp.DefaultString(p.Default))
			}
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(s.Name, opts...)
}

func (s *Spec) describe() string {
	if s.Cost == 0 {
		return s.Description
	}
	return fmt.Sprintf("%s\n\nCost: %d credits", s.Description, s.Cost)
}

// handler relays the API body as text. Validation and API failures become tool
// errors so the host can read them; cancellation by the host is returned as a
// protocol error.
func (r *Registry) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := r.Invoke(ctx, name, req.GetArguments())
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
}
