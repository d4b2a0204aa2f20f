package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/sw-cache/internal/worker"
)

// SWStatusHandler returns the MCP tool handler for the "sw-status" tool.
func SWStatusHandler(reg *worker.Registration) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := fmt.Sprintf("Scope: %s\nState: %s\n", reg.Scope(), reg.State())
		if err := reg.InstallErr(); err != nil {
			text += fmt.Sprintf("Install error: %v\n", err)
		}
		return mcp.NewToolResultText(text), nil
	}
}
