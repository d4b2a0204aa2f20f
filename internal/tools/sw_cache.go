package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/sw-cache/internal/cache"
	"github.com/leonardcser/sw-cache/internal/worker"
)

// SWCacheHandler returns the MCP tool handler for the "sw-cache" tool.
func SWCacheHandler(storage *cache.Storage) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := storage.Keys(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var sb strings.Builder
		sb.WriteString("## Caches\n")
		if len(names) == 0 {
			sb.WriteString("(none)\n")
		}
		for _, n := range names {
			fmt.Fprintf(&sb, "- %s\n", n)
		}

		fmt.Fprintf(&sb, "\n## %s\n", worker.CacheName)
		keys, err := storage.Cache(worker.CacheName).Keys(ctx)
		switch {
		case err != nil:
			fmt.Fprintf(&sb, "(unavailable: %v)\n", err)
		case len(keys) == 0:
			sb.WriteString("(empty)\n")
		default:
			for _, k := range keys {
				fmt.Fprintf(&sb, "- %s\n", k)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
