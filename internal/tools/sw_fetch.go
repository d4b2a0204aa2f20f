package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/sw-cache/internal/cache"
	web "github.com/leonardcser/sw-cache/internal/web"
	"github.com/leonardcser/sw-cache/internal/worker"
)

// SWFetchHandler returns the MCP tool handler for the "sw-fetch" tool.
func SWFetchHandler(reg *worker.Registration, storage *cache.Storage) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		ref, err := req.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target, err := reg.Scope().Resolve(ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		source := "network"
		if reg.State() == worker.StateActivated {
			if hit, err := storage.Cache(worker.CacheName).Match(ctx, httpReq); err == nil {
				hit.Body.Close()
				source = "cache"
			}
		}

		resp, err := reg.Fetch(ctx, httpReq)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, web.MaxResponseSize))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatResponse(target, source, resp, body)), nil
	}
}

func formatResponse(target, source string, resp *http.Response, body []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GET %s\n", target)
	fmt.Fprintf(&sb, "Status: %s\n", resp.Status)
	fmt.Fprintf(&sb, "Source: %s\n", source)

	names := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&sb, "%s: %s\n", k, strings.Join(resp.Header.Values(k), ", "))
	}
	sb.WriteString("\n")

	ps, err := web.Summarize(target, resp.Header.Get("Content-Type"), body)
	if errors.Is(err, web.ErrBinaryContent) {
		fmt.Fprintf(&sb, "[binary body, %d bytes]\n", len(body))
		return sb.String()
	}
	if err != nil {
		sb.Write(body)
		return sb.String()
	}
	sb.WriteString(formatPageSummary(ps))
	return sb.String()
}

func formatPageSummary(ps *web.PageSummary) string {
	var sb strings.Builder
	if ps.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(ps.Title)
		sb.WriteString("\n\n")
	}
	if ps.Description != "" {
		sb.WriteString(ps.Description)
		sb.WriteString("\n\n")
	}
	if len(ps.Links) > 0 {
		sb.WriteString("## Links\n")
		for _, l := range ps.Links {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(ps.Text)
	return sb.String()
}
