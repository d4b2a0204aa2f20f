package main

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/sw-cache/internal/cache"
	"github.com/leonardcser/sw-cache/internal/config"
	"github.com/leonardcser/sw-cache/internal/logger"
	tools "github.com/leonardcser/sw-cache/internal/tools"
	web "github.com/leonardcser/sw-cache/internal/web"
	"github.com/leonardcser/sw-cache/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting sw-cache MCP server")

	scope, err := web.ParseScope(cfg.Origin)
	if err != nil {
		logger.Errorf("invalid origin %q: %v", cfg.Origin, err)
		panic(err)
	}

	// Connect to cache daemon; start it if needed, then connect.
	logger.Infof("Attempting to connect to cache daemon at %s", cfg.SocketPath)
	kv, started, err := cache.ConnectOrStart(cfg.SocketPath, 5*time.Second)
	if started {
		logger.Infof("Cache daemon started")
	}
	if err != nil {
		logger.Errorf("Failed to connect to cache daemon: %v", err)
		panic(err)
	}
	logger.Infof("Successfully connected to cache daemon")

	storage := cache.NewStorage(kv)
	network := web.NewFetcher(web.Options{Timeout: cfg.FetchTimeout}).Fetch
	reg := worker.Register(scope, worker.NewHandlers(storage, network, scope), network)

	// The tools stay usable after a failed install; fetches then bypass
	// the worker, and sw-status reports why.
	if err := reg.Install(context.Background()); err != nil {
		logger.Errorf("Worker install failed: %v", err)
	}

	s := server.NewMCPServer(
		"sw-cache",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)
	logger.Infof("Created MCP server instance")

	toolFetch := mcp.NewTool("sw-fetch",
		mcp.WithDescription(multiline(
			"Dispatches a fetch event through the app-cache worker and returns the response",
			"\nFunctionality:",
			"- Takes a path or URL; paths resolve against the worker's origin",
			"- Answers from the app-cache when it holds a match, otherwise fetches from the network",
			"- Returns status, source (cache or network), headers and the body",
			"\nUsage notes:",
			"- HTML bodies are rendered as Markdown with title and links extracted",
			"- Network responses are never written to the cache",
		)),
		mcp.WithString("url", mcp.Required(), mcp.Description("The path or URL to fetch")),
	)
	s.AddTool(toolFetch, tools.SWFetchHandler(reg, storage))
	logger.Infof("Registered sw-fetch tool")

	toolCache := mcp.NewTool("sw-cache",
		mcp.WithDescription("Lists the named caches and the request URLs stored in the app-cache"),
	)
	s.AddTool(toolCache, tools.SWCacheHandler(storage))
	logger.Infof("Registered sw-cache tool")

	toolStatus := mcp.NewTool("sw-status",
		mcp.WithDescription("Reports the worker registration's scope and lifecycle state"),
	)
	s.AddTool(toolStatus, tools.SWStatusHandler(reg))
	logger.Infof("Registered sw-status tool")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
