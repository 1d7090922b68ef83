// Package mcp provides a Model Context Protocol server for gitfeed.
// It exposes the timeline, the branch table and mirror syncing as MCP
// tools that any MCP-capable agent can use.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/gitfeed/internal/git"
	"github.com/gorewood/gitfeed/internal/timeline"
	"github.com/gorewood/gitfeed/internal/webhook"
)

// Service is what the tools operate on; *app.App implements it.
type Service interface {
	Timeline(ctx context.Context, q timeline.Query) ([]timeline.View, error)
	Refs(ctx context.Context) (git.RefTable, error)
	Fetch(ctx context.Context) (webhook.Outcome, error)
}

// NewServer creates an MCP server with all gitfeed tools registered.
func NewServer(version string, svc Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gitfeed",
		Version: version,
	}, nil)
	registerTools(server, svc)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// syncAnnotations describes the sync tool: it talks to the remote but never
// destroys local history beyond pruning deleted branches.
func syncAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(true),
	}
}

// registerTools adds all gitfeed tools to the server.
func registerTools(server *mcp.Server, svc Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "timeline",
		Description: "List recent commits across all branches as timeline events, newest first, with the branches each commit belongs to. At most 100 commits per call; narrow with start/stop.",
		Annotations: readOnlyAnnotations(),
	}, handleTimeline(svc, nil))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "refs",
		Description: "Show the branch table: every branch tip commit and the local or remote-tracking branch names pointing at it.",
		Annotations: readOnlyAnnotations(),
	}, handleRefs(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync",
		Description: "Fetch the mirror from its remote, pruning deleted branches. Joins a fetch that is already running.",
		Annotations: syncAnnotations(),
	}, handleSync(svc))
}
