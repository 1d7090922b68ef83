package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	gitfeedmcp "github.com/gorewood/gitfeed/internal/mcp"
)

// newMCPCmd creates the mcp command for running as an MCP server.
func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run gitfeed as a Model Context Protocol (MCP) server over stdio.

This exposes the timeline, the branch table and mirror syncing as MCP
tools that any MCP-capable agent environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "gitfeed": {
        "command": "gitfeed",
        "args": ["mcp"]
      }
    }
  }

Available tools: timeline, refs, sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			server := gitfeedmcp.NewServer(buildVersion(), rt.app)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
