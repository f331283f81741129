package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursa-cli/internal/adapters/driving/mcp"
)

var (
	mcpDescriptionsDB string
	mcpEphemeral      bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [corpus-root]",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  coursa mcp serve ~/courses/cs101

  # HTTP mode (for MCP Inspector, remote access)
  coursa mcp serve ~/courses/cs101 --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "coursa": {
        "command": "/path/to/coursa",
        "args": ["mcp", "serve", "/path/to/corpus"]
      }
    }
  }`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpDescriptionsDB, "descriptions", "", "path to the scraper metadata database")
	mcpServeCmd.Flags().BoolVar(&mcpEphemeral, "ephemeral", false, "keep decisions in memory instead of the record store")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	opts := runtimeOptions{
		descriptionsDB: mcpDescriptionsDB,
		ephemeral:      mcpEphemeral,
	}
	if len(args) > 0 {
		opts.root = args[0]
	}

	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	ports := &mcp.Ports{
		Planner: rt.planner,
		Records: rt.records,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
