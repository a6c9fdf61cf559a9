package main

import (
	"fmt"

	"github.com/aretw0/quiztree/internal/cli"
	"github.com/aretw0/quiztree/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [file]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the questionnaire as MCP tools so AI agents can run it.
The run state is passed in and out of every tool call.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger := cli.CreateLogger(cfg.LogLevel, false)

		path, err := cli.ResolveQuestionnairePath(cfg.File)
		if err != nil {
			return err
		}
		engine, err := cli.CreateEngine(path, logger, false)
		if err != nil {
			return err
		}

		srv := mcp.NewServer(engine, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("starting quiztree MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting quiztree MCP server (SSE)", "port", port)
			return srv.ServeSSE(cmd.Context(), port)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
