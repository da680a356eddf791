package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/atv/internal/cli"
	"github.com/aretw0/atv/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes validation as MCP tools so agents can check values against the Type Map.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()

		// Logs go to Stderr so they don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger := newLogger()

		v, err := openValidator(ctx, logger)
		if err != nil {
			return err
		}
		go func() {
			if err := cli.WatchAndReload(ctx, v, logger); err != nil {
				logger.Debug("Hot reload disabled", "err", err)
			}
		}()

		srv := mcp.NewServer(v, logger)
		switch transport {
		case "stdio":
			logger.Info("Starting atv MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting atv MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
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
