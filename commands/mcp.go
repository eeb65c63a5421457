package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homefix/homefix/log"
	"github.com/homefix/homefix/mcp"
)

// MCPCommand serves the assistant as MCP tools over stdio.
func MCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(true)
			defer log.Close()
			mcp.SetLogger(log.InfoLog)

			w, err := newWire(Options())
			if err != nil {
				log.ErrorLog.Printf("failed to start MCP server: %v", err)
				return err
			}
			defer w.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			w.StartDiscovery(ctx)

			srv := mcp.NewHomefixMCPServer(w.Client, w.Resolver, version)
			if err := srv.Serve(); err != nil {
				log.ErrorLog.Printf("MCP server exited: %v", err)
				return err
			}
			return nil
		},
	}
}
