package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server for the daemon",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve daemon tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcp.NewServer(ipc.NewClient()).Run(cmd.Context())
		},
	})
	return cmd
}
