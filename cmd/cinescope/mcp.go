package main

import (
	"context"

	"github.com/spf13/cobra"

	mcpserver "github.com/vadimtrunov/CineScope/internal/mcp"
)

// newMCPServeCmd returns the "mcp-serve" subcommand.
// It serves the catalog and watchlist as MCP tools over stdin/stdout, for
// MCP clients that launch CineScope as a subprocess.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-serve",
		Short: "Start MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withServices(true, func(ctx context.Context, s *services) error {
				srv := mcpserver.NewServer(mcpserver.Deps{
					Catalog:   s.catalog,
					Watchlist: s.watchlist,
					Featured:  s.cfg.FeaturedKeys(),
					News:      s.cfg.NewsKeys(),
				}, s.logger)
				return srv.Start(ctx)
			})
		},
	}
}
