package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cinescope",
		Short: "Browse movies and TV series from TMDb",
		Long: "CineScope browses, searches and filters movies and TV series from TMDb,\n" +
			"enriched with IMDb ratings from OMDb, and keeps a local watchlist.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/cinescope.yaml", "path to configuration file")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newMoviesCmd(),
		newTVCmd(),
		newSearchCmd(),
		newDiscoverCmd(),
		newGenresCmd(),
		newDetailsCmd(),
		newSimilarCmd(),
		newFeaturedCmd(),
		newNewsCmd(),
		newWatchlistCmd(),
		newExploreCmd(),
		newMCPServeCmd(),
		newBotCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("CineScope v%s\n", version)
		},
	}
}
