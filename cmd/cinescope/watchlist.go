package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

// newWatchlistCmd returns the "watchlist" subcommand group.
func newWatchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage saved titles",
	}
	cmd.AddCommand(
		newWatchlistListCmd(),
		newWatchlistAddCmd(),
		newWatchlistRemoveCmd(),
		newWatchlistClearCmd(),
	)
	return cmd
}

func newWatchlistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved titles, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withServices(true, func(ctx context.Context, s *services) error {
				entries, err := s.watchlist.List(ctx)
				if err != nil {
					return fmt.Errorf("list watchlist: %w", err)
				}
				fmt.Print(formatWatchlist(entries))
				return nil
			})
		},
	}
}

func newWatchlistAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <key>",
		Short:   "Save a title",
		Example: "  cinescope watchlist add movie:27205",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := catalog.ParseKey(args[0])
			if err != nil {
				return err
			}
			return withServices(true, func(ctx context.Context, s *services) error {
				var d *catalog.Detail
				err := runFetch(ctx, "title", func(ctx context.Context) (string, error) {
					var err error
					d, err = s.catalog.Details(ctx, key)
					return "", err
				})
				if err != nil {
					return err
				}

				added, err := s.watchlist.Add(ctx, d.Summary)
				if err != nil {
					return fmt.Errorf("add to watchlist: %w", err)
				}
				if !added {
					fmt.Println(styleDim.Render(d.Title + " is already on your watchlist."))
					return nil
				}
				fmt.Println(styleSuccess.Render("✓ Added " + d.Title))
				return nil
			})
		},
	}
}

func newWatchlistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved title",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := catalog.ParseKey(args[0])
			if err != nil {
				return err
			}
			return withServices(true, func(ctx context.Context, s *services) error {
				removed, err := s.watchlist.Remove(ctx, key)
				if err != nil {
					return fmt.Errorf("remove from watchlist: %w", err)
				}
				if !removed {
					fmt.Println(styleDim.Render(key.String() + " is not on your watchlist."))
					return nil
				}
				fmt.Println(styleSuccess.Render("✓ Removed " + key.String()))
				return nil
			})
		},
	}
}

func newWatchlistClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved title",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the watchlist without --yes")
			}
			return withServices(true, func(ctx context.Context, s *services) error {
				if err := s.watchlist.Clear(ctx); err != nil {
					return fmt.Errorf("clear watchlist: %w", err)
				}
				fmt.Println(styleSuccess.Render("✓ Watchlist cleared"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing")
	return cmd
}
