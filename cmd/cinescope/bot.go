package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/CineScope/internal/frontend/telegram"
)

// newBotCmd returns the "bot" subcommand for running the Telegram bot.
func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Long:  "Start the CineScope Telegram bot for browsing and saving titles from Telegram.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBot()
		},
	}
}

// runBot initializes services and runs the Telegram bot until interrupted.
func runBot() error {
	return withServices(true, func(ctx context.Context, s *services) error {
		if s.cfg.Telegram == nil {
			return errors.New(
				"telegram configuration is required: set telegram.bot_token in config or CINESCOPE_TELEGRAM_BOT_TOKEN env var",
			)
		}

		bot, err := telegram.New(
			s.cfg.Telegram.BotToken,
			s.cfg.Telegram.AllowedUserIDs,
			telegram.Deps{Catalog: s.catalog, Watchlist: s.watchlist},
			s.logger,
		)
		if err != nil {
			return err
		}

		s.logger.Info("telegram bot starting")
		if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}
