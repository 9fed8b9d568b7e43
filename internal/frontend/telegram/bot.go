package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/CineScope/internal/core"
	"github.com/vadimtrunov/CineScope/internal/explore"
)

// Deps holds the services the bot queries.
type Deps struct {
	Catalog   core.Catalog
	Watchlist core.Watchlist

	// Now defaults to time.Now.
	Now func() time.Time
}

// sender is the subset of the Bot API used for replies.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot is the Telegram frontend for CineScope.
// It implements the core.Frontend interface.
type Bot struct {
	poller   *tgbotapi.BotAPI
	api      sender
	deps     Deps
	loader   explore.Loader
	sessions *sessionManager
	logger   *slog.Logger
}

// compile-time check.
var _ core.Frontend = (*Bot)(nil)

// New creates a new Telegram Bot.
func New(token string, allowedUserIDs []int64, deps Deps, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := newBot(api, allowedUserIDs, deps, logger)
	b.poller = api
	return b, nil
}

// newBot wires a bot around any sender.
func newBot(api sender, allowedUserIDs []int64, deps Deps, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Bot{
		api:      api,
		deps:     deps,
		loader:   explore.Loader{Catalog: deps.Catalog},
		sessions: newSessionManager(allowedUserIDs, deps.Now),
		logger:   logger,
	}
}

// Name returns the frontend name.
func (b *Bot) Name() string { return "telegram" }

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	if b.poller == nil {
		return fmt.Errorf("telegram bot has no API connection")
	}

	b.logger.Info("telegram bot started",
		slog.String("username", b.poller.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.poller.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.poller.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop stops the bot (no-op, Start returns when ctx is canceled).
func (b *Bot) Stop(_ context.Context) error {
	return nil
}

// handleUpdate dispatches an incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}
