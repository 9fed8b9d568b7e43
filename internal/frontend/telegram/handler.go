package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/explore"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	errorMsg        = "Movie data is unavailable right now. Send /retry to try again."
	resetMsg        = "Filters reset. Send /popular or a title to start over."
	noMoreMsg       = "No more results."

	helpMsg = `Welcome to CineScope! Send a title to search, or use:
/popular - most popular titles
/toprated - highest rated titles
/movies, /tv - switch between movies and TV
/sort popularity|rating|newest|oldest|revenue (revenue: movies only)
/genre <id> - toggle a genre filter
/year <from> <to> - release year range
/rating <from> <to> - rating range
/more - next page
/watchlist - your saved titles
/reset - clear filters`

	// Callback data prefixes.
	detailsPrefix = "det:"
	addPrefix     = "wl:add:"
	removePrefix  = "wl:rm:"
	moreData      = "more"

	maxButtonLabel = 30 // max characters in inline keyboard button label
)

type transition func(explore.State) (explore.State, explore.Query)

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if !strings.HasPrefix(text, "/") {
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			return s.Search(text)
		})
		return
	}

	cmd, arg := splitCommand(text)
	switch cmd {
	case "/start", "/help":
		b.sendText(chatID, helpMsg)
	case "/popular":
		b.run(ctx, chatID, userID, browse(explore.SortPopularity))
	case "/toprated":
		b.run(ctx, chatID, userID, browse(explore.SortRating))
	case "/movies":
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			return s.SetMediaType(catalog.Movie)
		})
	case "/tv":
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			return s.SetMediaType(catalog.TV)
		})
	case "/search":
		if arg == "" {
			b.sendText(chatID, "Usage: /search <title>")
			return
		}
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			return s.Search(arg)
		})
	case "/sort":
		sort, err := explore.ParseSort(arg)
		if err != nil {
			b.sendText(chatID, "Usage: /sort popularity|rating|newest|oldest|revenue")
			return
		}
		unsupported := false
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			unsupported = !sort.SupportedBy(s.Params.MediaType)
			return s.SetSort(sort)
		})
		if unsupported {
			b.sendText(chatID, fmt.Sprintf("%s is not available for TV. Try /movies first.", sort.Label()))
		}
	case "/genre":
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			b.sendText(chatID, "Usage: /genre <id>")
			return
		}
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			return s.ToggleGenre(id)
		})
	case "/year":
		from, to, ok := parseRange(arg, strconv.Atoi)
		if !ok {
			b.sendText(chatID, "Usage: /year <from> <to>")
			return
		}
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			return s.SetYearRange(from, to)
		})
	case "/rating":
		from, to, ok := parseRange(arg, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
		if !ok {
			b.sendText(chatID, "Usage: /rating <from> <to>")
			return
		}
		b.run(ctx, chatID, userID, func(s explore.State) (explore.State, explore.Query) {
			return s.SetRatingRange(from, to)
		})
	case "/more":
		b.more(ctx, chatID, userID)
	case "/retry":
		b.run(ctx, chatID, userID, explore.State.Retry)
	case "/reset":
		b.sessions.reset(userID)
		b.sendText(chatID, resetMsg)
	case "/watchlist":
		b.showWatchlist(ctx, chatID)
	default:
		b.sendText(chatID, helpMsg)
	}
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Debug("failed to ack callback", slog.String("error", err.Error()))
	}

	if !b.sessions.isAllowed(userID) {
		return
	}

	switch data := cq.Data; {
	case data == moreData:
		b.more(ctx, chatID, userID)
	case strings.HasPrefix(data, detailsPrefix):
		b.withKey(chatID, strings.TrimPrefix(data, detailsPrefix), func(k catalog.Key) {
			b.showDetails(ctx, chatID, k)
		})
	case strings.HasPrefix(data, addPrefix):
		b.withKey(chatID, strings.TrimPrefix(data, addPrefix), func(k catalog.Key) {
			b.addToWatchlist(ctx, chatID, k)
		})
	case strings.HasPrefix(data, removePrefix):
		b.withKey(chatID, strings.TrimPrefix(data, removePrefix), func(k catalog.Key) {
			b.removeFromWatchlist(ctx, chatID, k)
		})
	}
}

// browse clears the search text and switches to a curated order.
func browse(sort explore.Sort) transition {
	return func(s explore.State) (explore.State, explore.Query) {
		s, _ = s.Search("")
		return s.SetSort(sort)
	}
}

func (b *Bot) more(ctx context.Context, chatID, userID int64) {
	st, q := b.sessions.apply(userID, explore.State.LoadMore)
	if q.IsZero() {
		b.sendText(chatID, noMoreMsg)
		return
	}
	b.execute(ctx, chatID, userID, st, q)
}

// run applies t to the user's view and executes the query it issues.
func (b *Bot) run(ctx context.Context, chatID, userID int64, t transition) {
	st, q := b.sessions.apply(userID, t)
	if q.IsZero() {
		return
	}
	b.execute(ctx, chatID, userID, st, q)
}

// execute fetches q, issued from the loading state st, and renders the page
// it produced. A result superseded by a newer query is not rendered; the
// newer query replies instead.
func (b *Bot) execute(ctx context.Context, chatID, userID int64, loading explore.State, q explore.Query) {
	if b.deps.Catalog == nil {
		b.sendText(chatID, errorMsg)
		return
	}

	r := b.loader.Fetch(ctx, q)
	st, accepted := b.sessions.receive(userID, r)
	if !accepted {
		b.logger.Debug("dropped stale result", slog.Int64("user_id", userID))
		return
	}

	if st.Status == explore.StatusErrored {
		b.logger.Warn("list query failed",
			slog.Int64("user_id", userID),
			slog.String("error", st.Err.Error()),
		)
		b.sendText(chatID, errorMsg)
		return
	}

	// Later pages show only what they appended.
	visible := st.Visible()
	offset := 0
	if q.Params.Page > 1 {
		offset = min(len(loading.Visible()), len(visible))
	}
	items := visible[offset:]

	kb := b.listKeyboard(items, offset, st.HasMore)
	b.sendMarkdown(chatID, FormatList(listHeader(st.Params), items, offset), kb)
}

func (b *Bot) showWatchlist(ctx context.Context, chatID int64) {
	if b.deps.Watchlist == nil {
		b.sendText(chatID, "The watchlist is not configured.")
		return
	}
	entries, err := b.deps.Watchlist.List(ctx)
	if err != nil {
		b.logger.Error("watchlist list failed", slog.String("error", err.Error()))
		b.sendText(chatID, "Could not load your watchlist.")
		return
	}

	items := make([]catalog.Summary, len(entries))
	for i, e := range entries {
		items[i] = e.Summary
	}
	b.sendMarkdown(chatID, FormatWatchlist(entries), b.listKeyboard(items, 0, false))
}

func (b *Bot) showDetails(ctx context.Context, chatID int64, k catalog.Key) {
	if b.deps.Catalog == nil {
		b.sendText(chatID, errorMsg)
		return
	}
	d, err := b.deps.Catalog.Details(ctx, k)
	if err != nil {
		b.logger.Warn("details failed",
			slog.String("key", k.String()),
			slog.String("error", err.Error()),
		)
		b.sendText(chatID, errorMsg)
		return
	}

	saved := false
	if b.deps.Watchlist != nil {
		saved, _ = b.deps.Watchlist.Contains(ctx, k)
	}
	kb := detailKeyboard(d, saved, b.deps.Watchlist != nil)
	caption := FormatDetail(d)

	if d.HasPoster() {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(d.PosterURL))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		photo.ReplyMarkup = kb
		_, err := b.api.Send(photo)
		if err == nil {
			return
		}
		b.logger.Debug("failed to send poster",
			slog.String("url", d.PosterURL),
			slog.String("error", err.Error()),
		)
	}
	b.sendMarkdown(chatID, caption, kb)
}

func (b *Bot) addToWatchlist(ctx context.Context, chatID int64, k catalog.Key) {
	if b.deps.Watchlist == nil || b.deps.Catalog == nil {
		b.sendText(chatID, "The watchlist is not configured.")
		return
	}
	d, err := b.deps.Catalog.Details(ctx, k)
	if err != nil {
		b.sendText(chatID, errorMsg)
		return
	}
	added, err := b.deps.Watchlist.Add(ctx, d.Summary)
	if err != nil {
		b.logger.Error("watchlist add failed",
			slog.String("key", k.String()),
			slog.String("error", err.Error()),
		)
		b.sendText(chatID, "Could not update your watchlist.")
		return
	}
	if !added {
		b.sendText(chatID, fmt.Sprintf("%s is already on your watchlist.", d.Title))
		return
	}
	b.sendText(chatID, fmt.Sprintf("Added %s to your watchlist.", d.Title))
}

func (b *Bot) removeFromWatchlist(ctx context.Context, chatID int64, k catalog.Key) {
	if b.deps.Watchlist == nil {
		b.sendText(chatID, "The watchlist is not configured.")
		return
	}
	removed, err := b.deps.Watchlist.Remove(ctx, k)
	if err != nil {
		b.logger.Error("watchlist remove failed",
			slog.String("key", k.String()),
			slog.String("error", err.Error()),
		)
		b.sendText(chatID, "Could not update your watchlist.")
		return
	}
	if !removed {
		b.sendText(chatID, "That title is not on your watchlist.")
		return
	}
	b.sendText(chatID, "Removed from your watchlist.")
}

func (b *Bot) withKey(chatID int64, raw string, fn func(catalog.Key)) {
	k, err := catalog.ParseKey(raw)
	if err != nil {
		b.logger.Debug("bad callback key", slog.String("data", raw))
		b.sendText(chatID, "That button has expired.")
		return
	}
	fn(k)
}

// sendMarkdown sends MarkdownV2 text, retrying as plain text if Telegram
// rejects the markup.
func (b *Bot) sendMarkdown(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		plain := tgbotapi.NewMessage(chatID, text)
		if kb != nil {
			plain.ReplyMarkup = kb
		}
		if _, err := b.api.Send(plain); err != nil {
			b.logger.Error("failed to send message",
				slog.Int64("chat_id", chatID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// listKeyboard builds one details button per item and a trailing "More"
// button. Returns nil when there is nothing to press.
func (b *Bot) listKeyboard(items []catalog.Summary, offset int, hasMore bool) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, s := range items {
		label := fmt.Sprintf("%d. %s", offset+i+1, s.Title)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncate(label, maxButtonLabel), detailsPrefix+s.Key().String()),
		))
	}
	if hasMore {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("More ▸", moreData),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// detailKeyboard offers the watchlist toggle plus trailer and TMDb links.
func detailKeyboard(d *catalog.Detail, saved, watchlistEnabled bool) *tgbotapi.InlineKeyboardMarkup {
	key := d.Key().String()
	var rows [][]tgbotapi.InlineKeyboardButton
	if watchlistEnabled {
		btn := tgbotapi.NewInlineKeyboardButtonData("＋ Watchlist", addPrefix+key)
		if saved {
			btn = tgbotapi.NewInlineKeyboardButtonData("－ Watchlist", removePrefix+key)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}

	var links []tgbotapi.InlineKeyboardButton
	if d.Trailer != nil && d.Trailer.URL != "" {
		links = append(links, tgbotapi.NewInlineKeyboardButtonURL("▶ Trailer", d.Trailer.URL))
	}
	links = append(links, tgbotapi.NewInlineKeyboardButtonURL("TMDb", catalog.TMDBPageURL(d.Key())))
	rows = append(rows, links)

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// listHeader names the list a set of parameters produces.
func listHeader(p explore.Params) string {
	media := "Movies"
	if p.MediaType == catalog.TV {
		media = "TV"
	}
	if p.Search != "" {
		return fmt.Sprintf("%s matching %q", media, p.Search)
	}
	return fmt.Sprintf("%s · %s", p.Sort.Label(), media)
}

// splitCommand separates "/cmd@bot args" into "/cmd" and "args".
func splitCommand(text string) (string, string) {
	cmd, arg, _ := strings.Cut(text, " ")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

// parseRange reads two whitespace-separated bounds.
func parseRange[T any](arg string, parse func(string) (T, error)) (T, T, bool) {
	var zero T
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		return zero, zero, false
	}
	from, err := parse(fields[0])
	if err != nil {
		return zero, zero, false
	}
	to, err := parse(fields[1])
	if err != nil {
		return zero, zero, false
	}
	return from, to, true
}
