package telegram

import (
	"fmt"
	"strings"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/watchlist"
)

const (
	maxCaption  = 1024 // Telegram photo caption limit
	maxOverview = 300
	maxCastLine = 5
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// titleLine renders "Title (Year) ★ 8.4" in plain text.
func titleLine(s catalog.Summary) string {
	var b strings.Builder
	b.WriteString(s.Title)
	if s.Year != "" {
		fmt.Fprintf(&b, " (%s)", s.Year)
	}
	if s.Rating != "" && s.Rating != catalog.NotAvailable {
		fmt.Fprintf(&b, " ★ %s", s.Rating)
	}
	return b.String()
}

// FormatList renders a numbered list starting at offset+1 in MarkdownV2.
func FormatList(header string, items []catalog.Summary, offset int) string {
	var b strings.Builder
	b.WriteString(FormatBold(header))
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString(FormatItalic("Nothing matched."))
		return b.String()
	}
	for i, s := range items {
		b.WriteString(EscapeMdV2(fmt.Sprintf("%d. %s", offset+i+1, titleLine(s))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDetail renders a detail view as a MarkdownV2 caption.
func FormatDetail(d *catalog.Detail) string {
	var b strings.Builder
	b.WriteString(FormatBold(titleLine(d.Summary)))
	if d.Tagline != "" {
		b.WriteString("\n")
		b.WriteString(FormatItalic(d.Tagline))
	}

	var facts []string
	if d.Runtime != "" && d.Runtime != catalog.NotAvailable {
		facts = append(facts, d.Runtime)
	}
	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		facts = append(facts, strings.Join(names, ", "))
	}
	if d.IMDbRating != "" && d.IMDbRating != catalog.NotAvailable {
		facts = append(facts, "IMDb "+d.IMDbRating)
	}
	if len(facts) > 0 {
		b.WriteString("\n")
		b.WriteString(EscapeMdV2(strings.Join(facts, " · ")))
	}

	if d.Director != "" {
		b.WriteString("\n")
		b.WriteString(EscapeMdV2("Director: " + d.Director))
	}
	if len(d.Cast) > 0 {
		n := min(len(d.Cast), maxCastLine)
		names := make([]string, n)
		for i := range n {
			names[i] = d.Cast[i].Name
		}
		b.WriteString("\n")
		b.WriteString(EscapeMdV2("Cast: " + strings.Join(names, ", ")))
	}
	if d.Overview != "" {
		b.WriteString("\n\n")
		b.WriteString(EscapeMdV2(truncate(d.Overview, maxOverview)))
	}

	out := b.String()
	if len(out) > maxCaption {
		// Escapes make a MarkdownV2 cut unsafe; drop the overview instead.
		out = strings.SplitN(out, "\n\n", 2)[0]
	}
	return out
}

// FormatWatchlist renders saved entries as a numbered list.
func FormatWatchlist(entries []watchlist.Entry) string {
	if len(entries) == 0 {
		return FormatBold("Your watchlist") + "\n\n" + FormatItalic("Nothing saved yet.")
	}
	items := make([]catalog.Summary, len(entries))
	for i, e := range entries {
		items[i] = e.Summary
	}
	return FormatList("Your watchlist", items, 0)
}

// truncate cuts s to at most n runes, ending with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
