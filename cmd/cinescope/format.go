package main

import (
	"fmt"
	"strings"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/watchlist"
)

const (
	overviewWidth = 76
	maxCast       = 6
)

// formatSummary renders one numbered list row.
func formatSummary(index int, s catalog.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", styleDim.Render(fmt.Sprintf("%3d.", index)), styleTitle.Render(s.Title))
	if s.Year != "" {
		b.WriteString(styleDim.Render(" (" + s.Year + ")"))
	}
	if s.Rating != "" && s.Rating != catalog.NotAvailable {
		b.WriteString("  " + styleRating.Render("★ "+s.Rating))
	}
	b.WriteString("  " + styleDim.Render(s.Key().String()))
	return b.String()
}

// formatItems renders items numbered from offset+1.
func formatItems(items []catalog.Summary, offset int) string {
	if len(items) == 0 {
		return styleDim.Render("Nothing matched.") + "\n"
	}
	var b strings.Builder
	for i, s := range items {
		b.WriteString(formatSummary(offset+i+1, s))
		b.WriteString("\n")
	}
	return b.String()
}

// formatPage renders a list page under a header with a paging footer.
func formatPage(header string, p *catalog.ListPage) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(header))
	b.WriteString("\n")

	offset := 0
	if p.Page > 1 && len(p.Items) > 0 {
		// TMDb pages hold 20 results.
		offset = (p.Page - 1) * 20
	}
	b.WriteString(formatItems(p.Items, offset))

	footer := fmt.Sprintf("Page %d of %d · %d results", max(p.Page, 1), max(p.TotalPages, 1), p.TotalResults)
	if p.HasMore {
		footer += fmt.Sprintf(" · --page %d for more", p.Page+1)
	}
	b.WriteString(styleDim.Render(footer))
	b.WriteString("\n")
	return b.String()
}

// formatDetail renders the full detail view of one title.
func formatDetail(d *catalog.Detail) string {
	var b strings.Builder

	title := d.Title
	if d.Year != "" {
		title += " (" + d.Year + ")"
	}
	b.WriteString(styleHeader.Render(title))
	b.WriteString("\n")
	if d.Tagline != "" {
		b.WriteString(styleInfo.Render(d.Tagline) + "\n\n")
	}

	field := func(label, value string) {
		if value == "" || value == catalog.NotAvailable {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", styleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}

	field("Rating", ratingLine(d))
	field("Runtime", d.Runtime)
	if d.Seasons > 0 {
		field("Seasons", fmt.Sprintf("%d (%d episodes)", d.Seasons, d.Episodes))
	}
	field("Released", d.ReleaseDate)
	field("Status", d.Status)
	field("Rated", d.Rated)

	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		field("Genres", strings.Join(names, ", "))
	}
	field("Director", d.Director)
	if len(d.Cast) > 0 {
		n := min(len(d.Cast), maxCast)
		names := make([]string, n)
		for i := range n {
			names[i] = d.Cast[i].Name
		}
		field("Cast", strings.Join(names, ", "))
	}
	field("Awards", d.Awards)

	if d.Overview != "" {
		b.WriteString("\n")
		b.WriteString(wrap(d.Overview, overviewWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if d.Trailer != nil {
		field("Trailer", catalog.YouTubeWatchURL(d.Trailer.Key))
	}
	field("TMDb", catalog.TMDBPageURL(d.Key()))
	if d.IMDbID != "" {
		field("IMDb", "https://www.imdb.com/title/"+d.IMDbID+"/")
	}
	links := catalog.Share(d.Summary)
	field("Share", links.Twitter)

	if len(d.Similar) > 0 {
		b.WriteString("\n" + styleDim.Render("Similar") + "\n")
		b.WriteString(formatItems(d.Similar, 0))
	}
	return b.String()
}

// ratingLine joins the TMDb and IMDb ratings.
func ratingLine(d *catalog.Detail) string {
	var parts []string
	if d.Rating != "" && d.Rating != catalog.NotAvailable {
		parts = append(parts, styleRating.Render("★ "+d.Rating)+" TMDb")
	}
	if d.IMDbRating != "" && d.IMDbRating != catalog.NotAvailable {
		parts = append(parts, styleRating.Render("★ "+d.IMDbRating)+" IMDb")
	}
	return strings.Join(parts, "  ")
}

// formatGenres renders a genre table.
func formatGenres(mt catalog.MediaType, gs []catalog.Genre) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(mediaLabel(mt) + " genres"))
	b.WriteString("\n")
	for _, g := range gs {
		fmt.Fprintf(&b, "%s %s\n", styleDim.Render(fmt.Sprintf("%6d", g.ID)), g.Name)
	}
	return b.String()
}

// formatArticles renders the news feed.
func formatArticles(as []catalog.Article) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("News"))
	b.WriteString("\n")
	for _, a := range as {
		b.WriteString(styleTitle.Render(a.Title) + "\n")
		b.WriteString(styleDim.Render(a.Date) + "\n")
		b.WriteString(wrap(a.Excerpt, overviewWidth) + "\n\n")
	}
	return b.String()
}

// formatFeatured renders the hero rotation, one line per title.
func formatFeatured(ds []catalog.Detail) string {
	items := make([]catalog.Summary, len(ds))
	for i, d := range ds {
		items[i] = d.Summary
	}
	return styleHeader.Render("Featured") + "\n" + formatItems(items, 0)
}

// formatWatchlist renders saved entries with the date they were added.
func formatWatchlist(entries []watchlist.Entry) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Watchlist"))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(styleDim.Render("Nothing saved yet.") + "\n")
		return b.String()
	}
	for i, e := range entries {
		b.WriteString(formatSummary(i+1, e.Summary))
		b.WriteString(styleDim.Render("  added " + e.AddedAt.Local().Format("2006-01-02")))
		b.WriteString("\n")
	}
	return b.String()
}

// mediaLabel is the display name of a media type.
func mediaLabel(mt catalog.MediaType) string {
	if mt == catalog.TV {
		return "TV"
	}
	return "Movie"
}

// wrap breaks text into lines of at most width runes at word boundaries.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var (
		b    strings.Builder
		line int
	)
	for i, w := range words {
		n := len([]rune(w))
		if i > 0 {
			if line+1+n > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += n
	}
	return b.String()
}
