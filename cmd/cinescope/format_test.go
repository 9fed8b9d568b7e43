package main

import (
	"strings"
	"testing"
	"time"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/watchlist"
)

func inception() catalog.Summary {
	return catalog.Summary{
		ID:          27205,
		MediaType:   catalog.Movie,
		Title:       "Inception",
		Year:        "2010",
		VoteAverage: 8.4,
		Rating:      "8.4",
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	got := formatSummary(3, inception())
	for _, want := range []string{"3.", "Inception", "(2010)", "★ 8.4", "movie:27205"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatSummary() = %q, missing %q", got, want)
		}
	}

	unrated := inception()
	unrated.Rating = catalog.NotAvailable
	unrated.Year = ""
	got = formatSummary(1, unrated)
	if strings.Contains(got, "★") || strings.Contains(got, "()") {
		t.Errorf("formatSummary() = %q, should omit missing year and rating", got)
	}
}

func TestFormatPage(t *testing.T) {
	t.Parallel()

	p := &catalog.ListPage{
		Items:        []catalog.Summary{inception()},
		Page:         2,
		TotalPages:   5,
		TotalResults: 100,
		HasMore:      true,
	}
	got := formatPage("Movie · Most popular", p)

	for _, want := range []string{"Movie · Most popular", "21.", "Page 2 of 5 · 100 results", "--page 3 for more"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatPage() missing %q in:\n%s", want, got)
		}
	}

	last := &catalog.ListPage{Page: 1, TotalPages: 1}
	got = formatPage("Empty", last)
	if !strings.Contains(got, "Nothing matched.") {
		t.Errorf("empty page should say nothing matched:\n%s", got)
	}
	if strings.Contains(got, "for more") {
		t.Errorf("last page should not offer more:\n%s", got)
	}
}

func TestFormatDetail(t *testing.T) {
	t.Parallel()

	d := &catalog.Detail{
		Summary:    inception(),
		Tagline:    "Your mind is the scene of the crime.",
		Runtime:    "2h 28m",
		Genres:     []catalog.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		Director:   "Christopher Nolan",
		IMDbID:     "tt1375666",
		IMDbRating: "8.8",
		Trailer:    &catalog.Video{Key: "YoHD9XEInc0", Site: "YouTube"},
	}
	for i := range 8 {
		d.Cast = append(d.Cast, catalog.CastMember{Name: "Actor " + string(rune('A'+i))})
	}
	d.Summary.Overview = "Cobb, a skilled thief who commits corporate espionage by infiltrating the subconscious of his targets."

	got := formatDetail(d)
	for _, want := range []string{
		"Inception (2010)",
		"Your mind is the scene of the crime.",
		"★ 8.4 TMDb",
		"★ 8.8 IMDb",
		"2h 28m",
		"Action, Science Fiction",
		"Christopher Nolan",
		"Actor F",
		"https://www.youtube.com/watch?v=YoHD9XEInc0",
		"https://www.themoviedb.org/movie/27205",
		"https://www.imdb.com/title/tt1375666/",
		"https://twitter.com/intent/tweet?",
		"Cobb, a skilled thief",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatDetail() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Actor G") {
		t.Error("cast should be capped at six names")
	}
}

func TestFormatDetail_OmitsMissingFields(t *testing.T) {
	t.Parallel()

	d := &catalog.Detail{Summary: inception(), Runtime: catalog.NotAvailable}
	got := formatDetail(d)
	for _, absent := range []string{"Runtime", "Director", "Trailer", "IMDb", "Seasons"} {
		if strings.Contains(got, absent) {
			t.Errorf("formatDetail() should omit %q:\n%s", absent, got)
		}
	}
}

func TestFormatGenres(t *testing.T) {
	t.Parallel()

	got := formatGenres(catalog.TV, []catalog.Genre{{ID: 18, Name: "Drama"}})
	if !strings.Contains(got, "TV genres") || !strings.Contains(got, "18 Drama") {
		t.Errorf("formatGenres() = %q", got)
	}
}

func TestFormatArticles(t *testing.T) {
	t.Parallel()

	got := formatArticles(catalog.FallbackNews())
	if !strings.Contains(got, "New Superhero Movie Breaks Box Office Records") {
		t.Errorf("formatArticles() missing first fallback title:\n%s", got)
	}
}

func TestFormatFeatured(t *testing.T) {
	t.Parallel()

	got := formatFeatured([]catalog.Detail{{Summary: inception()}, {Summary: catalog.Placeholder(catalog.Key{Type: catalog.TV, ID: 1396})}})
	if !strings.Contains(got, "1.") || !strings.Contains(got, "2.") || !strings.Contains(got, "tv:1396") {
		t.Errorf("formatFeatured() = %q", got)
	}
}

func TestFormatWatchlist(t *testing.T) {
	t.Parallel()

	if got := formatWatchlist(nil); !strings.Contains(got, "Nothing saved yet.") {
		t.Errorf("empty watchlist = %q", got)
	}

	added := time.Date(2026, 5, 20, 12, 0, 0, 0, time.Local)
	got := formatWatchlist([]watchlist.Entry{{Summary: inception(), AddedAt: added}})
	if !strings.Contains(got, "Inception") || !strings.Contains(got, "added 2026-05-20") {
		t.Errorf("formatWatchlist() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"empty", "   ", 10, ""},
		{"fits", "one two", 10, "one two"},
		{"breaks", "one two three", 7, "one two\nthree"},
		{"long_word", "supercalifragilistic ok", 5, "supercalifragilistic\nok"},
		{"collapses_spaces", "a   b", 10, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := wrap(tt.text, tt.width); got != tt.want {
				t.Errorf("wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
