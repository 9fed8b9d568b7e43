package catalog

import (
	"slices"
	"strconv"
	"time"
)

// Year and rating bounds of the default filter set.
const (
	MinYear   = 1900
	MinRating = 0.0
	MaxRating = 10.0
)

// Filters narrows a list by genre, release year and rating.
type Filters struct {
	GenreIDs   []int   `json:"genre_ids"`
	YearFrom   int     `json:"year_from"`
	YearTo     int     `json:"year_to"`
	RatingFrom float64 `json:"rating_from"`
	RatingTo   float64 `json:"rating_to"`
}

// DefaultFilters returns the unfiltered set: every genre, years 1900 through
// the current year, ratings 0 through 10.
func DefaultFilters(now time.Time) Filters {
	return Filters{
		GenreIDs:   []int{},
		YearFrom:   MinYear,
		YearTo:     now.Year(),
		RatingFrom: MinRating,
		RatingTo:   MaxRating,
	}
}

// IsDefault reports whether f filters nothing relative to DefaultFilters(now).
func (f Filters) IsDefault(now time.Time) bool {
	d := DefaultFilters(now)
	return len(f.GenreIDs) == 0 &&
		f.YearFrom == d.YearFrom && f.YearTo == d.YearTo &&
		f.RatingFrom == d.RatingFrom && f.RatingTo == d.RatingTo
}

// Clone returns a copy that shares no slice with f.
func (f Filters) Clone() Filters {
	f.GenreIDs = append([]int{}, f.GenreIDs...)
	return f
}

// Match reports whether one item passes f. Items with no year pass the year
// range and items with no rating pass the rating range. The rating ceiling
// always applies, so a [0,0] range keeps only unrated items. Every selected
// genre must be present on the item.
func (f Filters) Match(s Summary) bool {
	if y, err := strconv.Atoi(s.Year); err == nil {
		if f.YearFrom > 0 && y < f.YearFrom {
			return false
		}
		if f.YearTo > 0 && y > f.YearTo {
			return false
		}
	}
	if s.VoteAverage > 0 {
		if s.VoteAverage < f.RatingFrom {
			return false
		}
		if s.VoteAverage > f.RatingTo {
			return false
		}
	}
	for _, g := range f.GenreIDs {
		if !slices.Contains(s.GenreIDs, g) {
			return false
		}
	}
	return true
}

// FilterPage applies f to an in-memory page, preserving order.
func FilterPage(items []Summary, f Filters) []Summary {
	out := make([]Summary, 0, len(items))
	for _, s := range items {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
