// Package explore drives a paginated, filterable list view as an explicit
// state machine. Every parameter change issues a Query with a fresh token;
// results carrying any other token are dropped.
package explore

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/metadata/tmdb"
)

// Sort is a list ordering.
type Sort string

// Sort orders.
const (
	SortPopularity Sort = tmdb.SortPopularityDesc
	SortRating     Sort = tmdb.SortVoteAverageDesc
	SortNewest     Sort = tmdb.SortReleaseDesc
	SortOldest     Sort = tmdb.SortReleaseAsc
	SortRevenue    Sort = tmdb.SortRevenueDesc
)

// Sorts lists every order in display order.
var Sorts = []Sort{SortPopularity, SortRating, SortNewest, SortOldest, SortRevenue}

// ParseSort accepts a provider sort key or a short alias.
func ParseSort(s string) (Sort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "popularity", string(SortPopularity):
		return SortPopularity, nil
	case "rating", string(SortRating):
		return SortRating, nil
	case "newest", string(SortNewest):
		return SortNewest, nil
	case "oldest", string(SortOldest):
		return SortOldest, nil
	case "revenue", string(SortRevenue):
		return SortRevenue, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// Label is the human-readable name of a sort order.
func (s Sort) Label() string {
	switch s {
	case SortRating:
		return "Top Rated"
	case SortNewest:
		return "Newest"
	case SortOldest:
		return "Oldest"
	case SortRevenue:
		return "Highest Grossing"
	}
	return "Most Popular"
}

// SupportedBy reports whether lists of mt can be ordered by s. TV has no
// revenue figures.
func (s Sort) SupportedBy(mt catalog.MediaType) bool {
	return s != SortRevenue || mt != catalog.TV
}

// SortsFor lists the orders available for mt, in display order.
func SortsFor(mt catalog.MediaType) []Sort {
	out := make([]Sort, 0, len(Sorts))
	for _, s := range Sorts {
		if s.SupportedBy(mt) {
			out = append(out, s)
		}
	}
	return out
}

// Params is everything that determines the contents of a list view.
type Params struct {
	MediaType catalog.MediaType
	Search    string
	Sort      Sort
	Filters   catalog.Filters
	Page      int
}

// Query is one issued request. Token identifies it to Receive.
type Query struct {
	Token       uuid.UUID
	Params      Params
	RequestedAt time.Time
}

// IsZero reports whether no query was issued.
func (q Query) IsZero() bool {
	return q.Token == uuid.Nil
}

// Result is the outcome of executing a Query.
type Result struct {
	Token uuid.UUID
	Page  *catalog.ListPage
	Err   error
}

// Status is the lifecycle position of a list view.
type Status int

// Statuses.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusErrored:
		return "errored"
	}
	return "idle"
}

// State is an immutable snapshot of a list view. Transitions return a new
// State and the Query the caller must execute.
type State struct {
	Status       Status
	Params       Params
	Items        []catalog.Summary
	HasMore      bool
	TotalResults int
	Err          error

	pending uuid.UUID
	clock   func() time.Time
}

// New returns an idle state with default parameters. A nil clock means
// time.Now.
func New(mt catalog.MediaType, clock func() time.Time) State {
	if clock == nil {
		clock = time.Now
	}
	if mt == "" {
		mt = catalog.Movie
	}
	return State{
		Params: Params{
			MediaType: mt,
			Sort:      SortPopularity,
			Filters:   catalog.DefaultFilters(clock()),
			Page:      1,
		},
		clock: clock,
	}
}

func (s State) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// Pending returns the token of the in-flight query, or uuid.Nil.
func (s State) Pending() uuid.UUID {
	return s.pending
}

// issue enters loading for p and returns the query to run.
func (s State) issue(p Params) (State, Query) {
	q := Query{Token: uuid.New(), Params: p, RequestedAt: s.now()}
	s.Params = p
	s.Status = StatusLoading
	s.Err = nil
	s.pending = q.Token
	return s, q
}

func (s State) firstPage(mod func(*Params)) (State, Query) {
	p := s.Params
	p.Filters = p.Filters.Clone()
	mod(&p)
	p.Page = 1
	return s.issue(p)
}

// Start loads the first page with the current parameters.
func (s State) Start() (State, Query) {
	return s.firstPage(func(*Params) {})
}

// Refresh reloads from the first page.
func (s State) Refresh() (State, Query) {
	return s.Start()
}

// Search sets the search text. Blank text returns to browsing.
func (s State) Search(text string) (State, Query) {
	return s.firstPage(func(p *Params) { p.Search = strings.TrimSpace(text) })
}

// SetMediaType switches between movies and TV. An order the new media type
// does not support falls back to popularity.
func (s State) SetMediaType(mt catalog.MediaType) (State, Query) {
	return s.firstPage(func(p *Params) {
		p.MediaType = mt
		if !p.Sort.SupportedBy(mt) {
			p.Sort = SortPopularity
		}
	})
}

// SetSort changes the order. An order the current media type does not
// support is ignored: s is returned unchanged with a zero Query.
func (s State) SetSort(sort Sort) (State, Query) {
	if !sort.SupportedBy(s.Params.MediaType) {
		return s, Query{}
	}
	return s.firstPage(func(p *Params) { p.Sort = sort })
}

// ToggleGenre adds the genre to the filter set, or removes it when present.
func (s State) ToggleGenre(id int) (State, Query) {
	return s.firstPage(func(p *Params) {
		if i := slices.Index(p.Filters.GenreIDs, id); i >= 0 {
			p.Filters.GenreIDs = slices.Delete(p.Filters.GenreIDs, i, i+1)
			return
		}
		p.Filters.GenreIDs = append(p.Filters.GenreIDs, id)
	})
}

// SetYearRange sets the inclusive release year range. Reversed bounds are
// swapped.
func (s State) SetYearRange(from, to int) (State, Query) {
	if from > to {
		from, to = to, from
	}
	return s.firstPage(func(p *Params) {
		p.Filters.YearFrom = from
		p.Filters.YearTo = to
	})
}

// SetRatingRange sets the inclusive rating range, clamped to 0..10.
func (s State) SetRatingRange(from, to float64) (State, Query) {
	from = min(max(from, catalog.MinRating), catalog.MaxRating)
	to = min(max(to, catalog.MinRating), catalog.MaxRating)
	if from > to {
		from, to = to, from
	}
	return s.firstPage(func(p *Params) {
		p.Filters.RatingFrom = from
		p.Filters.RatingTo = to
	})
}

// ResetFilters restores the default filters, sort and search text.
func (s State) ResetFilters() (State, Query) {
	now := s.now()
	return s.firstPage(func(p *Params) {
		p.Search = ""
		p.Sort = SortPopularity
		p.Filters = catalog.DefaultFilters(now)
	})
}

// LoadMore requests the next page. It is only valid from a loaded state with
// more pages; otherwise it returns s unchanged and a zero Query.
func (s State) LoadMore() (State, Query) {
	if s.Status != StatusLoaded || !s.HasMore {
		return s, Query{}
	}
	p := s.Params
	p.Page++
	return s.issue(p)
}

// Retry reissues the failed query.
func (s State) Retry() (State, Query) {
	if s.Status != StatusErrored {
		return s, Query{}
	}
	return s.issue(s.Params)
}

// Receive applies a result. Results for any token other than the latest
// issued one are ignored. The first page replaces the items; later pages
// append in order.
func (s State) Receive(r Result) State {
	if s.pending == uuid.Nil || r.Token != s.pending {
		return s
	}
	s.pending = uuid.Nil

	if r.Err != nil || r.Page == nil {
		s.Status = StatusErrored
		s.Err = r.Err
		if s.Err == nil {
			s.Err = fmt.Errorf("empty result for page %d", s.Params.Page)
		}
		return s
	}

	if s.Params.Page <= 1 {
		s.Items = slices.Clone(r.Page.Items)
	} else {
		s.Items = append(slices.Clip(s.Items), r.Page.Items...)
	}
	s.Status = StatusLoaded
	s.Err = nil
	s.HasMore = r.Page.HasMore
	s.TotalResults = r.Page.TotalResults
	return s
}

// Visible returns the items to display: the loaded items, narrowed
// client-side unless the provider request already applied the filters.
func (s State) Visible() []catalog.Summary {
	if Plan(s.Params).EncodesFilters() {
		return s.Items
	}
	return catalog.FilterPage(s.Items, s.Params.Filters)
}
