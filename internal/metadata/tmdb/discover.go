package tmdb

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Sort orders accepted by the discover endpoints.
const (
	SortPopularityDesc  = "popularity.desc"
	SortVoteAverageDesc = "vote_average.desc"
	SortReleaseDesc     = "release_date.desc"
	SortReleaseAsc      = "release_date.asc"
	SortRevenueDesc     = "revenue.desc"
)

// DiscoverParams narrows a discover query. Zero values leave a filter unset;
// a nil VoteTo leaves the ceiling unset, while 0 is a real bound.
type DiscoverParams struct {
	Page     int
	SortBy   string
	GenreIDs []int
	YearFrom int
	YearTo   int
	VoteFrom float64
	VoteTo   *float64
}

// values encodes the params; dateField is primary_release_date for movies
// and first_air_date for TV.
func (p DiscoverParams) values(dateField string) url.Values {
	v := pageValues(p.Page)
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = SortPopularityDesc
	}
	v.Set("sort_by", sortBy)
	v.Set("include_adult", "false")

	if len(p.GenreIDs) > 0 {
		ids := make([]string, len(p.GenreIDs))
		for i, id := range p.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		v.Set("with_genres", strings.Join(ids, ","))
	}
	if p.YearFrom > 0 {
		v.Set(dateField+".gte", fmt.Sprintf("%04d-01-01", p.YearFrom))
	}
	if p.YearTo > 0 {
		v.Set(dateField+".lte", fmt.Sprintf("%04d-12-31", p.YearTo))
	}
	if p.VoteFrom > 0 {
		v.Set("vote_average.gte", strconv.FormatFloat(p.VoteFrom, 'f', -1, 64))
	}
	if p.VoteTo != nil && *p.VoteTo < 10 {
		v.Set("vote_average.lte", strconv.FormatFloat(*p.VoteTo, 'f', -1, 64))
	}
	return v
}

func pageValues(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}
