package explore

import (
	"context"

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

// Endpoint is the provider query a Params set maps to.
type Endpoint int

// Endpoints.
const (
	EndpointPopular Endpoint = iota
	EndpointTopRated
	EndpointSearch
	EndpointDiscover
)

func (e Endpoint) String() string {
	switch e {
	case EndpointTopRated:
		return "top_rated"
	case EndpointSearch:
		return "search"
	case EndpointDiscover:
		return "discover"
	}
	return "popular"
}

// EncodesFilters reports whether the provider applies the filters itself.
func (e Endpoint) EncodesFilters() bool {
	return e == EndpointDiscover
}

// Plan picks the endpoint for p. Search text wins. A genre selection or an
// order the curated lists cannot express goes to discover.
func Plan(p Params) Endpoint {
	switch {
	case p.Search != "":
		return EndpointSearch
	case len(p.Filters.GenreIDs) > 0:
		return EndpointDiscover
	case p.Sort == SortRating:
		return EndpointTopRated
	case p.Sort == SortPopularity || p.Sort == "":
		return EndpointPopular
	}
	return EndpointDiscover
}

// Catalog is the query surface a Loader needs.
type Catalog interface {
	List(ctx context.Context, mt catalog.MediaType, kind catalog.ListKind, page int) (*catalog.ListPage, error)
	Search(ctx context.Context, mt catalog.MediaType, query string, page int) (*catalog.ListPage, error)
	Discover(ctx context.Context, mt catalog.MediaType, q catalog.DiscoverQuery) (*catalog.ListPage, error)
}

// Loader executes queries against a catalog.
type Loader struct {
	Catalog Catalog
}

// Fetch runs q and returns a result tagged with its token.
func (l Loader) Fetch(ctx context.Context, q Query) Result {
	p := q.Params
	var (
		page *catalog.ListPage
		err  error
	)
	switch Plan(p) {
	case EndpointSearch:
		page, err = l.Catalog.Search(ctx, p.MediaType, p.Search, p.Page)
	case EndpointDiscover:
		page, err = l.Catalog.Discover(ctx, p.MediaType, catalog.DiscoverQuery{
			Sort:    string(p.Sort),
			Filters: p.Filters,
			Page:    p.Page,
		})
	case EndpointTopRated:
		page, err = l.Catalog.List(ctx, p.MediaType, catalog.TopRated, p.Page)
	default:
		page, err = l.Catalog.List(ctx, p.MediaType, catalog.Popular, p.Page)
	}
	return Result{Token: q.Token, Page: page, Err: err}
}
