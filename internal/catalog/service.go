package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vadimtrunov/CineScope/internal/metadata/omdb"
	"github.com/vadimtrunov/CineScope/internal/metadata/tmdb"
)

var (
	// ErrUnavailable collapses every provider failure: transport errors,
	// non-success statuses, provider-reported errors and undecodable bodies.
	// The cause stays wrapped for logging.
	ErrUnavailable = errors.New("catalog unavailable")

	// ErrUnsupported is returned for a list or sort the media type does not offer.
	ErrUnsupported = errors.New("unsupported for media type")

	// ErrEmptyQuery is returned by Search for blank input.
	ErrEmptyQuery = errors.New("empty search query")
)

// MetadataClient is the provider surface the service consumes.
type MetadataClient interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.Page[tmdb.Movie], error)
	TopRatedMovies(ctx context.Context, page int) (*tmdb.Page[tmdb.Movie], error)
	NowPlayingMovies(ctx context.Context, page int) (*tmdb.Page[tmdb.Movie], error)
	UpcomingMovies(ctx context.Context, page int) (*tmdb.Page[tmdb.Movie], error)
	TrendingMovies(ctx context.Context, window tmdb.TimeWindow, page int) (*tmdb.Page[tmdb.Movie], error)
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.Movie], error)
	DiscoverMovies(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.Page[tmdb.Movie], error)
	MovieGenres(ctx context.Context) ([]tmdb.Genre, error)
	GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	MovieVideos(ctx context.Context, id int) ([]tmdb.Video, error)
	MovieCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	SimilarMovies(ctx context.Context, id, page int) (*tmdb.Page[tmdb.Movie], error)
	Recommendations(ctx context.Context, id, page int) (*tmdb.Page[tmdb.Movie], error)

	PopularTV(ctx context.Context, page int) (*tmdb.Page[tmdb.Show], error)
	TopRatedTV(ctx context.Context, page int) (*tmdb.Page[tmdb.Show], error)
	OnTheAirTV(ctx context.Context, page int) (*tmdb.Page[tmdb.Show], error)
	TrendingTV(ctx context.Context, window tmdb.TimeWindow, page int) (*tmdb.Page[tmdb.Show], error)
	SearchTV(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.Show], error)
	DiscoverTV(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.Page[tmdb.Show], error)
	TVGenres(ctx context.Context) ([]tmdb.Genre, error)
	GetTV(ctx context.Context, id int) (*tmdb.ShowDetails, error)
}

// Enricher looks up supplementary data by IMDb id.
type Enricher interface {
	GetByIMDbID(ctx context.Context, imdbID string) (*omdb.Movie, error)
}

// ListKind names a curated provider list.
type ListKind string

// Curated lists. NowPlaying and Upcoming exist for movies only, OnTheAir for
// TV only.
const (
	Popular    ListKind = "popular"
	TopRated   ListKind = "top_rated"
	NowPlaying ListKind = "now_playing"
	Upcoming   ListKind = "upcoming"
	Trending   ListKind = "trending"
	OnTheAir   ListKind = "on_the_air"
)

// ParseListKind accepts snake_case or kebab-case list names.
func ParseListKind(s string) (ListKind, error) {
	k := ListKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch k {
	case Popular, TopRated, NowPlaying, Upcoming, Trending, OnTheAir:
		return k, nil
	}
	return "", fmt.Errorf("unknown list %q", s)
}

// Service composes provider queries and normalizes their results.
type Service struct {
	client      MetadataClient
	enricher    Enricher
	norm        Normalizer
	concurrency int
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithEnricher enables IMDb enrichment of detail views.
func WithEnricher(e Enricher) Option {
	return func(s *Service) { s.enricher = e }
}

// WithNormalizer overrides image sizes or the CDN base.
func WithNormalizer(n Normalizer) Option {
	return func(s *Service) { s.norm = n }
}

// WithConcurrency bounds the parallel fetches of Featured and News.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a catalog service over a metadata client.
func NewService(client MetadataClient, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		client:      client,
		norm:        DefaultNormalizer(),
		concurrency: 4,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalizer returns the normalizer the service maps records with.
func (s *Service) Normalizer() Normalizer {
	return s.norm
}

func (s *Service) unavailable(op string, err error) error {
	s.logger.Warn("catalog query failed", slog.String("op", op), slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// List returns one page of a curated list.
func (s *Service) List(ctx context.Context, mt MediaType, kind ListKind, page int) (*ListPage, error) {
	op := fmt.Sprintf("list %s %s", mt, kind)
	switch mt {
	case Movie:
		var fetch func(context.Context, int) (*tmdb.Page[tmdb.Movie], error)
		switch kind {
		case Popular:
			fetch = s.client.PopularMovies
		case TopRated:
			fetch = s.client.TopRatedMovies
		case NowPlaying:
			fetch = s.client.NowPlayingMovies
		case Upcoming:
			fetch = s.client.UpcomingMovies
		case Trending:
			fetch = func(ctx context.Context, page int) (*tmdb.Page[tmdb.Movie], error) {
				return s.client.TrendingMovies(ctx, tmdb.Week, page)
			}
		default:
			return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
		}
		p, err := fetch(ctx, page)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		return s.moviePage(p), nil
	case TV:
		var fetch func(context.Context, int) (*tmdb.Page[tmdb.Show], error)
		switch kind {
		case Popular:
			fetch = s.client.PopularTV
		case TopRated:
			fetch = s.client.TopRatedTV
		case OnTheAir:
			fetch = s.client.OnTheAirTV
		case Trending:
			fetch = func(ctx context.Context, page int) (*tmdb.Page[tmdb.Show], error) {
				return s.client.TrendingTV(ctx, tmdb.Week, page)
			}
		default:
			return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
		}
		p, err := fetch(ctx, page)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		return s.showPage(p), nil
	}
	return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
}

// Search returns one page of title matches.
func (s *Service) Search(ctx context.Context, mt MediaType, query string, page int) (*ListPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search %s: %w", mt, ErrEmptyQuery)
	}
	op := fmt.Sprintf("search %s %q", mt, query)
	switch mt {
	case Movie:
		p, err := s.client.SearchMovies(ctx, query, page)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		return s.moviePage(p), nil
	case TV:
		p, err := s.client.SearchTV(ctx, query, page)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		return s.showPage(p), nil
	}
	return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
}

// DiscoverQuery is a filtered, sorted listing request.
type DiscoverQuery struct {
	Sort    string
	Filters Filters
	Page    int
}

// Discover runs a provider-side filtered listing. The filters are encoded in
// the request, so callers must not filter the page again.
func (s *Service) Discover(ctx context.Context, mt MediaType, q DiscoverQuery) (*ListPage, error) {
	op := fmt.Sprintf("discover %s", mt)
	voteTo := q.Filters.RatingTo
	params := tmdb.DiscoverParams{
		Page:     q.Page,
		SortBy:   q.Sort,
		GenreIDs: q.Filters.GenreIDs,
		YearFrom: q.Filters.YearFrom,
		YearTo:   q.Filters.YearTo,
		VoteFrom: q.Filters.RatingFrom,
		VoteTo:   &voteTo,
	}
	switch mt {
	case Movie:
		p, err := s.client.DiscoverMovies(ctx, params)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		return s.moviePage(p), nil
	case TV:
		sortBy, ok := tvSort(q.Sort)
		if !ok {
			return nil, fmt.Errorf("%s sort %q: %w", op, q.Sort, ErrUnsupported)
		}
		params.SortBy = sortBy
		p, err := s.client.DiscoverTV(ctx, params)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		return s.showPage(p), nil
	}
	return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
}

// tvSort maps a movie sort order onto the TV discover vocabulary.
func tvSort(sortBy string) (string, bool) {
	switch sortBy {
	case "", tmdb.SortPopularityDesc, tmdb.SortVoteAverageDesc:
		return sortBy, true
	case tmdb.SortReleaseDesc:
		return "first_air_date.desc", true
	case tmdb.SortReleaseAsc:
		return "first_air_date.asc", true
	}
	return "", false
}

// ByGenre lists the most popular items carrying one genre.
func (s *Service) ByGenre(ctx context.Context, mt MediaType, genreID, page int) (*ListPage, error) {
	return s.Discover(ctx, mt, DiscoverQuery{
		Sort:    tmdb.SortPopularityDesc,
		Filters: Filters{GenreIDs: []int{genreID}, RatingTo: MaxRating},
		Page:    page,
	})
}

// Genres returns the provider genre list for a media type.
func (s *Service) Genres(ctx context.Context, mt MediaType) ([]Genre, error) {
	op := fmt.Sprintf("genres %s", mt)
	var (
		gs  []tmdb.Genre
		err error
	)
	switch mt {
	case Movie:
		gs, err = s.client.MovieGenres(ctx)
	case TV:
		gs, err = s.client.TVGenres(ctx)
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
	}
	if err != nil {
		return nil, s.unavailable(op, err)
	}
	return genres(gs), nil
}

// Details fetches the full view of one item. Missing sub-resources are
// fetched separately for movies; IMDb enrichment is best-effort.
func (s *Service) Details(ctx context.Context, k Key) (*Detail, error) {
	op := "details " + k.String()
	var d Detail
	switch k.Type {
	case Movie:
		m, err := s.client.GetMovie(ctx, k.ID)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		d = s.norm.Detail(DetailRecord{Source: SourceTMDBMovie, Movie: m})
		s.completeMovie(ctx, &d, m)
	case TV:
		sh, err := s.client.GetTV(ctx, k.ID)
		if err != nil {
			return nil, s.unavailable(op, err)
		}
		d = s.norm.Detail(DetailRecord{Source: SourceTMDBShow, Show: sh})
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
	}
	s.enrich(ctx, &d)
	return &d, nil
}

// completeMovie backfills sub-resources the detail response did not append.
// Failures leave the section empty.
func (s *Service) completeMovie(ctx context.Context, d *Detail, m *tmdb.MovieDetails) {
	if m.Videos == nil {
		if vs, err := s.client.MovieVideos(ctx, m.ID); err == nil {
			d.SetVideos(vs)
		} else {
			s.logger.Debug("videos unavailable", slog.Int("id", m.ID), slog.String("error", err.Error()))
		}
	}
	if m.Credits == nil {
		if c, err := s.client.MovieCredits(ctx, m.ID); err == nil {
			s.norm.applyCredits(d, c)
		} else {
			s.logger.Debug("credits unavailable", slog.Int("id", m.ID), slog.String("error", err.Error()))
		}
	}
	if m.Similar == nil && m.Recommendations == nil {
		if p, err := s.client.SimilarMovies(ctx, m.ID, 1); err == nil {
			d.Similar = s.norm.movieSummaries(p.Results, maxSimilar)
		} else {
			s.logger.Debug("similar unavailable", slog.Int("id", m.ID), slog.String("error", err.Error()))
		}
	}
}

func (s *Service) enrich(ctx context.Context, d *Detail) {
	if s.enricher == nil || d.IMDbID == "" {
		return
	}
	m, err := s.enricher.GetByIMDbID(ctx, d.IMDbID)
	if err != nil {
		s.logger.Warn("imdb enrichment failed",
			slog.String("imdb_id", d.IMDbID),
			slog.String("error", err.Error()),
		)
		return
	}
	Enrich(d, m)
}

// Videos returns the YouTube videos of a movie.
func (s *Service) Videos(ctx context.Context, id int) ([]Video, error) {
	vs, err := s.client.MovieVideos(ctx, id)
	if err != nil {
		return nil, s.unavailable(fmt.Sprintf("videos movie:%d", id), err)
	}
	out, _ := videos(vs)
	return out, nil
}

// Credits returns the capped cast and the full crew of a movie.
func (s *Service) Credits(ctx context.Context, id int) ([]CastMember, []CrewMember, error) {
	c, err := s.client.MovieCredits(ctx, id)
	if err != nil {
		return nil, nil, s.unavailable(fmt.Sprintf("credits movie:%d", id), err)
	}
	var d Detail
	s.norm.applyCredits(&d, c)
	return d.Cast, d.Crew, nil
}

// Similar returns movies similar to id, falling back to recommendations when
// the similar list is empty.
func (s *Service) Similar(ctx context.Context, id, page int) (*ListPage, error) {
	op := fmt.Sprintf("similar movie:%d", id)
	p, err := s.client.SimilarMovies(ctx, id, page)
	if err != nil {
		return nil, s.unavailable(op, err)
	}
	if len(p.Results) == 0 {
		if rec, err := s.client.Recommendations(ctx, id, page); err == nil {
			p = rec
		}
	}
	return s.moviePage(p), nil
}

func (s *Service) moviePage(p *tmdb.Page[tmdb.Movie]) *ListPage {
	items := make([]Summary, 0, len(p.Results))
	for i := range p.Results {
		items = append(items, s.norm.movieSummary(&p.Results[i]))
	}
	return &ListPage{
		Items:        items,
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		HasMore:      p.HasMore(),
	}
}

func (s *Service) showPage(p *tmdb.Page[tmdb.Show]) *ListPage {
	items := make([]Summary, 0, len(p.Results))
	for i := range p.Results {
		items = append(items, s.norm.showSummary(&p.Results[i]))
	}
	return &ListPage{
		Items:        items,
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		HasMore:      p.HasMore(),
	}
}
