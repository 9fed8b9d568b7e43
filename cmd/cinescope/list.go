package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/explore"
)

// listDef is one curated list subcommand.
type listDef struct {
	use   string
	kind  catalog.ListKind
	short string
}

var (
	movieLists = []listDef{
		{"popular", catalog.Popular, "Most popular movies"},
		{"top-rated", catalog.TopRated, "Highest rated movies"},
		{"now-playing", catalog.NowPlaying, "Movies in theaters now"},
		{"upcoming", catalog.Upcoming, "Upcoming releases"},
		{"trending", catalog.Trending, "Movies trending this week"},
	}
	tvLists = []listDef{
		{"popular", catalog.Popular, "Most popular series"},
		{"top-rated", catalog.TopRated, "Highest rated series"},
		{"on-the-air", catalog.OnTheAir, "Series airing this week"},
		{"trending", catalog.Trending, "Series trending this week"},
	}
)

// newMoviesCmd returns the "movies" list group.
func newMoviesCmd() *cobra.Command {
	return newMediaCmd(catalog.Movie, "movies", "Browse curated movie lists", movieLists)
}

// newTVCmd returns the "tv" list group.
func newTVCmd() *cobra.Command {
	return newMediaCmd(catalog.TV, "tv", "Browse curated TV lists", tvLists)
}

func newMediaCmd(mt catalog.MediaType, use, short string, lists []listDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	for _, l := range lists {
		cmd.AddCommand(newListCmd(mt, l))
	}
	cmd.AddCommand(newByGenreCmd(mt))
	return cmd
}

func newListCmd(mt catalog.MediaType, l listDef) *cobra.Command {
	var (
		page     int
		fallback bool
	)
	cmd := &cobra.Command{
		Use:   l.use,
		Short: l.short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withServices(false, func(ctx context.Context, s *services) error {
				header := fmt.Sprintf("%s · %s", mediaLabel(mt), l.short)
				return runFetch(ctx, l.use, func(ctx context.Context) (string, error) {
					p, err := s.catalog.List(ctx, mt, l.kind, page)
					if err != nil {
						if fallback && mt == catalog.Movie && errors.Is(err, catalog.ErrUnavailable) {
							s.logger.Warn("showing sample catalog", slog.String("error", err.Error()))
							return formatPage(header+" (offline sample)", catalog.SamplePage(s.catalog.Normalizer())), nil
						}
						return "", err
					}
					return formatPage(header, p), nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	if mt == catalog.Movie {
		cmd.Flags().BoolVar(&fallback, "fallback", false, "show the built-in sample catalog when TMDb is unreachable")
	}
	return cmd
}

func newByGenreCmd(mt catalog.MediaType) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "genre <genre-id>",
		Short: "Most popular titles in one genre",
		Example: `  cinescope movies genre 878
  cinescope tv genre 18 --page 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var id int
			if _, err := fmt.Sscan(args[0], &id); err != nil || id <= 0 {
				return fmt.Errorf("invalid genre id %q", args[0])
			}
			return withServices(false, func(ctx context.Context, s *services) error {
				return runFetch(ctx, "genre", func(ctx context.Context) (string, error) {
					p, err := s.catalog.ByGenre(ctx, mt, id, page)
					if err != nil {
						return "", err
					}
					return formatPage(fmt.Sprintf("%s · genre %d", mediaLabel(mt), id), p), nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	return cmd
}

// newSearchCmd returns the "search" subcommand.
func newSearchCmd() *cobra.Command {
	var (
		tv   bool
		page int
	)
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search titles by name",
		Example: `  cinescope search inception
  cinescope search --tv breaking bad`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			mt := mediaFlag(tv)
			return withServices(false, func(ctx context.Context, s *services) error {
				return runFetch(ctx, "search", func(ctx context.Context) (string, error) {
					p, err := s.catalog.Search(ctx, mt, query, page)
					if err != nil {
						return "", err
					}
					return formatPage(fmt.Sprintf("%s search · %q", mediaLabel(mt), query), p), nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&tv, "tv", false, "search TV series instead of movies")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	return cmd
}

// discoverOptions are the flags of the "discover" subcommand.
type discoverOptions struct {
	tv         bool
	sort       string
	genres     []int
	yearFrom   int
	yearTo     int
	ratingFrom float64
	ratingTo   float64
	page       int
}

// query builds the discover request. Unset bounds keep the defaults.
func (o discoverOptions) query() (catalog.DiscoverQuery, error) {
	sort, err := explore.ParseSort(o.sort)
	if err != nil {
		return catalog.DiscoverQuery{}, err
	}
	if !sort.SupportedBy(mediaFlag(o.tv)) {
		return catalog.DiscoverQuery{}, fmt.Errorf("sort %q is not available for TV", o.sort)
	}
	f := catalog.DefaultFilters(now())
	if len(o.genres) > 0 {
		f.GenreIDs = o.genres
	}
	if o.yearFrom > 0 {
		f.YearFrom = o.yearFrom
	}
	if o.yearTo > 0 {
		f.YearTo = o.yearTo
	}
	if o.ratingFrom > 0 {
		f.RatingFrom = o.ratingFrom
	}
	if o.ratingTo > 0 {
		f.RatingTo = o.ratingTo
	}
	if f.YearFrom > f.YearTo {
		return catalog.DiscoverQuery{}, fmt.Errorf("year range %d-%d is reversed", f.YearFrom, f.YearTo)
	}
	if f.RatingFrom > f.RatingTo || f.RatingTo > catalog.MaxRating {
		return catalog.DiscoverQuery{}, fmt.Errorf("rating range %.1f-%.1f is invalid", f.RatingFrom, f.RatingTo)
	}
	return catalog.DiscoverQuery{Sort: string(sort), Filters: f, Page: o.page}, nil
}

// newDiscoverCmd returns the "discover" subcommand.
func newDiscoverCmd() *cobra.Command {
	var opts discoverOptions
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List titles by sort order and filters",
		Example: `  cinescope discover --sort rating --genre 878 --year-from 1990 --year-to 1999
  cinescope discover --tv --rating-from 8`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			mt := mediaFlag(opts.tv)
			return withServices(false, func(ctx context.Context, s *services) error {
				return runFetch(ctx, "discover", func(ctx context.Context) (string, error) {
					p, err := s.catalog.Discover(ctx, mt, q)
					if err != nil {
						return "", err
					}
					return formatPage(fmt.Sprintf("%s · %s", mediaLabel(mt), explore.Sort(q.Sort).Label()), p), nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&opts.tv, "tv", false, "discover TV series instead of movies")
	cmd.Flags().StringVarP(&opts.sort, "sort", "s", "popularity", "popularity, rating, newest, oldest or revenue")
	cmd.Flags().IntSliceVarP(&opts.genres, "genre", "g", nil, "genre ids, all must match")
	cmd.Flags().IntVar(&opts.yearFrom, "year-from", 0, "earliest release year")
	cmd.Flags().IntVar(&opts.yearTo, "year-to", 0, "latest release year")
	cmd.Flags().Float64Var(&opts.ratingFrom, "rating-from", 0, "minimum rating (0-10)")
	cmd.Flags().Float64Var(&opts.ratingTo, "rating-to", 0, "maximum rating (0-10)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "result page")
	return cmd
}

// newGenresCmd returns the "genres" subcommand.
func newGenresCmd() *cobra.Command {
	var tv bool
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List genre ids for discover filters",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mt := mediaFlag(tv)
			return withServices(false, func(ctx context.Context, s *services) error {
				return runFetch(ctx, "genres", func(ctx context.Context) (string, error) {
					gs, err := s.catalog.Genres(ctx, mt)
					if err != nil {
						s.logger.Warn("using built-in genre list", slog.String("error", err.Error()))
						gs = catalog.StaticGenres()
					}
					return formatGenres(mt, gs), nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&tv, "tv", false, "list TV genres instead of movie genres")
	return cmd
}

// newDetailsCmd returns the "details" subcommand.
func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <key>",
		Short: "Show the full record of one title",
		Example: `  cinescope details movie:27205
  cinescope details tv:1396
  cinescope details 550`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := catalog.ParseKey(args[0])
			if err != nil {
				return err
			}
			return withServices(false, func(ctx context.Context, s *services) error {
				return runFetch(ctx, "details", func(ctx context.Context) (string, error) {
					d, err := s.catalog.Details(ctx, key)
					if err != nil {
						return "", err
					}
					return formatDetail(d), nil
				})
			})
		},
	}
}

// newSimilarCmd returns the "similar" subcommand.
func newSimilarCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "similar <movie-key>",
		Short: "List movies similar to a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := catalog.ParseKey(args[0])
			if err != nil {
				return err
			}
			if key.Type != catalog.Movie {
				return fmt.Errorf("similar titles are only available for movies")
			}
			return withServices(false, func(ctx context.Context, s *services) error {
				return runFetch(ctx, "similar", func(ctx context.Context) (string, error) {
					p, err := s.catalog.Similar(ctx, key.ID, page)
					if err != nil {
						return "", err
					}
					return formatPage("Similar to "+key.String(), p), nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	return cmd
}

// newFeaturedCmd returns the "featured" subcommand.
func newFeaturedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "featured [key...]",
		Short: "Show the featured rotation",
		Long:  "Show the featured rotation. Without arguments the configured catalog.featured keys are used.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			keys, err := parseKeys(args)
			if err != nil {
				return err
			}
			return withServices(false, func(ctx context.Context, s *services) error {
				if len(keys) == 0 {
					keys = s.cfg.FeaturedKeys()
				}
				return runFetch(ctx, "featured", func(ctx context.Context) (string, error) {
					ds, err := s.catalog.Featured(ctx, keys)
					if err != nil {
						return "", err
					}
					return formatFeatured(ds), nil
				})
			})
		},
	}
}

// newNewsCmd returns the "news" subcommand.
func newNewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show the news feed",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withServices(false, func(ctx context.Context, s *services) error {
				return runFetch(ctx, "news", func(ctx context.Context) (string, error) {
					as, err := s.catalog.News(ctx, s.cfg.NewsKeys(), now())
					if err != nil || len(as) == 0 {
						if err != nil {
							s.logger.Warn("using fallback news", slog.String("error", err.Error()))
						}
						as = catalog.FallbackNews()
					}
					return formatArticles(as), nil
				})
			})
		},
	}
}

// withServices opens the services under a signal-aware context, runs fn and
// closes them.
func withServices(withWatchlist bool, fn func(ctx context.Context, s *services) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := openServices(ctx, withWatchlist)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func mediaFlag(tv bool) catalog.MediaType {
	if tv {
		return catalog.TV
	}
	return catalog.Movie
}

func parseKeys(args []string) ([]catalog.Key, error) {
	keys := make([]catalog.Key, 0, len(args))
	for _, a := range args {
		k, err := catalog.ParseKey(a)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
