package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vadimtrunov/CineScope/internal/metadata/omdb"
	"github.com/vadimtrunov/CineScope/internal/metadata/tmdb"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestService(t *testing.T, mux *http.ServeMux, opts ...Option) *Service {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewService(tmdb.NewForTest(server.URL, discardLogger), discardLogger, opts...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`))
}

type fakeEnricher struct {
	movie *omdb.Movie
	err   error
	calls atomic.Int32
}

func (f *fakeEnricher) GetByIMDbID(_ context.Context, _ string) (*omdb.Movie, error) {
	f.calls.Add(1)
	return f.movie, f.err
}

func TestSearch_BatmanHasMore(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		results := []tmdb.Movie{{ID: 268, Title: "Batman", ReleaseDate: "1989-06-23", VoteAverage: 7.2}}
		if page == "2" {
			results = []tmdb.Movie{{ID: 364, Title: "Batman Returns"}}
		}
		p := 1
		if page == "2" {
			p = 2
		}
		writeJSON(w, tmdb.Page[tmdb.Movie]{Page: p, Results: results, TotalPages: 5, TotalResults: 97})
	})
	svc := newTestService(t, mux)

	first, err := svc.Search(context.Background(), Movie, "batman", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.HasMore || first.Page != 1 || first.TotalPages != 5 {
		t.Errorf("unexpected page 1: %+v", first)
	}
	if first.Items[0].Year != "1989" || first.Items[0].Rating != "7.2" {
		t.Errorf("unexpected item: %+v", first.Items[0])
	}

	second, err := svc.Search(context.Background(), Movie, "batman", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Page != 2 || second.Items[0].Title != "Batman Returns" {
		t.Errorf("unexpected page 2: %+v", second)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	})
	svc := newTestService(t, mux)

	if _, err := svc.Search(context.Background(), Movie, "   ", 1); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no provider calls, got %d", calls.Load())
	}
}

func TestList_Endpoints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mt   MediaType
		kind ListKind
		path string
	}{
		{Movie, Popular, "/movie/popular"},
		{Movie, TopRated, "/movie/top_rated"},
		{Movie, NowPlaying, "/movie/now_playing"},
		{Movie, Upcoming, "/movie/upcoming"},
		{Movie, Trending, "/trending/movie/week"},
		{TV, Popular, "/tv/popular"},
		{TV, TopRated, "/tv/top_rated"},
		{TV, OnTheAir, "/tv/on_the_air"},
		{TV, Trending, "/trending/tv/week"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mt)+"_"+string(tt.kind), func(t *testing.T) {
			t.Parallel()
			mux := http.NewServeMux()
			mux.HandleFunc(tt.path, func(w http.ResponseWriter, _ *http.Request) {
				if tt.mt == TV {
					writeJSON(w, tmdb.Page[tmdb.Show]{Page: 3, Results: []tmdb.Show{{ID: 1, Name: "Show"}}, TotalPages: 3})
					return
				}
				writeJSON(w, tmdb.Page[tmdb.Movie]{Page: 3, Results: []tmdb.Movie{{ID: 1, Title: "Movie"}}, TotalPages: 3})
			})
			svc := newTestService(t, mux)

			page, err := svc.List(context.Background(), tt.mt, tt.kind, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.HasMore {
				t.Error("last page should not report HasMore")
			}
			if len(page.Items) != 1 || page.Items[0].MediaType != tt.mt {
				t.Errorf("unexpected items %+v", page.Items)
			}
		})
	}
}

func TestList_Unsupported(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, http.NewServeMux())
	for _, c := range []struct {
		mt   MediaType
		kind ListKind
	}{{TV, NowPlaying}, {TV, Upcoming}, {Movie, OnTheAir}, {"person", Popular}} {
		if _, err := svc.List(context.Background(), c.mt, c.kind, 1); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s %s: expected ErrUnsupported, got %v", c.mt, c.kind, err)
		}
	}
}

func TestList_ProviderFailureIsUnavailable(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/popular", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"status_code":7,"status_message":"Invalid API key"}`))
	})
	mux.HandleFunc("/movie/top_rated", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/movie/upcoming", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"page":`))
	})
	svc := newTestService(t, mux)

	_, err := svc.List(context.Background(), Movie, Popular, 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	var apiErr *tmdb.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 7 {
		t.Errorf("expected wrapped provider error, got %v", err)
	}

	for _, kind := range []ListKind{TopRated, Upcoming} {
		if _, err := svc.List(context.Background(), Movie, kind, 1); !errors.Is(err, ErrUnavailable) {
			t.Errorf("%s: expected ErrUnavailable, got %v", kind, err)
		}
	}
}

func TestDiscover_EncodesFilters(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("with_genres") != "28,878" {
			t.Errorf("with_genres = %q", q.Get("with_genres"))
		}
		if q.Get("primary_release_date.gte") != "2000-01-01" || q.Get("primary_release_date.lte") != "2010-12-31" {
			t.Errorf("unexpected date range %q..%q", q.Get("primary_release_date.gte"), q.Get("primary_release_date.lte"))
		}
		if q.Get("vote_average.gte") != "7" {
			t.Errorf("vote_average.gte = %q", q.Get("vote_average.gte"))
		}
		if q.Get("sort_by") != tmdb.SortRevenueDesc {
			t.Errorf("sort_by = %q", q.Get("sort_by"))
		}
		writeJSON(w, tmdb.Page[tmdb.Movie]{Page: 1, TotalPages: 2})
	})
	mux.HandleFunc("/discover/tv", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort_by"); got != "first_air_date.desc" {
			t.Errorf("tv sort_by = %q", got)
		}
		writeJSON(w, tmdb.Page[tmdb.Show]{Page: 1, TotalPages: 1})
	})
	svc := newTestService(t, mux)

	page, err := svc.Discover(context.Background(), Movie, DiscoverQuery{
		Sort:    tmdb.SortRevenueDesc,
		Filters: Filters{GenreIDs: []int{28, 878}, YearFrom: 2000, YearTo: 2010, RatingFrom: 7, RatingTo: 10},
		Page:    1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.HasMore || page.Items == nil {
		t.Errorf("unexpected page %+v", page)
	}

	if _, err := svc.Discover(context.Background(), TV, DiscoverQuery{Sort: tmdb.SortReleaseDesc}); err != nil {
		t.Errorf("tv discover: %v", err)
	}
	if _, err := svc.Discover(context.Background(), TV, DiscoverQuery{Sort: tmdb.SortRevenueDesc}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for tv revenue sort, got %v", err)
	}
}

func TestGenres(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/tv/list", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"},{"id":35,"name":"Comedy"}]}`))
	})
	svc := newTestService(t, mux)

	gs, err := svc.Genres(context.Background(), TV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gs) != 2 || gs[0] != (Genre{18, "Drama"}) {
		t.Errorf("unexpected genres %+v", gs)
	}
	if _, err := svc.Genres(context.Background(), Movie); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for missing endpoint, got %v", err)
	}
}

func TestDetails_EnrichesFromIMDb(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/27205", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("append_to_response"); !strings.Contains(got, "credits") {
			t.Errorf("append_to_response = %q", got)
		}
		writeJSON(w, tmdb.MovieDetails{
			ID:              27205,
			Title:           "Inception",
			Runtime:         148,
			IMDbID:          "tt1375666",
			Videos:          &tmdb.VideoList{},
			Credits:         &tmdb.Credits{},
			Similar:         &tmdb.Page[tmdb.Movie]{},
			Recommendations: &tmdb.Page[tmdb.Movie]{},
		})
	})
	enricher := &fakeEnricher{movie: &omdb.Movie{IMDbRating: "8.8", Rated: "PG-13", Awards: "Won 4 Oscars"}}
	svc := newTestService(t, mux, WithEnricher(enricher))

	d, err := svc.Details(context.Background(), Key{Movie, 27205})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.IMDbRating != "8.8" || d.Rated != "PG-13" {
		t.Errorf("expected enrichment, got %+v", d)
	}
	if enricher.calls.Load() != 1 {
		t.Errorf("expected 1 enrichment call, got %d", enricher.calls.Load())
	}
}

func TestDetails_EnrichmentFailureIgnored(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, tmdb.ShowDetails{ID: 1396, Name: "Breaking Bad", ExternalIDs: &tmdb.ExternalIDs{IMDbID: "tt0903747"}})
	})
	enricher := &fakeEnricher{err: &omdb.APIError{HTTPStatus: 401, Message: "Invalid API key!"}}
	svc := newTestService(t, mux, WithEnricher(enricher))

	d, err := svc.Details(context.Background(), Key{TV, 1396})
	if err != nil {
		t.Fatalf("enrichment failure must not fail details: %v", err)
	}
	if d.Title != "Breaking Bad" || d.IMDbRating != "" {
		t.Errorf("unexpected detail %+v", d)
	}
}

func TestDetails_BackfillsSubresources(t *testing.T) {
	t.Parallel()
	var backfills atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, tmdb.MovieDetails{ID: 603, Title: "The Matrix"})
	})
	mux.HandleFunc("/movie/603/videos", func(w http.ResponseWriter, _ *http.Request) {
		backfills.Add(1)
		w.Write([]byte(`{"results":[{"key":"m8e-FF8MsqU","site":"YouTube","type":"Trailer","name":"Trailer"}]}`))
	})
	mux.HandleFunc("/movie/603/credits", func(w http.ResponseWriter, _ *http.Request) {
		backfills.Add(1)
		w.Write([]byte(`{"cast":[{"name":"Keanu Reeves","character":"Neo"}],"crew":[{"name":"Lana Wachowski","job":"Director"}]}`))
	})
	mux.HandleFunc("/movie/603/similar", func(w http.ResponseWriter, _ *http.Request) {
		backfills.Add(1)
		writeJSON(w, tmdb.Page[tmdb.Movie]{Page: 1, Results: []tmdb.Movie{{ID: 604, Title: "The Matrix Reloaded"}}, TotalPages: 1})
	})
	svc := newTestService(t, mux)

	d, err := svc.Details(context.Background(), Key{Movie, 603})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backfills.Load() != 3 {
		t.Errorf("expected 3 backfill requests, got %d", backfills.Load())
	}
	if d.Trailer == nil || d.Trailer.Key != "m8e-FF8MsqU" {
		t.Errorf("unexpected trailer %+v", d.Trailer)
	}
	if d.Director != "Lana Wachowski" || len(d.Cast) != 1 {
		t.Errorf("unexpected credits %q %+v", d.Director, d.Cast)
	}
	if len(d.Similar) != 1 || d.Similar[0].ID != 604 {
		t.Errorf("unexpected similar %+v", d.Similar)
	}
}

func TestSimilar_FallsBackToRecommendations(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/1/similar", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, tmdb.Page[tmdb.Movie]{Page: 1})
	})
	mux.HandleFunc("/movie/1/recommendations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, tmdb.Page[tmdb.Movie]{Page: 1, Results: []tmdb.Movie{{ID: 2}}, TotalPages: 1})
	})
	svc := newTestService(t, mux)

	page, err := svc.Similar(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 2 {
		t.Errorf("unexpected items %+v", page.Items)
	}
}

func TestVideosAndCredits(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/5/videos", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[{"key":"a","site":"YouTube","type":"Teaser"},{"key":"b","site":"Vimeo","type":"Trailer"}]}`))
	})
	mux.HandleFunc("/movie/5/credits", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"cast":[{"name":"A"}],"crew":[{"name":"B","job":"Writer","department":"Writing"}]}`))
	})
	svc := newTestService(t, mux)

	vs, err := svc.Videos(context.Background(), 5)
	if err != nil || len(vs) != 1 || vs[0].Key != "a" {
		t.Errorf("unexpected videos %+v, %v", vs, err)
	}
	cast, crew, err := svc.Credits(context.Background(), 5)
	if err != nil || len(cast) != 1 || len(crew) != 1 || crew[0].Department != "Writing" {
		t.Errorf("unexpected credits %+v %+v, %v", cast, crew, err)
	}
}

func TestFeatured_PartialFailureDegradesItem(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	for _, id := range []string{"1", "3"} {
		mux.HandleFunc("/movie/"+id, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"id":` + id + `,"title":"Movie ` + id + `","poster_path":"/p.jpg","videos":{"results":[]},"credits":{"cast":[],"crew":[]},"similar":{"results":[]}}`))
		})
	}
	mux.HandleFunc("/movie/2", notFound)
	svc := newTestService(t, mux, WithConcurrency(2))

	keys := []Key{{Movie, 1}, {Movie, 2}, {Movie, 3}}
	got, err := svc.Featured(context.Background(), keys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if got[0].Title != "Movie 1" || got[2].Title != "Movie 3" {
		t.Errorf("order not preserved: %q, %q", got[0].Title, got[2].Title)
	}
	if got[1].Key() != keys[1] || got[1].PosterURL != PlaceholderPoster {
		t.Errorf("expected placeholder for failed item, got %+v", got[1].Summary)
	}
}

func TestFeatured_CanceledContext(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, http.NewServeMux())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Featured(ctx, DefaultFeatured); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNews(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	for _, id := range []string{"10", "30", "40"} {
		mux.HandleFunc("/movie/"+id, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"id":` + id + `,"title":"Film ` + id + `","poster_path":"/n.jpg","videos":{"results":[]},"credits":{"cast":[],"crew":[]},"similar":{"results":[]}}`))
		})
	}
	mux.HandleFunc("/movie/20", notFound)
	svc := newTestService(t, mux)

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	keys := []Key{{Movie, 10}, {Movie, 20}, {Movie, 30}, {Movie, 40}}
	articles, err := svc.News(context.Background(), keys, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected failed item to be skipped, got %d articles", len(articles))
	}

	want := []struct {
		id, title, date string
	}{
		{"news-movie:10", `"Film 10" Breaks Box Office Records`, "May 20, 2026"},
		{"news-movie:30", `"Film 30" Cast Reunites for Special Event`, "May 14, 2026"},
		{"news-movie:40", `Streaming Platform Acquires Rights to "Film 40"`, "May 11, 2026"},
	}
	for i, w := range want {
		a := articles[i]
		if a.ID != w.id || a.Title != w.title || a.Date != w.date {
			t.Errorf("article %d = %+v, want %+v", i, a, w)
		}
		if a.Image != "https://image.tmdb.org/t/p/w500/n.jpg" {
			t.Errorf("article %d image = %q", i, a.Image)
		}
	}
}

func TestFallbackNews(t *testing.T) {
	t.Parallel()
	if got := FallbackNews(); len(got) != 4 || got[0].ID != "news1" {
		t.Errorf("unexpected fallback news %+v", got)
	}
}
