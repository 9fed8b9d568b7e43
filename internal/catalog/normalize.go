package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vadimtrunov/CineScope/internal/metadata/omdb"
	"github.com/vadimtrunov/CineScope/internal/metadata/tmdb"
)

const (
	maxCast    = 10
	maxSimilar = 6
)

// Source tags which provider shape a record carries.
type Source int

// Record sources.
const (
	SourceUnknown Source = iota
	SourceTMDBMovie
	SourceTMDBShow
	SourceOMDb
)

func (s Source) String() string {
	switch s {
	case SourceTMDBMovie:
		return "tmdb_movie"
	case SourceTMDBShow:
		return "tmdb_show"
	case SourceOMDb:
		return "omdb"
	}
	return "unknown"
}

// Record is a list-level provider record. Exactly one payload field is set,
// matching Source.
type Record struct {
	Source Source
	Movie  *tmdb.Movie
	Show   *tmdb.Show
	OMDb   *omdb.Movie
}

// MovieRecord tags a TMDb movie list entry.
func MovieRecord(m tmdb.Movie) Record { return Record{Source: SourceTMDBMovie, Movie: &m} }

// ShowRecord tags a TMDb TV list entry.
func ShowRecord(s tmdb.Show) Record { return Record{Source: SourceTMDBShow, Show: &s} }

// OMDbRecord tags an OMDb title record.
func OMDbRecord(m omdb.Movie) Record { return Record{Source: SourceOMDb, OMDb: &m} }

// DetailRecord is a detail-level provider record.
type DetailRecord struct {
	Source Source
	Movie  *tmdb.MovieDetails
	Show   *tmdb.ShowDetails
	OMDb   *omdb.Movie
}

// Normalizer maps provider records into view models. The zero value uses the
// default TMDb image CDN and sizes.
type Normalizer struct {
	ImageBase    string
	PosterSize   string
	BackdropSize string
	ProfileSize  string
}

// DefaultNormalizer returns a Normalizer with the sizes the card and detail
// views use.
func DefaultNormalizer() Normalizer {
	return Normalizer{PosterSize: "w500", BackdropSize: "original", ProfileSize: "w185"}
}

func (n Normalizer) size(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (n Normalizer) poster(path string) string {
	if u := tmdb.ImageURL(n.ImageBase, n.size(n.PosterSize, "w500"), path); u != "" {
		return u
	}
	return PlaceholderPoster
}

func (n Normalizer) backdrop(path string) string {
	return tmdb.ImageURL(n.ImageBase, n.size(n.BackdropSize, "original"), path)
}

func (n Normalizer) profile(path string) string {
	return tmdb.ImageURL(n.ImageBase, n.size(n.ProfileSize, "w185"), path)
}

// Summary normalizes a list-level record. It never fails: an unknown or empty
// record yields a placeholder summary.
func (n Normalizer) Summary(r Record) Summary {
	switch {
	case r.Source == SourceTMDBMovie && r.Movie != nil:
		return n.movieSummary(r.Movie)
	case r.Source == SourceTMDBShow && r.Show != nil:
		return n.showSummary(r.Show)
	case r.Source == SourceOMDb && r.OMDb != nil:
		return omdbSummary(r.OMDb)
	}
	return Placeholder(Key{})
}

// Summaries normalizes a batch of records, preserving order.
func (n Normalizer) Summaries(rs []Record) []Summary {
	out := make([]Summary, 0, len(rs))
	for _, r := range rs {
		out = append(out, n.Summary(r))
	}
	return out
}

// Detail normalizes a detail-level record.
func (n Normalizer) Detail(r DetailRecord) Detail {
	switch {
	case r.Source == SourceTMDBMovie && r.Movie != nil:
		return n.movieDetail(r.Movie)
	case r.Source == SourceTMDBShow && r.Show != nil:
		return n.showDetail(r.Show)
	case r.Source == SourceOMDb && r.OMDb != nil:
		return omdbDetail(r.OMDb)
	}
	return Detail{Summary: Placeholder(Key{}), Runtime: NotAvailable}
}

// Placeholder is the summary shown for an item that could not be loaded.
func Placeholder(k Key) Summary {
	return Summary{
		ID:        k.ID,
		MediaType: k.Type,
		Title:     "Unavailable",
		PosterURL: PlaceholderPoster,
		Rating:    NotAvailable,
	}
}

func (n Normalizer) movieSummary(m *tmdb.Movie) Summary {
	return Summary{
		ID:          m.ID,
		MediaType:   Movie,
		Title:       m.Title,
		PosterURL:   n.poster(m.PosterPath),
		BackdropURL: n.backdrop(m.BackdropPath),
		ReleaseDate: m.ReleaseDate,
		Year:        yearOf(m.ReleaseDate),
		VoteAverage: m.VoteAverage,
		Rating:      formatRating(m.VoteAverage),
		Overview:    m.Overview,
		GenreIDs:    m.GenreIDs,
	}
}

func (n Normalizer) showSummary(s *tmdb.Show) Summary {
	return Summary{
		ID:          s.ID,
		MediaType:   TV,
		Title:       s.Name,
		PosterURL:   n.poster(s.PosterPath),
		BackdropURL: n.backdrop(s.BackdropPath),
		ReleaseDate: s.FirstAirDate,
		Year:        yearOf(s.FirstAirDate),
		VoteAverage: s.VoteAverage,
		Rating:      formatRating(s.VoteAverage),
		Overview:    s.Overview,
		GenreIDs:    s.GenreIDs,
	}
}

func (n Normalizer) movieDetail(m *tmdb.MovieDetails) Detail {
	d := Detail{
		Summary: Summary{
			ID:          m.ID,
			MediaType:   Movie,
			Title:       m.Title,
			PosterURL:   n.poster(m.PosterPath),
			BackdropURL: n.backdrop(m.BackdropPath),
			ReleaseDate: m.ReleaseDate,
			Year:        yearOf(m.ReleaseDate),
			VoteAverage: m.VoteAverage,
			Rating:      formatRating(m.VoteAverage),
			Overview:    m.Overview,
			GenreIDs:    genreIDs(m.Genres),
		},
		Tagline:        m.Tagline,
		Status:         m.Status,
		Runtime:        formatRuntime(m.Runtime),
		RuntimeMinutes: max(m.Runtime, 0),
		Genres:         genres(m.Genres),
		IMDbID:         m.IMDbID,
	}
	if m.Videos != nil {
		d.Videos, d.Trailer = videos(m.Videos.Results)
	}
	if m.Credits != nil {
		n.applyCredits(&d, m.Credits)
	}
	switch {
	case m.Similar != nil && len(m.Similar.Results) > 0:
		d.Similar = n.movieSummaries(m.Similar.Results, maxSimilar)
	case m.Recommendations != nil:
		d.Similar = n.movieSummaries(m.Recommendations.Results, maxSimilar)
	}
	return d
}

func (n Normalizer) showDetail(s *tmdb.ShowDetails) Detail {
	runtime := 0
	if len(s.EpisodeRunTime) > 0 {
		runtime = s.EpisodeRunTime[0]
	}
	d := Detail{
		Summary: Summary{
			ID:          s.ID,
			MediaType:   TV,
			Title:       s.Name,
			PosterURL:   n.poster(s.PosterPath),
			BackdropURL: n.backdrop(s.BackdropPath),
			ReleaseDate: s.FirstAirDate,
			Year:        yearOf(s.FirstAirDate),
			VoteAverage: s.VoteAverage,
			Rating:      formatRating(s.VoteAverage),
			Overview:    s.Overview,
			GenreIDs:    genreIDs(s.Genres),
		},
		Tagline:        s.Tagline,
		Status:         s.Status,
		Runtime:        formatRuntime(runtime),
		RuntimeMinutes: max(runtime, 0),
		Genres:         genres(s.Genres),
		Seasons:        s.NumberOfSeasons,
		Episodes:       s.NumberOfEpisodes,
	}
	if s.ExternalIDs != nil {
		d.IMDbID = s.ExternalIDs.IMDbID
	}
	if len(s.CreatedBy) > 0 {
		d.Director = s.CreatedBy[0].Name
	}
	if s.Videos != nil {
		d.Videos, d.Trailer = videos(s.Videos.Results)
	}
	if s.Credits != nil {
		n.applyCredits(&d, s.Credits)
	}
	switch {
	case s.Similar != nil && len(s.Similar.Results) > 0:
		d.Similar = n.showSummaries(s.Similar.Results, maxSimilar)
	case s.Recommendations != nil:
		d.Similar = n.showSummaries(s.Recommendations.Results, maxSimilar)
	}
	return d
}

// applyCredits fills cast, crew and the director. A series keeps its creator
// as director when the crew lists none.
func (n Normalizer) applyCredits(d *Detail, c *tmdb.Credits) {
	d.Cast = n.cast(c.Cast)
	d.Crew = make([]CrewMember, 0, len(c.Crew))
	for _, m := range c.Crew {
		d.Crew = append(d.Crew, CrewMember{Name: m.Name, Job: m.Job, Department: m.Department})
		if m.Job == "Director" && d.Director == "" {
			d.Director = m.Name
		}
	}
}

func (n Normalizer) cast(members []tmdb.CastMember) []CastMember {
	limit := min(len(members), maxCast)
	out := make([]CastMember, 0, limit)
	for _, m := range members[:limit] {
		out = append(out, CastMember{Name: m.Name, Character: m.Character, ProfileURL: n.profile(m.ProfilePath)})
	}
	return out
}

func (n Normalizer) movieSummaries(ms []tmdb.Movie, limit int) []Summary {
	ms = ms[:min(len(ms), limit)]
	out := make([]Summary, 0, len(ms))
	for i := range ms {
		out = append(out, n.movieSummary(&ms[i]))
	}
	return out
}

func (n Normalizer) showSummaries(ss []tmdb.Show, limit int) []Summary {
	ss = ss[:min(len(ss), limit)]
	out := make([]Summary, 0, len(ss))
	for i := range ss {
		out = append(out, n.showSummary(&ss[i]))
	}
	return out
}

// SetVideos replaces the detail's videos and re-picks the trailer.
func (d *Detail) SetVideos(vs []tmdb.Video) {
	d.Videos, d.Trailer = videos(vs)
}

// videos keeps YouTube entries and picks the first trailer, falling back to
// the first YouTube video of any type.
func videos(vs []tmdb.Video) ([]Video, *Video) {
	var out []Video
	for _, v := range vs {
		if !strings.EqualFold(v.Site, "YouTube") || v.Key == "" {
			continue
		}
		out = append(out, Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type, URL: YouTubeWatchURL(v.Key)})
	}
	if len(out) == 0 {
		return nil, nil
	}
	for i := range out {
		if out[i].Type == "Trailer" {
			t := out[i]
			return out, &t
		}
	}
	t := out[0]
	return out, &t
}

func genres(gs []tmdb.Genre) []Genre {
	if len(gs) == 0 {
		return nil
	}
	out := make([]Genre, 0, len(gs))
	for _, g := range gs {
		out = append(out, Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

func genreIDs(gs []tmdb.Genre) []int {
	if len(gs) == 0 {
		return nil
	}
	out := make([]int, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}

func omdbSummary(m *omdb.Movie) Summary {
	rating := parseRating(m.IMDbRating)
	s := Summary{
		MediaType:   Movie,
		Title:       omdbValue(m.Title),
		PosterURL:   omdbValue(m.Poster),
		ReleaseDate: omdbValue(m.Released),
		Year:        yearOf(omdbValue(m.Year)),
		VoteAverage: rating,
		Rating:      formatRating(rating),
		Overview:    omdbValue(m.Plot),
	}
	if m.Type == "series" {
		s.MediaType = TV
	}
	if s.PosterURL == "" {
		s.PosterURL = PlaceholderPoster
	}
	return s
}

func omdbDetail(m *omdb.Movie) Detail {
	minutes := parseMinutes(m.Runtime)
	d := Detail{
		Summary:        omdbSummary(m),
		Runtime:        formatRuntime(minutes),
		RuntimeMinutes: minutes,
		Director:       omdbValue(m.Director),
	}
	for _, name := range splitList(m.Genre) {
		d.Genres = append(d.Genres, Genre{Name: name})
	}
	for _, name := range splitList(m.Actors) {
		d.Cast = append(d.Cast, CastMember{Name: name})
	}
	applyIMDb(&d, m)
	return d
}

// Enrich merges IMDb fields from an OMDb record into a TMDb-based detail,
// filling director and runtime only where TMDb had none.
func Enrich(d *Detail, m *omdb.Movie) {
	if m == nil {
		return
	}
	applyIMDb(d, m)
	if d.Director == "" {
		d.Director = omdbValue(m.Director)
	}
	if d.RuntimeMinutes == 0 {
		if minutes := parseMinutes(m.Runtime); minutes > 0 {
			d.RuntimeMinutes = minutes
			d.Runtime = formatRuntime(minutes)
		}
	}
}

func applyIMDb(d *Detail, m *omdb.Movie) {
	if id := omdbValue(m.IMDbID); id != "" {
		d.IMDbID = id
	}
	d.IMDbRating = omdbValue(m.IMDbRating)
	d.Rated = omdbValue(m.Rated)
	d.Awards = omdbValue(m.Awards)
}

// yearOf returns the leading four-digit year of a date, or "" when the
// value does not start with one. OMDb ranges such as "2008–2013" keep the
// first year.
func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	for _, r := range date[:4] {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	return date[:4]
}

func formatRating(v float64) string {
	if v <= 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f", v)
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%d min", minutes)
}

func omdbValue(s string) string {
	s = strings.TrimSpace(s)
	if s == omdb.NotAvailable {
		return ""
	}
	return s
}

func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(omdbValue(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseMinutes reads values like "148 min".
func parseMinutes(s string) int {
	fields := strings.Fields(omdbValue(s))
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func splitList(s string) []string {
	s = omdbValue(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
