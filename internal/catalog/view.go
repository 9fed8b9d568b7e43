package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PlaceholderPoster is used wherever a record has no poster image.
const PlaceholderPoster = "/placeholder.svg?height=450&width=300"

// NotAvailable marks a value the provider did not supply.
const NotAvailable = "N/A"

// MediaType distinguishes movies from TV series. TMDb ids are only unique
// within a media type.
type MediaType string

// Media types.
const (
	Movie MediaType = "movie"
	TV    MediaType = "tv"
)

// ParseMediaType accepts "movie", "tv" and their common plurals. Empty means
// movie.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "movie", "movies":
		return Movie, nil
	case "tv", "show", "shows", "series":
		return TV, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// ErrInvalidKey is returned when a key string cannot be parsed.
var ErrInvalidKey = errors.New("invalid catalog key")

// Key identifies a catalog item across media types.
type Key struct {
	Type MediaType
	ID   int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Type, k.ID)
}

// ParseKey accepts "movie:550", "tv:1396" or a bare id, which means a movie.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	typ, idStr, found := strings.Cut(s, ":")
	if !found {
		typ, idStr = string(Movie), s
	}
	mt := MediaType(strings.ToLower(typ))
	if mt != Movie && mt != TV {
		return Key{}, fmt.Errorf("%w: unknown media type %q", ErrInvalidKey, typ)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key{Type: mt, ID: id}, nil
}

// Summary is the list-level view of a movie or series.
type Summary struct {
	ID          int       `json:"id"`
	MediaType   MediaType `json:"media_type"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"poster_url"`
	BackdropURL string    `json:"backdrop_url,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Year        string    `json:"year,omitempty"`
	VoteAverage float64   `json:"vote_average"`
	Rating      string    `json:"rating"`
	Overview    string    `json:"overview,omitempty"`
	GenreIDs    []int     `json:"genre_ids,omitempty"`
}

// Key returns the item's catalog key.
func (s Summary) Key() Key {
	return Key{Type: s.MediaType, ID: s.ID}
}

// HasPoster reports whether the summary carries a real poster image.
func (s Summary) HasPoster() bool {
	return s.PosterURL != "" && s.PosterURL != PlaceholderPoster
}

// Detail is the full view shown when an item is opened.
type Detail struct {
	Summary

	Tagline        string       `json:"tagline,omitempty"`
	Status         string       `json:"status,omitempty"`
	Runtime        string       `json:"runtime"`
	RuntimeMinutes int          `json:"runtime_minutes,omitempty"`
	Genres         []Genre      `json:"genres,omitempty"`
	Cast           []CastMember `json:"cast,omitempty"`
	Crew           []CrewMember `json:"crew,omitempty"`
	Director       string       `json:"director,omitempty"`
	Videos         []Video      `json:"videos,omitempty"`
	Trailer        *Video       `json:"trailer,omitempty"`
	Similar        []Summary    `json:"similar,omitempty"`
	Seasons        int          `json:"seasons,omitempty"`
	Episodes       int          `json:"episodes,omitempty"`

	IMDbID     string `json:"imdb_id,omitempty"`
	IMDbRating string `json:"imdb_rating,omitempty"`
	Rated      string `json:"rated,omitempty"`
	Awards     string `json:"awards,omitempty"`
}

// Genre is a provider genre id and its display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a performer credit.
type CastMember struct {
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// CrewMember is a crew credit.
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

// Video is a playable trailer or clip.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// ListPage is one page of a list query.
type ListPage struct {
	Items        []Summary `json:"items"`
	Page         int       `json:"page"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
	HasMore      bool      `json:"has_more"`
}
