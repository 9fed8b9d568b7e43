package tmdb

import "fmt"

// Movie represents a movie from TMDb list and search results.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult"`
}

// Show represents a TV series from TMDb list and search results.
type Show struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	OriginalName  string   `json:"original_name,omitempty"`
	Overview      string   `json:"overview"`
	FirstAirDate  string   `json:"first_air_date"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	Popularity    float64  `json:"popularity"`
	GenreIDs      []int    `json:"genre_ids"`
	OriginCountry []string `json:"origin_country,omitempty"`
}

// MovieDetails represents detailed movie information, including the
// sub-resources requested through append_to_response.
type MovieDetails struct {
	ID              int          `json:"id"`
	Title           string       `json:"title"`
	Overview        string       `json:"overview"`
	ReleaseDate     string       `json:"release_date"`
	PosterPath      string       `json:"poster_path"`
	BackdropPath    string       `json:"backdrop_path"`
	VoteAverage     float64      `json:"vote_average"`
	VoteCount       int          `json:"vote_count"`
	Runtime         int          `json:"runtime"`
	Status          string       `json:"status"`
	Tagline         string       `json:"tagline"`
	IMDbID          string       `json:"imdb_id"`
	Homepage        string       `json:"homepage,omitempty"`
	Budget          int64        `json:"budget,omitempty"`
	Revenue         int64        `json:"revenue,omitempty"`
	Genres          []Genre      `json:"genres"`
	Videos          *VideoList   `json:"videos,omitempty"`
	Credits         *Credits     `json:"credits,omitempty"`
	Similar         *Page[Movie] `json:"similar,omitempty"`
	Recommendations *Page[Movie] `json:"recommendations,omitempty"`
}

// ShowDetails represents detailed TV series information.
type ShowDetails struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	Overview         string       `json:"overview"`
	FirstAirDate     string       `json:"first_air_date"`
	LastAirDate      string       `json:"last_air_date"`
	PosterPath       string       `json:"poster_path"`
	BackdropPath     string       `json:"backdrop_path"`
	VoteAverage      float64      `json:"vote_average"`
	VoteCount        int          `json:"vote_count"`
	EpisodeRunTime   []int        `json:"episode_run_time"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	NumberOfEpisodes int          `json:"number_of_episodes"`
	Status           string       `json:"status"`
	Tagline          string       `json:"tagline"`
	Genres           []Genre      `json:"genres"`
	CreatedBy        []Creator    `json:"created_by,omitempty"`
	ExternalIDs      *ExternalIDs `json:"external_ids,omitempty"`
	Videos           *VideoList   `json:"videos,omitempty"`
	Credits          *Credits     `json:"credits,omitempty"`
	Similar          *Page[Show]  `json:"similar,omitempty"`
	Recommendations  *Page[Show]  `json:"recommendations,omitempty"`
}

// Genre represents a movie or TV genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Creator is a TV series creator.
type Creator struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ExternalIDs holds ids assigned by other databases.
type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

// Video is a trailer, teaser or clip hosted on a video site.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList wraps the videos endpoint response.
type VideoList struct {
	Results []Video `json:"results"`
}

// CastMember is a single cast credit.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is a single crew credit.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits wraps cast and crew arrays.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Page is the TMDb paginated response envelope.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasMore reports whether the provider has pages after this one.
func (p *Page[T]) HasMore() bool {
	return p.Page < p.TotalPages
}

// genreList wraps the genre list endpoint response.
type genreList struct {
	Genres []Genre `json:"genres"`
}

// TimeWindow selects the trending aggregation period.
type TimeWindow string

// Trending windows accepted by TMDb.
const (
	Day  TimeWindow = "day"
	Week TimeWindow = "week"
)

// APIError is a non-success response, carrying TMDb's status payload when present.
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       int    `json:"status_code"`
	Message    string `json:"status_message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb API error %d", e.HTTPStatus)
	}
	return fmt.Sprintf("tmdb API error %d: %s", e.HTTPStatus, e.Message)
}

// statusPayload is the error envelope TMDb returns on failures.
type statusPayload struct {
	Success       *bool  `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
