package omdb

import "fmt"

// NotAvailable is OMDb's sentinel for an absent field.
const NotAvailable = "N/A"

// Movie is a full OMDb title record. Every field is string-typed by the
// provider; absent values are "N/A".
type Movie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	Metascore  string `json:"Metascore"`
	IMDbRating string `json:"imdbRating"`
	IMDbVotes  string `json:"imdbVotes"`
	IMDbID     string `json:"imdbID"`
	Type       string `json:"Type"`
}

// envelope carries OMDb's in-band success flag.
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// APIError is a failed OMDb lookup, either by HTTP status or by a
// Response:"False" payload.
type APIError struct {
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("omdb API error %d", e.HTTPStatus)
	}
	return fmt.Sprintf("omdb API error %d: %s", e.HTTPStatus, e.Message)
}
