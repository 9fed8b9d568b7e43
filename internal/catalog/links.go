package catalog

import (
	"fmt"
	"net/url"
)

// YouTubeWatchURL returns the watch page for a YouTube video key.
func YouTubeWatchURL(key string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
}

// YouTubeEmbedURL returns the embeddable player URL for a YouTube video key.
func YouTubeEmbedURL(key string) string {
	return "https://www.youtube.com/embed/" + url.PathEscape(key)
}

// TMDBPageURL returns the public TMDb page for an item.
func TMDBPageURL(k Key) string {
	return fmt.Sprintf("https://www.themoviedb.org/%s/%d", k.Type, k.ID)
}

// ShareLinks are outbound social-sharing URLs for one item.
type ShareLinks struct {
	Twitter  string `json:"twitter"`
	Facebook string `json:"facebook"`
	Email    string `json:"email"`
}

// Share builds sharing links pointing at the item's TMDb page.
func Share(s Summary) ShareLinks {
	page := TMDBPageURL(s.Key())
	text := s.Title
	if s.Year != "" {
		text = fmt.Sprintf("%s (%s)", s.Title, s.Year)
	}

	tw := url.Values{"text": {text}, "url": {page}}
	fb := url.Values{"u": {page}}
	mail := url.Values{"subject": {text}, "body": {page}}

	return ShareLinks{
		Twitter:  "https://twitter.com/intent/tweet?" + tw.Encode(),
		Facebook: "https://www.facebook.com/sharer/sharer.php?" + fb.Encode(),
		Email:    "mailto:?" + mail.Encode(),
	}
}
