package catalog

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"movie:550", Key{Movie, 550}, false},
		{"tv:1396", Key{TV, 1396}, false},
		{"TV:1396", Key{TV, 1396}, false},
		{" 550 ", Key{Movie, 550}, false},
		{"person:1", Key{}, true},
		{"movie:abc", Key{}, true},
		{"movie:-3", Key{}, true},
		{"", Key{}, true},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ParseKey(%q): expected ErrInvalidKey, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKey(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if round, _ := ParseKey(got.String()); round != got {
			t.Errorf("round trip of %v gave %v", got, round)
		}
	}
}

func TestLinks(t *testing.T) {
	t.Parallel()
	if got := YouTubeEmbedURL("abc"); got != "https://www.youtube.com/embed/abc" {
		t.Errorf("unexpected embed URL %q", got)
	}
	if got := TMDBPageURL(Key{TV, 1396}); got != "https://www.themoviedb.org/tv/1396" {
		t.Errorf("unexpected page URL %q", got)
	}

	links := Share(Summary{ID: 27205, MediaType: Movie, Title: "Inception", Year: "2010"})
	tw, err := url.Parse(links.Twitter)
	if err != nil {
		t.Fatalf("parse twitter link: %v", err)
	}
	if tw.Query().Get("text") != "Inception (2010)" {
		t.Errorf("unexpected tweet text %q", tw.Query().Get("text"))
	}
	if tw.Query().Get("url") != "https://www.themoviedb.org/movie/27205" {
		t.Errorf("unexpected tweet url %q", tw.Query().Get("url"))
	}
	if !strings.HasPrefix(links.Facebook, "https://www.facebook.com/sharer/sharer.php?u=") {
		t.Errorf("unexpected facebook link %q", links.Facebook)
	}
	if !strings.HasPrefix(links.Email, "mailto:?") {
		t.Errorf("unexpected email link %q", links.Email)
	}
}

func TestSampleMovies(t *testing.T) {
	t.Parallel()
	items := SampleMovies(DefaultNormalizer())
	if len(items) != 6 {
		t.Fatalf("expected 6 sample movies, got %d", len(items))
	}
	for _, s := range items {
		if !s.HasPoster() || s.Year == "" || s.Rating == NotAvailable {
			t.Errorf("sample %q is incomplete: %+v", s.Title, s)
		}
	}
	if p := SamplePage(DefaultNormalizer()); p.HasMore {
		t.Error("sample page should be final")
	}
}

func TestParseMediaType(t *testing.T) {
	t.Parallel()
	tests := map[string]MediaType{"": Movie, "Movies": Movie, "tv": TV, " series ": TV}
	for in, want := range tests {
		got, err := ParseMediaType(in)
		if err != nil || got != want {
			t.Errorf("ParseMediaType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMediaType("person"); err == nil {
		t.Error("expected error for unknown media type")
	}
}
