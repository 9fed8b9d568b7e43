package catalog

import (
	"context"
	"fmt"
	"time"
)

const newsDateLayout = "January 2, 2006"

// Article is a generated news card built from a movie.
type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Excerpt string `json:"excerpt"`
	Image   string `json:"image"`
}

var newsTemplates = []struct {
	title   string
	excerpt string
}{
	{
		title:   `"%s" Breaks Box Office Records`,
		excerpt: `The latest blockbuster "%s" has shattered opening weekend records worldwide with impressive numbers.`,
	},
	{
		title:   `Director Announces Sequel to "%s"`,
		excerpt: `Fans of "%s" will be excited to hear that a sequel has been confirmed and is in early development.`,
	},
	{
		title:   `"%s" Cast Reunites for Special Event`,
		excerpt: `The stars of "%s" are coming together for a special reunion event that fans won't want to miss.`,
	},
	{
		title:   `Streaming Platform Acquires Rights to "%s"`,
		excerpt: `A major streaming service has acquired exclusive streaming rights for the hit film "%s".`,
	},
}

// NewArticle builds the article for the index-th news slot. Templates rotate
// by index and each slot is dated three days before the previous one.
func NewArticle(s Summary, index int, now time.Time) Article {
	t := newsTemplates[index%len(newsTemplates)]
	return Article{
		ID:      "news-" + s.Key().String(),
		Title:   fmt.Sprintf(t.title, s.Title),
		Date:    now.AddDate(0, 0, -3*index).Format(newsDateLayout),
		Excerpt: fmt.Sprintf(t.excerpt, s.Title),
		Image:   s.PosterURL,
	}
}

// News builds one article per key that loads. Keys that fail are skipped, so
// the result may be shorter than keys; an empty result means the caller
// should fall back to FallbackNews.
func (s *Service) News(ctx context.Context, keys []Key, now time.Time) ([]Article, error) {
	details, err := s.fetchAll(ctx, keys)
	if err != nil {
		return nil, err
	}
	var out []Article
	for i, d := range details {
		if d == nil {
			continue
		}
		out = append(out, NewArticle(d.Summary, i, now))
	}
	return out, nil
}

// FallbackNews is shown when no article could be generated.
func FallbackNews() []Article {
	const image = "/placeholder.svg?height=300&width=500"
	return []Article{
		{
			ID:      "news1",
			Title:   "New Superhero Movie Breaks Box Office Records",
			Date:    "May 15, 2023",
			Excerpt: "The latest superhero blockbuster has shattered opening weekend records worldwide.",
			Image:   image,
		},
		{
			ID:      "news2",
			Title:   "Award-Winning Director Announces New Project",
			Date:    "May 12, 2023",
			Excerpt: "The acclaimed filmmaker has revealed details about an upcoming psychological thriller set to begin production next month.",
			Image:   image,
		},
		{
			ID:      "news3",
			Title:   "Classic Film Series Getting Modern Reboot",
			Date:    "May 10, 2023",
			Excerpt: "A beloved film franchise from the 90s is being reimagined for today's audiences with a star-studded cast.",
			Image:   image,
		},
		{
			ID:      "news4",
			Title:   "Streaming Platform Announces New Original Series",
			Date:    "May 8, 2023",
			Excerpt: "A major streaming service has greenlit an ambitious new sci-fi series from renowned showrunners.",
			Image:   image,
		},
	}
}
