package catalog

import "github.com/vadimtrunov/CineScope/internal/metadata/tmdb"

// DefaultFeatured is the hero rotation shown when no keys are configured.
var DefaultFeatured = []Key{
	{Movie, 27205},  // Inception
	{Movie, 157336}, // Interstellar
	{Movie, 155},    // The Dark Knight
	{Movie, 603},    // The Matrix
	{Movie, 13},     // Forrest Gump
	{Movie, 8587},   // The Lion King
	{Movie, 807},    // Se7en
	{Movie, 120},    // The Fellowship of the Ring
	{Movie, 122},    // The Return of the King
	{Movie, 1891},   // The Empire Strikes Back
}

// DefaultNews are the movies news articles are generated from.
var DefaultNews = []Key{
	{Movie, 872585}, // Oppenheimer
	{Movie, 346698}, // Barbie
	{Movie, 569094}, // Spider-Man: Across the Spider-Verse
	{Movie, 502356}, // The Super Mario Bros. Movie
}

var sampleMovies = []tmdb.Movie{
	{
		ID:           27205,
		Title:        "Inception",
		Overview:     "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
		PosterPath:   "/9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg",
		BackdropPath: "/s3TBrRGB1iav7gFOCNx3H31MoES.jpg",
		ReleaseDate:  "2010-07-16",
		VoteAverage:  8.4,
		GenreIDs:     []int{28, 878, 53},
	},
	{
		ID:           278,
		Title:        "The Shawshank Redemption",
		Overview:     "Framed in the 1940s for the double murder of his wife and her lover, upstanding banker Andy Dufresne begins a new life at the Shawshank prison, where he puts his accounting skills to work for an amoral warden.",
		PosterPath:   "/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg",
		BackdropPath: "/kXfqcdQKsToO0OUXHcrrNCHDBzO.jpg",
		ReleaseDate:  "1994-09-23",
		VoteAverage:  8.7,
		GenreIDs:     []int{18, 80},
	},
	{
		ID:           155,
		Title:        "The Dark Knight",
		Overview:     "Batman raises the stakes in his war on crime. With the help of Lt. Jim Gordon and District Attorney Harvey Dent, Batman sets out to dismantle the remaining criminal organizations that plague the streets.",
		PosterPath:   "/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
		BackdropPath: "/nMKdUUepR0i5zn0y1T4CsSB5chy.jpg",
		ReleaseDate:  "2008-07-16",
		VoteAverage:  8.5,
		GenreIDs:     []int{28, 80, 18},
	},
	{
		ID:           680,
		Title:        "Pulp Fiction",
		Overview:     "A burger-loving hit man, his philosophical partner, a drug-addled gangster's moll and a washed-up boxer converge in this sprawling, comedic crime caper.",
		PosterPath:   "/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg",
		BackdropPath: "/suaEOtk1N1sgg2MTM7oZd2cfVp3.jpg",
		ReleaseDate:  "1994-09-10",
		VoteAverage:  8.5,
		GenreIDs:     []int{53, 80},
	},
	{
		ID:           13,
		Title:        "Forrest Gump",
		Overview:     "A man with a low IQ has accomplished great things in his life and been present during significant historic events, in each case far exceeding what anyone imagined he could do.",
		PosterPath:   "/arw2vcBveWOVZr6pxd9XTd1TdQa.jpg",
		BackdropPath: "/3h1JZGDhZ8nzxdgvkxha0qBqi05.jpg",
		ReleaseDate:  "1994-06-23",
		VoteAverage:  8.5,
		GenreIDs:     []int{35, 18, 10749},
	},
	{
		ID:           603,
		Title:        "The Matrix",
		Overview:     "Set in the 22nd century, The Matrix tells the story of a computer hacker who joins a group of underground insurgents fighting the vast and powerful computers who now rule the earth.",
		PosterPath:   "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
		BackdropPath: "/fNG7i7RqMErkcqhohV2a6cV1Ehy.jpg",
		ReleaseDate:  "1999-03-30",
		VoteAverage:  8.2,
		GenreIDs:     []int{28, 878},
	},
}

// SampleMovies returns the static fallback catalog, normalized with n.
func SampleMovies(n Normalizer) []Summary {
	out := make([]Summary, 0, len(sampleMovies))
	for _, m := range sampleMovies {
		out = append(out, n.Summary(MovieRecord(m)))
	}
	return out
}

// SamplePage wraps SampleMovies as a single, final page.
func SamplePage(n Normalizer) *ListPage {
	items := SampleMovies(n)
	return &ListPage{Items: items, Page: 1, TotalPages: 1, TotalResults: len(items)}
}

// StaticGenres is the TMDb movie genre list, used when the provider's list
// cannot be fetched.
func StaticGenres() []Genre {
	return []Genre{
		{28, "Action"},
		{12, "Adventure"},
		{16, "Animation"},
		{35, "Comedy"},
		{80, "Crime"},
		{99, "Documentary"},
		{18, "Drama"},
		{10751, "Family"},
		{14, "Fantasy"},
		{36, "History"},
		{27, "Horror"},
		{10402, "Music"},
		{9648, "Mystery"},
		{10749, "Romance"},
		{878, "Science Fiction"},
		{10770, "TV Movie"},
		{53, "Thriller"},
		{10752, "War"},
		{37, "Western"},
	}
}
