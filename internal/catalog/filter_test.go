package catalog

import (
	"testing"
	"time"
)

func TestDefaultFilters(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f := DefaultFilters(now)
	if f.YearFrom != 1900 || f.YearTo != 2026 || f.RatingFrom != 0 || f.RatingTo != 10 {
		t.Errorf("unexpected defaults %+v", f)
	}
	if f.GenreIDs == nil || len(f.GenreIDs) != 0 {
		t.Errorf("expected empty, non-nil genre set, got %#v", f.GenreIDs)
	}
	if !f.IsDefault(now) {
		t.Error("defaults should report IsDefault")
	}
	f.YearFrom = 2000
	if f.IsDefault(now) {
		t.Error("changed filters should not report IsDefault")
	}
}

func TestFilters_Clone(t *testing.T) {
	t.Parallel()
	f := Filters{GenreIDs: []int{28}}
	c := f.Clone()
	c.GenreIDs[0] = 99
	if f.GenreIDs[0] != 28 {
		t.Error("clone shares genre slice")
	}
}

func TestFilterPage(t *testing.T) {
	t.Parallel()
	items := []Summary{
		{ID: 1, Year: "1994", VoteAverage: 8.7, GenreIDs: []int{18, 80}},
		{ID: 2, Year: "2010", VoteAverage: 8.4, GenreIDs: []int{28, 878, 53}},
		{ID: 3, Year: "", VoteAverage: 6.0, GenreIDs: []int{28}},
		{ID: 4, Year: "2021", VoteAverage: 0, GenreIDs: []int{28, 878}},
		{ID: 5, Year: "1985", VoteAverage: 5.5, GenreIDs: []int{35}},
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		mod  func(*Filters)
		want []int
	}{
		{"defaults keep everything", func(*Filters) {}, []int{1, 2, 3, 4, 5}},
		{"year range", func(f *Filters) { f.YearFrom, f.YearTo = 1990, 2015 }, []int{1, 2, 3}},
		{"rating floor", func(f *Filters) { f.RatingFrom = 8 }, []int{1, 2, 4}},
		{"rating ceiling", func(f *Filters) { f.RatingTo = 6 }, []int{3, 4, 5}},
		{"zero rating range keeps unrated", func(f *Filters) { f.RatingFrom, f.RatingTo = 0, 0 }, []int{4}},
		{"single genre", func(f *Filters) { f.GenreIDs = []int{28} }, []int{2, 3, 4}},
		{"all genres required", func(f *Filters) { f.GenreIDs = []int{28, 878} }, []int{2, 4}},
		{"combined", func(f *Filters) {
			f.GenreIDs = []int{28}
			f.YearFrom = 2015
			f.RatingFrom = 7
		}, []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := DefaultFilters(now)
			tt.mod(&f)
			got := FilterPage(items, f)
			if len(got) != len(tt.want) {
				t.Fatalf("expected ids %v, got %d items", tt.want, len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}
