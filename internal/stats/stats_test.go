package stats

import (
	"reflect"
	"testing"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

func TestComputeExample(t *testing.T) {
	movies := []domain.Movie{
		{ID: 1, Year: 1994, Genre: []string{"Drama"}, Oscars: domain.Oscars{{Type: "Best Picture", Recipient: "X"}}},
		{ID: 2, Year: 1995, Genre: []string{"Drama", "Comedy"}, Oscars: domain.Oscars{}},
	}

	r := Compute(movies, nil, nil)

	if r.TotalMovies != 2 || r.TotalOscars != 1 {
		t.Fatalf("totals = %d movies, %d oscars", r.TotalMovies, r.TotalOscars)
	}
	if got := r.OscarsByGenre.Map(); !reflect.DeepEqual(got, map[string]int{"Drama": 1}) {
		t.Fatalf("OscarsByGenre = %v", got)
	}
	if got := r.OscarsByGenre.Get("Comedy"); got != 0 {
		t.Fatalf("Comedy oscars = %d, want 0", got)
	}
	if got := r.MoviesByDecade; !reflect.DeepEqual(got, Counts{{Key: "1990s", Count: 2}}) {
		t.Fatalf("MoviesByDecade = %v", got)
	}
	if got := r.MoviesByGenre; !reflect.DeepEqual(got, Counts{{Key: "Drama", Count: 2}, {Key: "Comedy", Count: 1}}) {
		t.Fatalf("MoviesByGenre = %v", got)
	}
	if r.MoviesByGenre.Total() < r.TotalMovies {
		t.Fatalf("genre buckets %d < total movies %d", r.MoviesByGenre.Total(), r.TotalMovies)
	}
}

func TestOscarsByGenreAddsCountToEveryGenre(t *testing.T) {
	movies := []domain.Movie{{
		Year:   2000,
		Genre:  []string{"Action", "Drama", "History"},
		Oscars: domain.Oscars{{Type: "bestPicture"}, {Type: "bestActor"}},
	}}
	r := Compute(movies, nil, nil)
	want := Counts{{Key: "Action", Count: 2}, {Key: "Drama", Count: 2}, {Key: "History", Count: 2}}
	if !reflect.DeepEqual(r.OscarsByGenre, want) {
		t.Fatalf("OscarsByGenre = %v, want %v", r.OscarsByGenre, want)
	}
	if r.TotalOscars != 2 {
		t.Fatalf("TotalOscars = %d, want 2", r.TotalOscars)
	}
}

func TestRankedTiesKeepFirstEncounteredOrder(t *testing.T) {
	movies := []domain.Movie{
		{Year: 1972, Genre: []string{"Crime"}, Oscars: domain.Oscars{{Type: "bestPicture"}, {Type: "bestActor"}}},
		{Year: 1994, Genre: []string{"Drama"}, Oscars: domain.Oscars{{Type: "bestDirector"}, {Type: "bestActor"}}},
		{Year: 1994, Genre: []string{"Romance", "Drama"}, Oscars: domain.Oscars{{Type: "bestPicture"}}},
	}
	r := Compute(movies, nil, nil)

	wantTypes := Counts{{Key: "bestPicture", Count: 2}, {Key: "bestActor", Count: 2}, {Key: "bestDirector", Count: 1}}
	if !reflect.DeepEqual(r.OscarsByType, wantTypes) {
		t.Fatalf("OscarsByType = %v, want %v", r.OscarsByType, wantTypes)
	}
	wantGenres := Counts{{Key: "Drama", Count: 2}, {Key: "Crime", Count: 1}, {Key: "Romance", Count: 1}}
	if !reflect.DeepEqual(r.MoviesByGenre, wantGenres) {
		t.Fatalf("MoviesByGenre = %v, want %v", r.MoviesByGenre, wantGenres)
	}
	wantOscarGenres := Counts{{Key: "Drama", Count: 3}, {Key: "Crime", Count: 2}, {Key: "Romance", Count: 1}}
	if !reflect.DeepEqual(r.OscarsByGenre, wantOscarGenres) {
		t.Fatalf("OscarsByGenre = %v, want %v", r.OscarsByGenre, wantOscarGenres)
	}
}

func TestMoviesByDecadeAscending(t *testing.T) {
	movies := []domain.Movie{{Year: 2010}, {Year: 1972}, {Year: 1979}, {Year: 2019}, {Year: 1980}}
	r := Compute(movies, nil, nil)
	want := Counts{{Key: "1970s", Count: 2}, {Key: "1980s", Count: 1}, {Key: "2010s", Count: 2}}
	if !reflect.DeepEqual(r.MoviesByDecade, want) {
		t.Fatalf("MoviesByDecade = %v, want %v", r.MoviesByDecade, want)
	}
}

func TestDecade(t *testing.T) {
	tests := []struct {
		year, want int
	}{
		{1994, 1990},
		{1990, 1990},
		{0, 0},
		{9, 0},
		{-1, -10},
		{-10, -10},
		{-11, -20},
	}
	for _, tt := range tests {
		if got := Decade(tt.year); got != tt.want {
			t.Fatalf("Decade(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}

func TestActorsWithoutDetails(t *testing.T) {
	actors := []domain.Actor{{Name: "Tom Hanks"}}
	movies := []domain.Movie{
		{Cast: []domain.CastMember{{Actor: "Tom Hanks"}, {Actor: "Jane Doe"}}},
		{Cast: []domain.CastMember{{Actor: "Jane Doe"}, {Actor: "tom hanks"}}},
	}
	got := ActorsWithoutDetails(movies, actors)
	want := []string{"Jane Doe", "tom hanks"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ActorsWithoutDetails = %v, want %v", got, want)
	}
	if got := ActorsWithoutDetails(movies[:1], actors); !reflect.DeepEqual(got, []string{"Jane Doe"}) {
		t.Fatalf("single movie gaps = %v, want [Jane Doe]", got)
	}
}

func TestMoviesAndGenresWithoutDetails(t *testing.T) {
	movies := []domain.Movie{{Title: "Forrest Gump", Genre: []string{"Drama", "Romance"}}}
	actors := []domain.Actor{
		{Name: "Tom Hanks", NotableWorks: []string{"Forrest Gump", "Cast Away", "Big"}},
		{Name: "Meg Ryan", NotableWorks: []string{"Big", "Sleepless in Seattle"}},
	}
	genres := []domain.Genre{{ID: 1, Name: "Drama"}}

	r := Compute(movies, actors, genres)
	if want := []string{"Cast Away", "Big", "Sleepless in Seattle"}; !reflect.DeepEqual(r.MoviesWithoutDetails, want) {
		t.Fatalf("MoviesWithoutDetails = %v, want %v", r.MoviesWithoutDetails, want)
	}
	if want := []string{"Romance"}; !reflect.DeepEqual(r.GenresWithoutDetails, want) {
		t.Fatalf("GenresWithoutDetails = %v, want %v", r.GenresWithoutDetails, want)
	}
	// Genres missing from the catalog are still bucketed by name.
	if r.MoviesByGenre.Get("Romance") != 1 {
		t.Fatalf("Romance bucket = %d, want 1", r.MoviesByGenre.Get("Romance"))
	}
	if r.TotalActors != 2 || r.TotalGenres != 1 {
		t.Fatalf("totals = %d actors, %d genres", r.TotalActors, r.TotalGenres)
	}
}

func TestComputeEmpty(t *testing.T) {
	r := Compute(nil, nil, nil)
	if r.TotalMovies != 0 || r.TotalOscars != 0 {
		t.Fatalf("unexpected totals: %+v", r)
	}
	if r.OscarsByType == nil || r.MoviesByDecade == nil || r.ActorsWithoutDetails == nil {
		t.Fatalf("expected empty non-nil lists: %+v", r)
	}
}

func TestComputeIsOrderIndependentForCounts(t *testing.T) {
	movies := []domain.Movie{
		{Year: 1994, Genre: []string{"Drama"}, Oscars: domain.Oscars{{Type: "bestPicture"}}},
		{Year: 2003, Genre: []string{"Fantasy", "Drama"}, Oscars: domain.Oscars{{Type: "bestPicture"}, {Type: "bestDirector"}}},
		{Year: 1999, Genre: []string{"Sci-Fi"}},
	}
	reversed := []domain.Movie{movies[2], movies[1], movies[0]}

	a := Compute(movies, nil, nil)
	b := Compute(reversed, nil, nil)
	if !reflect.DeepEqual(a.MoviesByGenre.Map(), b.MoviesByGenre.Map()) ||
		!reflect.DeepEqual(a.OscarsByGenre.Map(), b.OscarsByGenre.Map()) ||
		!reflect.DeepEqual(a.OscarsByType.Map(), b.OscarsByType.Map()) ||
		!reflect.DeepEqual(a.MoviesByDecade, b.MoviesByDecade) {
		t.Fatalf("counts depend on input order:\n%+v\n%+v", a, b)
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	movies := []domain.Movie{
		{ID: 2, Year: 2001, Genre: []string{"B", "A"}, Oscars: domain.Oscars{{Type: "z"}, {Type: "a"}}},
		{ID: 1, Year: 1990, Genre: []string{"A"}},
	}
	_ = Compute(movies, nil, nil)
	if movies[0].ID != 2 || movies[0].Genre[0] != "B" || movies[0].Oscars[0].Type != "z" {
		t.Fatalf("input mutated: %+v", movies)
	}
}

func TestAwardLabel(t *testing.T) {
	tests := map[string]string{
		"bestPicture":           "Best Picture",
		"bestSupportingActor":   "Best Supporting Actor",
		"bestAdaptedScreenplay": "Best Adapted Screenplay",
		"Best Picture":          "Best Picture",
		"bestVisualEffects2":    "Best Visual Effects2",
		"bestFX":                "Best FX",
		"":                      "",
	}
	for in, want := range tests {
		if got := AwardLabel(in); got != want {
			t.Fatalf("AwardLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
