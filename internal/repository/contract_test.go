package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

func sampleMovie(title string) domain.Movie {
	return domain.Movie{
		Title:    title,
		Year:     1994,
		Director: "Robert Zemeckis",
		Genre:    []string{"Drama", "Romance"},
		Plot:     "Life is like a box of chocolates.",
		Cast: []domain.CastMember{
			{Actor: "Tom Hanks", Character: "Forrest Gump"},
			{Actor: "Robin Wright", Character: "Jenny Curran"},
		},
		Oscars: domain.Oscars{
			{Type: "bestPicture", Recipient: "Wendy Finerman"},
			{Type: "bestActor", Recipient: "Tom Hanks"},
			{Type: "bestDirector", Recipient: "Robert Zemeckis"},
		},
		Rating: 8.8,
	}
}

// runMovieStoreContract exercises the behaviour every movie Store backend
// must share. st must start empty.
func runMovieStoreContract(t *testing.T, st Store[domain.Movie]) {
	t.Helper()
	ctx := context.Background()

	first, err := st.Create(ctx, sampleMovie("Forrest Gump"))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("first id = %d, want 1", first.ID)
	}

	explicit := sampleMovie("Cast Away")
	explicit.ID = 10
	if _, err := st.Create(ctx, explicit); err != nil {
		t.Fatalf("create explicit id: %v", err)
	}
	if _, err := st.Create(ctx, explicit); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate id err = %v, want ErrConflict", err)
	}

	next, err := st.Create(ctx, sampleMovie("Apollo 13"))
	if err != nil {
		t.Fatalf("create next: %v", err)
	}
	if next.ID != 11 {
		t.Fatalf("next id = %d, want max+1 = 11", next.ID)
	}

	got, err := st.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Forrest Gump" || len(got.Cast) != 2 || got.Rating != 8.8 {
		t.Fatalf("get returned %+v", got)
	}
	if types := got.Oscars.Types(); len(types) != 3 || types[0] != "bestPicture" || types[2] != "bestDirector" {
		t.Fatalf("oscars order lost: %v", types)
	}

	if _, err := st.Get(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing err = %v, want ErrNotFound", err)
	}

	got.Rating = 9.1
	got.Genre = []string{"Drama"}
	updated, err := st.Update(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rating != 9.1 || len(updated.Genre) != 1 {
		t.Fatalf("update returned %+v", updated)
	}
	if _, err := st.Update(ctx, sampleMovie("Ghost").WithID(999)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing err = %v, want ErrNotFound", err)
	}

	all, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list len = %d, want 3", len(all))
	}

	if err := st.Delete(ctx, explicit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.Delete(ctx, explicit.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := st.Get(ctx, explicit.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted err = %v, want ErrNotFound", err)
	}
}

func runActorStoreContract(t *testing.T, st Store[domain.Actor]) {
	t.Helper()
	ctx := context.Background()

	created, err := st.Create(ctx, domain.Actor{
		Name:         "Tom Hanks",
		Birthdate:    "July 9, 1956",
		Height:       183,
		Nationality:  "American",
		NotableWorks: []string{"Forrest Gump", "Cast Away"},
	})
	if err != nil {
		t.Fatalf("create actor: %v", err)
	}
	got, err := st.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get actor: %v", err)
	}
	if got.Name != "Tom Hanks" || got.Height != 183 || len(got.NotableWorks) != 2 {
		t.Fatalf("get actor returned %+v", got)
	}

	bare, err := st.Create(ctx, domain.Actor{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("create bare actor: %v", err)
	}
	if bare.ID != created.ID+1 {
		t.Fatalf("bare id = %d, want %d", bare.ID, created.ID+1)
	}
}

func runGenreStoreContract(t *testing.T, st Store[domain.Genre]) {
	t.Helper()
	ctx := context.Background()

	for _, name := range []string{"Drama", "Comedy"} {
		if _, err := st.Create(ctx, domain.Genre{Name: name}); err != nil {
			t.Fatalf("create genre %s: %v", name, err)
		}
	}
	all, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list genres: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Drama" || all[1].ID != 2 {
		t.Fatalf("genres = %+v", all)
	}
}
