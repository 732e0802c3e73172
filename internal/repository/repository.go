package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates an entity with the same id already exists.
	ErrConflict = errors.New("repository: conflict")
)

// Entity is implemented by every catalog record.
type Entity[T any] interface {
	EntityID() int
	WithID(id int) T
	Clone() T
}

// Store is the gateway contract for one entity type. Create assigns the next
// free id (max+1) when the entity carries an id <= 0.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id int) error
}

// Repository aggregates the per-entity stores.
type Repository struct {
	Movies Store[domain.Movie]
	Actors Store[domain.Actor]
	Genres Store[domain.Genre]
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies: newMoviesRepository(pool),
		Actors: newActorsRepository(pool),
		Genres: newGenresRepository(pool),
	}
}

// NewMemory constructs an in-memory Repository seeded with catalog.
func NewMemory(catalog domain.Catalog) *Repository {
	return &Repository{
		Movies: NewMemoryStore(catalog.Movies),
		Actors: NewMemoryStore(catalog.Actors),
		Genres: NewMemoryStore(catalog.Genres),
	}
}

// Snapshot lists every collection into the wire-format catalog.
func (r *Repository) Snapshot(ctx context.Context) (domain.Catalog, error) {
	movies, err := r.Movies.List(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list movies: %w", err)
	}
	genres, err := r.Genres.List(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list genres: %w", err)
	}
	actors, err := r.Actors.List(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list actors: %w", err)
	}
	return domain.Catalog{Movies: movies, Genres: genres, Actors: actors}, nil
}

// Restore resets an in-memory Repository to catalog. It fails for other
// backends.
func (r *Repository) Restore(catalog domain.Catalog) error {
	movies, okMovies := r.Movies.(*MemoryStore[domain.Movie])
	actors, okActors := r.Actors.(*MemoryStore[domain.Actor])
	genres, okGenres := r.Genres.(*MemoryStore[domain.Genre])
	if !okMovies || !okActors || !okGenres {
		return errors.New("repository: restore needs in-memory stores")
	}
	movies.Reset(catalog.Movies)
	actors.Reset(catalog.Actors)
	genres.Reset(catalog.Genres)
	return nil
}
