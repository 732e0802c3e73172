package repository

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// GenresRepository persists the genre catalog.
type GenresRepository struct {
	*pgTable[domain.Genre]
}

func newGenresRepository(pool *pgxpool.Pool) *GenresRepository {
	return &GenresRepository{&pgTable[domain.Genre]{
		pool:    pool,
		name:    "genres",
		columns: []string{"name"},
		scan: func(row pgx.Row) (domain.Genre, error) {
			var g domain.Genre
			err := row.Scan(&g.ID, &g.Name)
			return g, err
		},
		values: func(g domain.Genre) ([]any, error) {
			return []any{g.Name}, nil
		},
	}}
}
