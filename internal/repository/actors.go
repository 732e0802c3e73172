package repository

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// ActorsRepository persists actor detail records.
type ActorsRepository struct {
	*pgTable[domain.Actor]
}

func newActorsRepository(pool *pgxpool.Pool) *ActorsRepository {
	return &ActorsRepository{&pgTable[domain.Actor]{
		pool:    pool,
		name:    "actors",
		columns: []string{"name", "birthdate", "height", "nationality", "notable_works"},
		scan:    scanActor,
		values:  actorValues,
	}}
}

func scanActor(row pgx.Row) (domain.Actor, error) {
	var a domain.Actor
	if err := row.Scan(&a.ID, &a.Name, &a.Birthdate, &a.Height, &a.Nationality, &a.NotableWorks); err != nil {
		return domain.Actor{}, err
	}
	return a, nil
}

func actorValues(a domain.Actor) ([]any, error) {
	return []any{a.Name, a.Birthdate, a.Height, a.Nationality, nonNilStrings(a.NotableWorks)}, nil
}
