package repository

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// MoviesRepository persists movies. Cast and oscars are stored as json so the
// oscars key order survives.
type MoviesRepository struct {
	*pgTable[domain.Movie]
}

func newMoviesRepository(pool *pgxpool.Pool) *MoviesRepository {
	return &MoviesRepository{&pgTable[domain.Movie]{
		pool:    pool,
		name:    "movies",
		columns: []string{"title", "year", "director", "genre", "plot", "cast_members", "oscars", "rating"},
		scan:    scanMovie,
		values:  movieValues,
	}}
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var (
		movie      domain.Movie
		castJSON   []byte
		oscarsJSON []byte
	)
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Year,
		&movie.Director,
		&movie.Genre,
		&movie.Plot,
		&castJSON,
		&oscarsJSON,
		&movie.Rating,
	)
	if err != nil {
		return domain.Movie{}, err
	}

	if len(castJSON) > 0 {
		if err := json.Unmarshal(castJSON, &movie.Cast); err != nil {
			return domain.Movie{}, fmt.Errorf("decode cast: %w", err)
		}
	}
	if len(oscarsJSON) > 0 {
		if err := json.Unmarshal(oscarsJSON, &movie.Oscars); err != nil {
			return domain.Movie{}, fmt.Errorf("decode oscars: %w", err)
		}
	}
	return movie, nil
}

func movieValues(m domain.Movie) ([]any, error) {
	cast := m.Cast
	if cast == nil {
		cast = []domain.CastMember{}
	}
	castJSON, err := json.Marshal(cast)
	if err != nil {
		return nil, fmt.Errorf("encode cast: %w", err)
	}
	oscarsJSON, err := json.Marshal(m.Oscars)
	if err != nil {
		return nil, fmt.Errorf("encode oscars: %w", err)
	}
	return []any{
		m.Title,
		m.Year,
		m.Director,
		nonNilStrings(m.Genre),
		m.Plot,
		string(castJSON),
		string(oscarsJSON),
		m.Rating,
	}, nil
}
