// Package view computes the filtered, ordered movie list shown by the
// catalog's list page. Everything here is a pure function of its inputs.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// Key names a sortable movie column.
type Key string

const (
	KeyID       Key = "id"
	KeyTitle    Key = "title"
	KeyYear     Key = "year"
	KeyDirector Key = "director"
	KeyGenre    Key = "genre"
	KeyOscars   Key = "oscars"
	KeyRating   Key = "rating"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter holds the optional list predicates. Zero values are inactive and
// active predicates are combined with AND.
type Filter struct {
	Title     string
	Year      *int
	Genre     string
	MinRating *float64
}

// Sort selects the ordering column and direction.
type Sort struct {
	Key       Key
	Direction Direction
}

// Toggle returns the sort that results from selecting key: the same key flips
// the direction, a different key starts ascending.
func (s Sort) Toggle(key Key) Sort {
	if s.Key == key {
		if s.Direction == Desc {
			return Sort{Key: key, Direction: Asc}
		}
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// ParseKey normalizes a column name. Unknown names are returned as-is and
// order by id when applied.
func ParseKey(raw string) Key {
	return Key(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseDirection accepts "asc", "desc" or empty (ascending).
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("invalid sort direction %q", raw)
	}
}

// Match reports whether m satisfies every active predicate.
func (f Filter) Match(m domain.Movie) bool {
	if f.Title != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Title)) {
		return false
	}
	if f.Year != nil && m.Year != *f.Year {
		return false
	}
	if f.Genre != "" && !m.HasGenre(f.Genre) {
		return false
	}
	if f.MinRating != nil && !(m.Rating >= *f.MinRating) {
		return false
	}
	return true
}

// Apply filters movies and orders the result. The input slice is not modified.
func Apply(movies []domain.Movie, f Filter, s Sort) []domain.Movie {
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if f.Match(m) {
			out = append(out, m)
		}
	}

	compare := Compare(s.Key)
	if s.Direction == Desc {
		slices.SortStableFunc(out, func(a, b domain.Movie) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// Compare returns the ascending comparison for key. Unknown keys compare by id.
func Compare(key Key) func(a, b domain.Movie) int {
	switch key {
	case KeyTitle:
		return func(a, b domain.Movie) int { return compareFold(a.Title, b.Title) }
	case KeyYear:
		return func(a, b domain.Movie) int { return cmp.Compare(a.Year, b.Year) }
	case KeyDirector:
		return func(a, b domain.Movie) int { return compareFold(a.Director, b.Director) }
	case KeyGenre:
		return func(a, b domain.Movie) int { return compareGenres(a.Genre, b.Genre) }
	case KeyOscars:
		return func(a, b domain.Movie) int { return cmp.Compare(a.Oscars.Len(), b.Oscars.Len()) }
	case KeyRating:
		return func(a, b domain.Movie) int { return cmp.Compare(a.Rating, b.Rating) }
	default:
		return func(a, b domain.Movie) int { return cmp.Compare(a.ID, b.ID) }
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareGenres orders by genre count, then by the alphabetically sorted
// lists element by element.
func compareGenres(a, b []string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Compare(as, bs)
}
