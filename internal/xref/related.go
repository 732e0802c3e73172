// Package xref resolves the by-value references between movies, actors and
// genres. Names and titles are joined by exact string equality; a reference
// with no target is reported as a gap, never as an error.
package xref

import (
	"slices"
	"strings"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// Related bundles the three "similar movies" lists of a movie details page.
type Related struct {
	ByGenre    []domain.Movie `json:"byGenre"`
	ByDirector []domain.Movie `json:"byDirector"`
	ByCast     []domain.Movie `json:"byCast"`
}

// RelatedTo computes all three lists for target. limit <= 0 keeps every match.
func RelatedTo(target domain.Movie, all []domain.Movie, limit int) Related {
	return Related{
		ByGenre:    truncate(ByGenre(target, all), limit),
		ByDirector: truncate(ByDirector(target, all), limit),
		ByCast:     truncate(ByCast(target, all), limit),
	}
}

// ByGenre returns the other movies sharing at least one genre name with target.
func ByGenre(target domain.Movie, all []domain.Movie) []domain.Movie {
	return others(target, all, func(m domain.Movie) bool {
		for _, g := range m.Genre {
			if target.HasGenre(g) {
				return true
			}
		}
		return false
	})
}

// ByDirector returns the other movies whose director string equals target's.
func ByDirector(target domain.Movie, all []domain.Movie) []domain.Movie {
	return others(target, all, func(m domain.Movie) bool {
		return m.Director == target.Director
	})
}

// ByCast returns the other movies sharing at least one cast actor name.
func ByCast(target domain.Movie, all []domain.Movie) []domain.Movie {
	names := make(map[string]struct{}, len(target.Cast))
	for _, c := range target.Cast {
		names[c.Actor] = struct{}{}
	}
	return others(target, all, func(m domain.Movie) bool {
		for _, c := range m.Cast {
			if _, ok := names[c.Actor]; ok {
				return true
			}
		}
		return false
	})
}

// others keeps the movies other than target matching keep, ordered by title.
func others(target domain.Movie, all []domain.Movie, keep func(domain.Movie) bool) []domain.Movie {
	out := make([]domain.Movie, 0)
	for _, m := range all {
		if m.ID == target.ID {
			continue
		}
		if keep(m) {
			out = append(out, m)
		}
	}
	sortByTitle(out)
	return out
}

func sortByTitle(movies []domain.Movie) {
	slices.SortStableFunc(movies, func(a, b domain.Movie) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
}

func truncate(movies []domain.Movie, limit int) []domain.Movie {
	if limit > 0 && len(movies) > limit {
		return movies[:limit]
	}
	return movies
}
