// Package stats aggregates catalog-wide statistics over already-fetched
// movie, actor and genre collections.
package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// Count is one bucket of a ranked or bucketed statistic.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Counts is an ordered list of buckets.
type Counts []Count

// Map returns the buckets keyed by name.
func (c Counts) Map() map[string]int {
	out := make(map[string]int, len(c))
	for _, b := range c {
		out[b.Key] = b.Count
	}
	return out
}

// Get returns the count for key, or 0 if there is no such bucket.
func (c Counts) Get(key string) int {
	for _, b := range c {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Total sums every bucket.
func (c Counts) Total() int {
	total := 0
	for _, b := range c {
		total += b.Count
	}
	return total
}

// Report is the statistics page of the catalog.
type Report struct {
	TotalMovies int `json:"totalMovies"`
	TotalActors int `json:"totalActors"`
	TotalGenres int `json:"totalGenres"`
	TotalOscars int `json:"totalOscars"`

	OscarsByType   Counts `json:"oscarsByType"`
	OscarsByGenre  Counts `json:"oscarsByGenre"`
	MoviesByDecade Counts `json:"moviesByDecade"`
	MoviesByGenre  Counts `json:"moviesByGenre"`

	ActorsWithoutDetails []string `json:"actorsWithoutDetails"`
	MoviesWithoutDetails []string `json:"moviesWithoutDetails"`
	GenresWithoutDetails []string `json:"genresWithoutDetails"`
}

// Compute builds the report. The input slices are only read.
func Compute(movies []domain.Movie, actors []domain.Actor, genres []domain.Genre) Report {
	byType := newTally()
	byGenreOscars := newTally()
	byGenre := newTally()
	decades := make(map[int]int)
	totalOscars := 0

	for _, m := range movies {
		n := m.Oscars.Len()
		totalOscars += n
		for _, a := range m.Oscars {
			byType.add(a.Type, 1)
		}
		for _, g := range m.Genre {
			byGenre.add(g, 1)
			if n > 0 {
				byGenreOscars.add(g, n)
			}
		}
		decades[Decade(m.Year)]++
	}

	return Report{
		TotalMovies:          len(movies),
		TotalActors:          len(actors),
		TotalGenres:          len(genres),
		TotalOscars:          totalOscars,
		OscarsByType:         byType.ranked(),
		OscarsByGenre:        byGenreOscars.ranked(),
		MoviesByDecade:       decadeCounts(decades),
		MoviesByGenre:        byGenre.ranked(),
		ActorsWithoutDetails: ActorsWithoutDetails(movies, actors),
		MoviesWithoutDetails: MoviesWithoutDetails(movies, actors),
		GenresWithoutDetails: GenresWithoutDetails(movies, genres),
	}
}

// ActorsWithoutDetails lists the cast names with no matching actor record,
// distinct and in first-encountered order.
func ActorsWithoutDetails(movies []domain.Movie, actors []domain.Actor) []string {
	known := make(map[string]struct{}, len(actors))
	for _, a := range actors {
		known[a.Name] = struct{}{}
	}
	gaps := newGapList()
	for _, m := range movies {
		for _, c := range m.Cast {
			if _, ok := known[c.Actor]; !ok {
				gaps.add(c.Actor)
			}
		}
	}
	return gaps.names
}

// MoviesWithoutDetails lists the notable work titles with no matching movie
// record, distinct and in first-encountered order.
func MoviesWithoutDetails(movies []domain.Movie, actors []domain.Actor) []string {
	known := make(map[string]struct{}, len(movies))
	for _, m := range movies {
		known[m.Title] = struct{}{}
	}
	gaps := newGapList()
	for _, a := range actors {
		for _, title := range a.NotableWorks {
			if _, ok := known[title]; !ok {
				gaps.add(title)
			}
		}
	}
	return gaps.names
}

// GenresWithoutDetails lists the movie genre names with no matching genre
// record, distinct and in first-encountered order.
func GenresWithoutDetails(movies []domain.Movie, genres []domain.Genre) []string {
	known := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		known[g.Name] = struct{}{}
	}
	gaps := newGapList()
	for _, m := range movies {
		for _, g := range m.Genre {
			if _, ok := known[g]; !ok {
				gaps.add(g)
			}
		}
	}
	return gaps.names
}

// Decade returns the start year of the decade containing year, rounding
// toward negative infinity.
func Decade(year int) int {
	d := year / 10
	if year%10 < 0 {
		d--
	}
	return d * 10
}

// DecadeLabel formats a decade start year, e.g. 1990 -> "1990s".
func DecadeLabel(decade int) string {
	return fmt.Sprintf("%ds", decade)
}

func decadeCounts(decades map[int]int) Counts {
	keys := make([]int, 0, len(decades))
	for d := range decades {
		keys = append(keys, d)
	}
	slices.Sort(keys)
	out := make(Counts, 0, len(keys))
	for _, d := range keys {
		out = append(out, Count{Key: DecadeLabel(d), Count: decades[d]})
	}
	return out
}

// AwardLabel turns a camelCase award key into a display label:
// "bestSupportingActor" -> "Best Supporting Actor". Keys that already
// contain spaces only get their first letter upper-cased.
func AwardLabel(awardType string) string {
	runes := []rune(awardType)
	var b strings.Builder
	for i, r := range runes {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		prev := runes[i-1]
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tally counts keys while remembering the order they were first seen.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string, n int) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key] += n
}

// ranked orders the buckets by descending count; ties keep first-seen order.
func (t *tally) ranked() Counts {
	out := make(Counts, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, Count{Key: k, Count: t.counts[k]})
	}
	slices.SortStableFunc(out, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

type gapList struct {
	seen  map[string]struct{}
	names []string
}

func newGapList() *gapList {
	return &gapList{seen: make(map[string]struct{}), names: make([]string, 0)}
}

func (g *gapList) add(name string) {
	if _, ok := g.seen[name]; ok {
		return
	}
	g.seen[name] = struct{}{}
	g.names = append(g.names, name)
}
