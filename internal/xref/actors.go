package xref

import "github.com/Clark-Hu/movies-catalog/internal/domain"

// ResolveActor returns the first actor whose name equals name exactly.
// ok is false when no record exists; callers treat that as a display gap.
func ResolveActor(name string, actors []domain.Actor) (actor domain.Actor, ok bool) {
	for _, a := range actors {
		if a.Name == name {
			return a, true
		}
	}
	return domain.Actor{}, false
}

// CharacterFor returns the character of the first cast entry for actorName,
// or "" when the actor is not in the cast.
func CharacterFor(movie domain.Movie, actorName string) string {
	if actorName == "" {
		return ""
	}
	for _, c := range movie.Cast {
		if c.Actor == actorName {
			return c.Character
		}
	}
	return ""
}

// CastEntry is a cast member with its actor record, if one exists.
type CastEntry struct {
	Actor     string        `json:"actor"`
	Character string        `json:"character"`
	Details   *domain.Actor `json:"details,omitempty"`
}

// Missing reports whether the actor has no detail record.
func (c CastEntry) Missing() bool { return c.Details == nil }

// ResolveCast pairs every cast member of movie with its actor record.
func ResolveCast(movie domain.Movie, actors []domain.Actor) []CastEntry {
	out := make([]CastEntry, 0, len(movie.Cast))
	for _, c := range movie.Cast {
		entry := CastEntry{Actor: c.Actor, Character: c.Character}
		if a, ok := ResolveActor(c.Actor, actors); ok {
			entry.Details = &a
		}
		out = append(out, entry)
	}
	return out
}

// Role is a movie an actor appears in, with the character played.
type Role struct {
	Movie     domain.Movie `json:"movie"`
	Character string       `json:"character"`
}

// Filmography lists the movies whose cast names actorName, ordered by title.
func Filmography(actorName string, all []domain.Movie) []Role {
	movies := make([]domain.Movie, 0)
	for _, m := range all {
		for _, c := range m.Cast {
			if c.Actor == actorName {
				movies = append(movies, m)
				break
			}
		}
	}
	sortByTitle(movies)

	roles := make([]Role, 0, len(movies))
	for _, m := range movies {
		roles = append(roles, Role{Movie: m, Character: CharacterFor(m, actorName)})
	}
	return roles
}

// NotableWork is one entry of an actor's notable_works resolved against the
// catalog by exact title.
//
// Several movies may share a title (remakes). Movie is then the first match
// in catalog order and Ambiguous is set; telling the movies apart is not
// possible from a title alone.
type NotableWork struct {
	Title     string        `json:"title"`
	Movie     *domain.Movie `json:"movie,omitempty"`
	Matches   int           `json:"matches"`
	Ambiguous bool          `json:"ambiguous"`
}

// Missing reports whether the title has no movie record.
func (w NotableWork) Missing() bool { return w.Movie == nil }

// NotableWorks resolves each of the actor's notable works, in listed order.
func NotableWorks(actor domain.Actor, all []domain.Movie) []NotableWork {
	out := make([]NotableWork, 0, len(actor.NotableWorks))
	for _, title := range actor.NotableWorks {
		work := NotableWork{Title: title}
		for i := range all {
			if all[i].Title != title {
				continue
			}
			if work.Movie == nil {
				m := all[i]
				work.Movie = &m
			}
			work.Matches++
		}
		work.Ambiguous = work.Matches > 1
		out = append(out, work)
	}
	return out
}
