package fixture

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when the document is not a catalog object at all.
var ErrMalformed = errors.New("fixture: malformed document")

// Result is the outcome of one shape check.
type Result struct {
	Section string `json:"section"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// CheckReport lists the collection sizes and every check in run order.
type CheckReport struct {
	Movies  int      `json:"movies"`
	Genres  int      `json:"genres"`
	Actors  int      `json:"actors"`
	Results []Result `json:"results"`
}

// Passed reports whether every check succeeded.
func (r CheckReport) Passed() bool {
	for _, res := range r.Results {
		if !res.OK {
			return false
		}
	}
	return true
}

// Failed returns the failing checks.
func (r CheckReport) Failed() []Result {
	out := make([]Result, 0)
	for _, res := range r.Results {
		if !res.OK {
			out = append(out, res)
		}
	}
	return out
}

type checker struct {
	section string
	results []Result
}

func (c *checker) validate(ok bool, good, bad string) {
	msg := bad
	if ok {
		msg = good
	}
	c.results = append(c.results, Result{Section: c.section, OK: ok, Message: msg})
}

// Check validates the raw shape of a catalog document. It works on the JSON
// text rather than decoded structs so that wrong types (a string year, an
// array for oscars) are reported instead of failing the decode.
func Check(data []byte) (CheckReport, error) {
	if !gjson.ValidBytes(data) {
		return CheckReport{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return CheckReport{}, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	collections := make(map[string][]gjson.Result, 3)
	for _, name := range []string{"movies", "genres", "actors"} {
		field := root.Get(name)
		if field.Exists() && !field.IsArray() {
			return CheckReport{}, fmt.Errorf("%w: %q is not an array", ErrMalformed, name)
		}
		collections[name] = field.Array()
	}
	movies, genres, actors := collections["movies"], collections["genres"], collections["actors"]

	c := &checker{}

	c.section = "genres"
	c.validate(uniqueIDs(genres), "genre ids are present and unique", "genre ids are not unique or are missing")
	c.validate(every(genres, func(g gjson.Result) bool { return truthy(g.Get("name")) }),
		"All genres have a name", "Some genres are missing a name")

	c.section = "actors"
	c.validate(uniqueIDs(actors), "actor ids are present and unique", "actor ids are not unique or are missing")
	c.validate(every(actors, func(a gjson.Result) bool { return truthy(a.Get("name")) }),
		"All actors have a name", "Some actors are missing a name")

	c.section = "movies"
	genreNames := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		if name := g.Get("name"); name.Type == gjson.String {
			genreNames[name.Str] = struct{}{}
		}
	}

	c.validate(uniqueIDs(movies), "movie ids are present and unique", "movie ids are not unique or are missing")
	c.validate(every(movies, func(m gjson.Result) bool { return truthy(m.Get("id")) }),
		"All movies have an id", "Some movies are missing an id")
	c.validate(every(movies, func(m gjson.Result) bool { return truthy(m.Get("title")) }),
		"All movies have a title", "Some movies are missing a title")
	c.validate(every(movies, func(m gjson.Result) bool {
		genre := m.Get("genre")
		if !genre.IsArray() {
			return false
		}
		return every(genre.Array(), func(g gjson.Result) bool {
			_, ok := genreNames[g.String()]
			return g.Type == gjson.String && ok
		})
	}), "All movies have a valid genre field", "Some movies have invalid genre field")
	c.validate(every(movies, func(m gjson.Result) bool {
		cast := m.Get("cast")
		if !cast.IsArray() {
			// reported by the array check below
			return true
		}
		return every(cast.Array(), func(entry gjson.Result) bool {
			return truthy(entry.Get("actor")) && truthy(entry.Get("character"))
		})
	}), "All movies have a valid cast field", "Some movies have invalid cast field")
	c.validate(every(movies, func(m gjson.Result) bool { return m.Get("cast").IsArray() }),
		"All movies have a valid cast field", "Some movies have invalid cast field")
	c.validate(every(movies, func(m gjson.Result) bool {
		oscars := m.Get("oscars")
		return oscars.IsObject() || oscars.Type == gjson.Null && oscars.Exists()
	}), "All movies have a valid oscars field", "Some movies have invalid oscars field")
	c.validate(every(movies, func(m gjson.Result) bool {
		rating := m.Get("rating")
		return rating.Type == gjson.Number && rating.Num >= 0 && rating.Num <= 10
	}), "All movies have a valid rating field", "Some movies have invalid rating field")
	c.validate(every(movies, func(m gjson.Result) bool { return m.Get("year").Type == gjson.Number }),
		"All movies have a valid year field", "Some movies have invalid year field")
	c.validate(every(movies, func(m gjson.Result) bool { return m.Get("director").Type == gjson.String }),
		"All movies have a valid director field", "Some movies have invalid director field")
	c.validate(every(movies, func(m gjson.Result) bool { return m.Get("plot").Type == gjson.String }),
		"All movies have a valid plot field", "Some movies have invalid plot field")

	return CheckReport{
		Movies:  len(movies),
		Genres:  len(genres),
		Actors:  len(actors),
		Results: c.results,
	}, nil
}

func every(items []gjson.Result, pred func(gjson.Result) bool) bool {
	for _, it := range items {
		if !pred(it) {
			return false
		}
	}
	return true
}

// uniqueIDs reports whether every item has a non-empty id and no two ids are
// equal. Numbers and strings never compare equal to each other.
func uniqueIDs(items []gjson.Result) bool {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		id := it.Get("id")
		if !truthy(id) {
			return false
		}
		key := fmt.Sprintf("%d:%s", id.Type, id.String())
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// truthy treats missing, null, false, 0 and "" as absent.
func truthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return true
	}
}
