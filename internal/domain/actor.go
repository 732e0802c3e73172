package domain

// Actor is an actor detail record. Name is the de facto join key used by
// movie cast lists; NotableWorks holds movie titles, not ids.
type Actor struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Birthdate    string   `json:"birthdate"`
	Height       float64  `json:"height"`
	Nationality  string   `json:"nationality"`
	NotableWorks []string `json:"notable_works"`
}

// EntityID returns the actor identifier.
func (a Actor) EntityID() int { return a.ID }

// WithID returns a copy of the actor carrying id.
func (a Actor) WithID(id int) Actor {
	a.ID = id
	return a
}

// Clone returns a deep copy.
func (a Actor) Clone() Actor {
	a.NotableWorks = cloneStrings(a.NotableWorks)
	return a
}
