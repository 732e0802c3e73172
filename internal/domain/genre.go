package domain

// Genre is a genre catalog entry. Movies refer to genres by Name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (g Genre) EntityID() int { return g.ID }

func (g Genre) WithID(id int) Genre {
	g.ID = id
	return g
}

func (g Genre) Clone() Genre { return g }

// Catalog mirrors the backend wire format and the fixture file layout.
type Catalog struct {
	Movies []Movie `json:"movies"`
	Genres []Genre `json:"genres"`
	Actors []Actor `json:"actors"`
}
