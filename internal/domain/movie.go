package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CastMember pairs an actor name with the character they played. The actor
// name is free text and is not guaranteed to match any Actor record.
type CastMember struct {
	Actor     string `json:"actor"`
	Character string `json:"character"`
}

// Movie represents a catalog movie as exchanged with the backend.
type Movie struct {
	ID       int          `json:"id"`
	Title    string       `json:"title"`
	Year     int          `json:"year"`
	Director string       `json:"director"`
	Genre    []string     `json:"genre"`
	Plot     string       `json:"plot"`
	Cast     []CastMember `json:"cast"`
	Oscars   Oscars       `json:"oscars"`
	Rating   float64      `json:"rating"`
}

// EntityID returns the movie identifier.
func (m Movie) EntityID() int { return m.ID }

// WithID returns a copy of the movie carrying id.
func (m Movie) WithID(id int) Movie {
	m.ID = id
	return m
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (m Movie) Clone() Movie {
	m.Genre = cloneStrings(m.Genre)
	if m.Cast != nil {
		m.Cast = append([]CastMember(nil), m.Cast...)
	}
	if m.Oscars != nil {
		m.Oscars = append(Oscars(nil), m.Oscars...)
	}
	return m
}

// HasGenre reports whether name is one of the movie's genres (exact match).
func (m Movie) HasGenre(name string) bool {
	for _, g := range m.Genre {
		if g == name {
			return true
		}
	}
	return false
}

// KeepOrderOf returns m with its oscars rearranged so that award types also
// present in prev keep prev's order. Types new to m follow in their own order.
func (m Movie) KeepOrderOf(prev Movie) Movie {
	m.Oscars = m.Oscars.orderedLike(prev.Oscars)
	return m
}

// Award is a single oscars entry: award type and recipient.
type Award struct {
	Type      string
	Recipient string
}

// Oscars maps award type to recipient. It is kept as an ordered list so the
// key order read from JSON survives a round trip.
type Oscars []Award

// Len returns the number of distinct award types.
func (o Oscars) Len() int { return len(o) }

// Get returns the recipient of the given award type.
func (o Oscars) Get(awardType string) (string, bool) {
	for _, a := range o {
		if a.Type == awardType {
			return a.Recipient, true
		}
	}
	return "", false
}

// Types returns award types in stored order.
func (o Oscars) Types() []string {
	types := make([]string, 0, len(o))
	for _, a := range o {
		types = append(types, a.Type)
	}
	return types
}

func (o Oscars) orderedLike(prev Oscars) Oscars {
	if o == nil {
		return nil
	}
	out := make(Oscars, 0, len(o))
	taken := make(map[string]bool, len(o))
	for _, p := range prev {
		if r, ok := o.Get(p.Type); ok && !taken[p.Type] {
			out = append(out, Award{Type: p.Type, Recipient: r})
			taken[p.Type] = true
		}
	}
	for _, a := range o {
		if !taken[a.Type] {
			out = append(out, a)
			taken[a.Type] = true
		}
	}
	return out
}

// MarshalJSON encodes the awards as a JSON object in stored order.
func (o Oscars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Type)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Recipient)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order. A repeated key
// keeps its first position and its last value. null and any other non-object
// value, such as an array, decode to no awards.
func (o *Oscars) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("oscars: %w", err)
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		*o = Oscars{}
		return nil
	}

	awards := Oscars{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("oscars: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("oscars: %w", err)
		}
		recipient := recipientText(raw)

		if i, seen := index[key]; seen {
			awards[i].Recipient = recipient
			continue
		}
		index[key] = len(awards)
		awards = append(awards, Award{Type: key, Recipient: recipient})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("oscars: %w", err)
	}
	*o = awards
	return nil
}

// recipientText accepts non-string recipients and keeps their JSON text.
func recipientText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
