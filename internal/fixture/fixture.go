// Package fixture reads, writes and validates catalog data files in the
// backend wire format {"movies": [...], "genres": [...], "actors": [...]}.
package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
)

// Load reads and decodes the catalog file at path.
func Load(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read fixture: %w", err)
	}
	catalog, err := Decode(data)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// Decode parses a catalog document. Missing collections decode as empty.
func Decode(data []byte) (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode fixture: %w", err)
	}
	if catalog.Movies == nil {
		catalog.Movies = []domain.Movie{}
	}
	if catalog.Genres == nil {
		catalog.Genres = []domain.Genre{}
	}
	if catalog.Actors == nil {
		catalog.Actors = []domain.Actor{}
	}
	return catalog, nil
}

// Encode renders the catalog as indented JSON with a trailing newline.
func Encode(catalog domain.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(catalog); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	return buf.Bytes(), nil
}

// Save rewrites the whole file at path. The document is written to a
// temporary file in the same directory and renamed over the target.
func Save(path string, catalog domain.Catalog) error {
	data, err := Encode(catalog)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save fixture: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save fixture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save fixture: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save fixture: %w", err)
	}
	return nil
}
