package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps entities in a slice in insertion order. Values are cloned
// on the way in and out so callers never share slices with the store.
type MemoryStore[T Entity[T]] struct {
	mu    sync.RWMutex
	items []T
}

// NewMemoryStore seeds a store with items.
func NewMemoryStore[T Entity[T]](items []T) *MemoryStore[T] {
	s := &MemoryStore[T]{items: make([]T, 0, len(items))}
	for _, it := range items {
		s.items = append(s.items, it.Clone())
	}
	return s
}

// Reset replaces the stored entities with items.
func (s *MemoryStore[T]) Reset(items []T) {
	fresh := make([]T, 0, len(items))
	for _, it := range items {
		fresh = append(fresh, it.Clone())
	}
	s.mu.Lock()
	s.items = fresh
	s.mu.Unlock()
}

// List returns every entity.
func (s *MemoryStore[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Clone())
	}
	return out, nil
}

// Get returns the entity with id or ErrNotFound.
func (s *MemoryStore[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Clone(), nil
	}
	return zero, ErrNotFound
}

// Create stores entity, assigning max+1 when its id is not positive.
func (s *MemoryStore[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.EntityID()
	if id <= 0 {
		id = s.maxID() + 1
	} else if s.indexOf(id) >= 0 {
		return zero, ErrConflict
	}
	stored := entity.WithID(id).Clone()
	s.items = append(s.items, stored)
	return stored.Clone(), nil
}

// Update replaces the entity carrying the same id.
func (s *MemoryStore[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(entity.EntityID())
	if i < 0 {
		return zero, ErrNotFound
	}
	s.items[i] = entity.Clone()
	return entity.Clone(), nil
}

// Delete removes the entity with id.
func (s *MemoryStore[T]) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *MemoryStore[T]) indexOf(id int) int {
	for i, it := range s.items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore[T]) maxID() int {
	highest := 0
	for _, it := range s.items {
		if it.EntityID() > highest {
			highest = it.EntityID()
		}
	}
	return highest
}
