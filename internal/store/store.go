// Package store holds entities in memory, in insertion order, keyed by an
// integer id handed out by a per-store counter.
//
// A Store is not safe for concurrent use; it is driven by one command loop.
package store

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID = errors.New("duplicate id")
	ErrNotFound    = errors.New("not found")
	ErrInvalidID   = errors.New("invalid id")
)

// Entity is a record the store can key, re-key and check.
type Entity[T any] interface {
	Key() int
	WithKey(id int) T
	Validate() error
}

// Patch changes some fields of an entity and keeps the rest.
type Patch[T any] interface {
	Apply(T) T
}

type Store[T Entity[T]] struct {
	order []int
	items map[int]T
	start int
	next  int
}

// New returns an empty store whose counter starts at start (1 if start < 1).
func New[T Entity[T]](start int) *Store[T] {
	if start < 1 {
		start = 1
	}
	return &Store[T]{items: make(map[int]T), start: start, next: start}
}

// Add inserts e. An entity without an id (0) gets the next counter value.
// The store is unchanged when an error is returned.
func (s *Store[T]) Add(e T) (int, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id := e.Key()
	switch {
	case id == 0:
		id = s.next
		e = e.WithKey(id)
	case id < 0:
		return 0, fmt.Errorf("add %d: %w", id, ErrInvalidID)
	}
	if _, ok := s.items[id]; ok {
		return 0, fmt.Errorf("add %d: %w", id, ErrDuplicateID)
	}
	s.items[id] = e
	s.order = append(s.order, id)
	if id >= s.next {
		s.next = id + 1
	}
	return id, nil
}

// Remove deletes the entity with the given id and reports whether one existed.
func (s *Store[T]) Remove(id int) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Update applies p to the entity with the given id. If the patched entity
// fails validation the stored one is left as it was.
func (s *Store[T]) Update(id int, p Patch[T]) error {
	cur, ok := s.items[id]
	if !ok {
		return fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	next := p.Apply(cur).WithKey(id)
	if err := next.Validate(); err != nil {
		return err
	}
	s.items[id] = next
	return nil
}

func (s *Store[T]) Find(id int) (T, bool) {
	e, ok := s.items[id]
	return e, ok
}

// List returns the entities matching keep, in insertion order. A nil keep matches all.
func (s *Store[T]) List(keep func(T) bool) []T {
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		e := s.items[id]
		if keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// All is List(nil).
func (s *Store[T]) All() []T { return s.List(nil) }

// Replace swaps the contents for entities, keeping the first entity seen for
// each id. Each dropped entity is reported with ErrDuplicateID or, for a
// non-positive id, ErrInvalidID. The counter only moves forward, so ids freed
// earlier in the run stay retired.
func (s *Store[T]) Replace(entities []T) (skipped []error) {
	s.items = make(map[int]T, len(entities))
	s.order = s.order[:0]
	for _, e := range entities {
		id := e.Key()
		if id <= 0 {
			skipped = append(skipped, fmt.Errorf("id %d: %w", id, ErrInvalidID))
			continue
		}
		if _, dup := s.items[id]; dup {
			skipped = append(skipped, fmt.Errorf("id %d: %w", id, ErrDuplicateID))
			continue
		}
		s.items[id] = e
		s.order = append(s.order, id)
		if id >= s.next {
			s.next = id + 1
		}
	}
	return skipped
}

func (s *Store[T]) Len() int { return len(s.order) }

// NextID is the id the next Add without an explicit id will receive.
func (s *Store[T]) NextID() int { return s.next }
