// Package manager ties a Store to its Persister and decides when to save.
package manager

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/idilsaglam/tally/internal/config"
	"github.com/idilsaglam/tally/internal/store"
)

// Policy says whether a successful mutation is written out immediately.
type Policy int

const (
	SaveManual Policy = iota
	SaveAuto
)

func (p Policy) String() string {
	if p == SaveAuto {
		return config.SaveAuto
	}
	return config.SaveManual
}

// ParsePolicy reads the config spelling of a policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case config.SaveAuto:
		return SaveAuto, nil
	case config.SaveManual:
		return SaveManual, nil
	}
	return SaveManual, fmt.Errorf("unknown save policy %q", s)
}

// SaveError is returned by a mutation that succeeded in memory but whose
// automatic save failed. The in-memory change is kept.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "autosave: " + e.Err.Error() }

func (e *SaveError) Unwrap() error { return e.Err }

// ErrLoadFailed is returned by Save while the last Load failed. Writing then
// would replace records that were never read.
var ErrLoadFailed = errors.New("the data file could not be loaded; not overwriting it")

type Manager[T store.Entity[T]] struct {
	store      *store.Store[T]
	persister  store.Persister[T]
	check      func(T) error
	policy     Policy
	logger     *slog.Logger
	dirty      bool
	loadFailed bool
}

// New wires s to p. If p is a store.Checker, entities are checked against it
// before Add and Update touch the store.
func New[T store.Entity[T]](s *store.Store[T], p store.Persister[T], policy Policy, logger *slog.Logger) *Manager[T] {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager[T]{store: s, persister: p, policy: policy, logger: logger}
	if c, ok := p.(store.Checker[T]); ok {
		m.check = c.Check
	}
	return m
}

// Load replaces the store with what the persister holds and returns the
// per-record warnings. On error the store is left as it was and Save refuses
// to write until a later Load succeeds or Overwrite is called.
func (m *Manager[T]) Load() ([]error, error) {
	res, err := m.persister.Load()
	if err != nil {
		m.loadFailed = true
		m.logger.Error("load failed", slog.Any("error", err))
		return nil, fmt.Errorf("load: %w", err)
	}
	m.loadFailed = false
	warnings := res.Warnings
	for _, w := range m.store.Replace(res.Entities) {
		m.logger.Warn("skipping record", slog.Any("error", w))
		warnings = append(warnings, w)
	}
	m.dirty = false
	m.logger.Info("loaded",
		slog.Int("count", m.store.Len()),
		slog.Int("skipped", len(warnings)),
		slog.Int("next_id", m.store.NextID()))
	return warnings, nil
}

// Save writes the whole store. A failed save leaves memory untouched and the
// manager dirty.
func (m *Manager[T]) Save() error {
	if m.loadFailed {
		m.logger.Warn("save refused", slog.Any("error", ErrLoadFailed))
		return fmt.Errorf("save: %w", ErrLoadFailed)
	}
	return m.Overwrite()
}

// Overwrite is Save without the load check. Front ends call it only after the
// user confirmed replacing a file that could not be read.
func (m *Manager[T]) Overwrite() error {
	if err := m.persister.Save(m.store.All()); err != nil {
		m.logger.Error("save failed", slog.Any("error", err))
		return fmt.Errorf("save: %w", err)
	}
	m.dirty = false
	m.loadFailed = false
	m.logger.Info("saved", slog.Int("count", m.store.Len()))
	return nil
}

func (m *Manager[T]) Add(e T) (int, error) {
	if err := m.admit(e); err != nil {
		return 0, err
	}
	id, err := m.store.Add(e)
	if err != nil {
		return 0, err
	}
	return id, m.changed()
}

// Remove reports whether the id existed.
func (m *Manager[T]) Remove(id int) (bool, error) {
	if !m.store.Remove(id) {
		return false, nil
	}
	return true, m.changed()
}

func (m *Manager[T]) Update(id int, p store.Patch[T]) error {
	if cur, ok := m.store.Find(id); ok {
		if err := m.admit(p.Apply(cur).WithKey(id)); err != nil {
			return err
		}
	}
	if err := m.store.Update(id, p); err != nil {
		return err
	}
	return m.changed()
}

// admit runs the entity's own validation, then the persister's check.
func (m *Manager[T]) admit(e T) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if m.check != nil {
		return m.check(e)
	}
	return nil
}

func (m *Manager[T]) changed() error {
	m.dirty = true
	if m.policy != SaveAuto {
		return nil
	}
	if err := m.Save(); err != nil {
		return &SaveError{Err: err}
	}
	return nil
}

func (m *Manager[T]) Find(id int) (T, bool) { return m.store.Find(id) }

func (m *Manager[T]) List(keep func(T) bool) []T { return m.store.List(keep) }

func (m *Manager[T]) Len() int { return m.store.Len() }

// Dirty reports changes not yet written by a successful Save.
func (m *Manager[T]) Dirty() bool { return m.dirty }

// LoadFailed reports that the last Load failed and nothing has been written since.
func (m *Manager[T]) LoadFailed() bool { return m.loadFailed }

func (m *Manager[T]) Policy() Policy { return m.policy }
