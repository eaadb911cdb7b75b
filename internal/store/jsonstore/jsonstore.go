package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/idilsaglam/tally/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; fine for a local single-user CLI.

// File keeps entities as one indented JSON array.
type File[T store.Entity[T]] struct {
	path   string
	logger *slog.Logger
}

func New[T store.Entity[T]](path string, logger *slog.Logger) *File[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &File[T]{path: path, logger: logger}
}

func (f *File[T]) Path() string { return f.path }

// Load reads the array. A document that is not a JSON array is an error; an
// element that does not decode or validate is skipped with a warning.
func (f *File[T]) Load() (store.LoadResult[T], error) {
	var res store.LoadResult[T]
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, nil
		}
		return res, fmt.Errorf("read file: %w", err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return res, fmt.Errorf("json unmarshal: %w", err)
	}
	for i, r := range raw {
		var e T
		if err := json.Unmarshal(r, &e); err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("%s: element %d: %w", f.path, i, err))
			continue
		}
		if err := e.Validate(); err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("%s: element %d: %w", f.path, i, err))
			continue
		}
		res.Entities = append(res.Entities, e)
	}
	for _, w := range res.Warnings {
		f.logger.Warn("skipping malformed element", slog.Any("error", w))
	}
	return res, nil
}

func (f *File[T]) Save(entities []T) error {
	if entities == nil {
		entities = []T{}
	}
	b, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
