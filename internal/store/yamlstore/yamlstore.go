// Package yamlstore keeps entities as a YAML sequence in a single file.
package yamlstore

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/tally/internal/store"
)

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

// Load decodes the sequence element by element so one bad entry does not
// hide the rest. An empty file is an empty store.
func (f *File[T]) Load() (store.LoadResult[T], error) {
	var res store.LoadResult[T]
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, nil
		}
		return res, fmt.Errorf("read file: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return res, nil
	}
	var nodes []yaml.Node
	if err := yaml.Unmarshal(b, &nodes); err != nil {
		return res, fmt.Errorf("yaml unmarshal: %w", err)
	}
	for _, n := range nodes {
		var e T
		if err := n.Decode(&e); err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("%s:%d: %w", f.path, n.Line, err))
			continue
		}
		if err := e.Validate(); err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("%s:%d: %w", f.path, n.Line, err))
			continue
		}
		res.Entities = append(res.Entities, e)
	}
	for _, w := range res.Warnings {
		f.logger.Warn("skipping malformed entry", slog.Any("error", w))
	}
	return res, nil
}

func (f *File[T]) Save(entities []T) error {
	if entities == nil {
		entities = []T{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(entities); err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	if err := os.WriteFile(f.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
