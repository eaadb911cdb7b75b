// Package sqlitestore snapshots a store into one SQLite table, one row per
// entity with the entity as a JSON payload.
//
// Save replaces the whole snapshot inside a transaction, so a failed save
// leaves the previous snapshot in place.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/idilsaglam/tally/internal/store"
)

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// DB is a Persister over one table of a SQLite database file.
type DB[T store.Entity[T]] struct {
	db     *sql.DB
	table  string
	path   string
	logger *slog.Logger
}

// Open creates the database file and table if needed. Several DB values may
// share a file as long as their tables differ.
func Open[T store.Entity[T]](path, table string, logger *slog.Logger) (*DB[T], error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("open sqlite: bad table name %q", table)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + table + ` (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s table: %w", table, err)
	}
	return &DB[T]{db: db, table: table, path: path, logger: logger}, nil
}

func (d *DB[T]) Path() string { return d.path }

func (d *DB[T]) Close() error { return d.db.Close() }

func (d *DB[T]) Load() (store.LoadResult[T], error) {
	var res store.LoadResult[T]
	rows, err := d.db.Query(`SELECT id, payload FROM ` + d.table + ` ORDER BY position`)
	if err != nil {
		return res, fmt.Errorf("Load: Query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id      int
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return store.LoadResult[T]{}, fmt.Errorf("Load: Scan: %w", err)
		}
		var e T
		if err := json.Unmarshal(payload, &e); err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("%s row %d: %w", d.table, id, err))
			continue
		}
		if e.Key() != id {
			res.Warnings = append(res.Warnings, fmt.Errorf("%s row %d: payload carries id %d", d.table, id, e.Key()))
			continue
		}
		if err := e.Validate(); err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("%s row %d: %w", d.table, id, err))
			continue
		}
		res.Entities = append(res.Entities, e)
	}
	if err := rows.Err(); err != nil {
		return store.LoadResult[T]{}, fmt.Errorf("Load: rows.Err: %w", err)
	}
	for _, w := range res.Warnings {
		d.logger.Warn("skipping malformed row", slog.Any("error", w))
	}
	return res, nil
}

func (d *DB[T]) Save(entities []T) (retErr error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("Save: Begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.Exec(`DELETE FROM ` + d.table); err != nil {
		return fmt.Errorf("Save: clear %s: %w", d.table, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO ` + d.table + ` (id, position, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("Save: Prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for i, e := range entities {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("Save: encode id %d: %w", e.Key(), err)
		}
		if _, err := stmt.Exec(e.Key(), i, payload); err != nil {
			return fmt.Errorf("Save: insert id %d: %w", e.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Save: Commit: %w", err)
	}
	return nil
}
