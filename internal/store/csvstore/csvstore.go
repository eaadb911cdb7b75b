// Package csvstore keeps entities in a flat text file, one entity per line,
// fields comma-separated in a fixed order.
//
// The format has no header, quoting or escaping. A value holding a comma or a
// line break cannot be written; Save refuses it with ErrUnencodable instead of
// producing a line that would read back differently.
package csvstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/store"
)

// Separator between fields on a line.
const Separator = ","

// MaxLineLength is the longest line Load decodes. Longer lines are skipped
// with a warning.
const MaxLineLength = 1 << 20

var (
	ErrUnencodable = errors.New("value contains a comma or line break")
	errLineTooLong = fmt.Errorf("line longer than %d bytes", MaxLineLength)
)

// Codec maps one entity to the positional fields of a line and back.
// Fields names the columns in order.
type Codec[T any] interface {
	Fields() []string
	Encode(T) []string
	Decode(fields []string) (T, error)
}

// ParseError describes a line that was skipped during Load.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v (line %q)", e.Path, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// File is a Persister backed by a single text file.
type File[T store.Entity[T]] struct {
	path   string
	codec  Codec[T]
	logger *slog.Logger
}

func New[T store.Entity[T]](path string, codec Codec[T], logger *slog.Logger) *File[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &File[T]{path: path, codec: codec, logger: logger}
}

func (f *File[T]) Path() string { return f.path }

// Check reports a value of e that Save could not write, as a
// *model.ValidationError naming the column.
func (f *File[T]) Check(e T) error {
	names := f.codec.Fields()
	for i, v := range f.codec.Encode(e) {
		if strings.ContainsAny(v, ",\r\n") {
			return &model.ValidationError{Field: names[i], Reason: "cannot contain a comma or line break"}
		}
	}
	return nil
}

// Save truncates the file and writes every entity on its own line.
// Nothing is written if any entity cannot be encoded.
func (f *File[T]) Save(entities []T) error {
	var b strings.Builder
	for _, e := range entities {
		if err := f.Check(e); err != nil {
			return fmt.Errorf("encode id %d: %w: %w", e.Key(), ErrUnencodable, err)
		}
		b.WriteString(strings.Join(f.codec.Encode(e), Separator))
		b.WriteByte('\n')
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create dirs: %w", err)
		}
	}
	if err := os.WriteFile(f.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	f.logger.Debug("saved entities", slog.String("path", f.path), slog.Int("count", len(entities)))
	return nil
}

// Load reads the file line by line. Lines that do not decode are skipped and
// reported as *ParseError warnings; blank lines are ignored.
func (f *File[T]) Load() (store.LoadResult[T], error) {
	var res store.LoadResult[T]
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("no data file yet, starting empty", slog.String("path", f.path))
			return res, nil
		}
		return res, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	res, err = f.read(fh)
	if err != nil {
		return store.LoadResult[T]{}, err
	}
	for _, w := range res.Warnings {
		f.logger.Warn("skipping malformed line", slog.Any("error", w))
	}
	f.logger.Debug("loaded entities",
		slog.String("path", f.path),
		slog.Int("count", len(res.Entities)),
		slog.Int("skipped", len(res.Warnings)))
	return res, nil
}

func (f *File[T]) read(r io.Reader) (store.LoadResult[T], error) {
	var res store.LoadResult[T]
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return res, fmt.Errorf("read file: %w", err)
		}
		if line != "" {
			f.decodeInto(&res, n, strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			return res, nil
		}
	}
}

func (f *File[T]) decodeInto(res *store.LoadResult[T], n int, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if len(line) > MaxLineLength {
		res.Warnings = append(res.Warnings, &ParseError{Path: f.path, Line: n, Text: line[:64] + "...", Err: errLineTooLong})
		return
	}
	e, err := f.decodeLine(line)
	if err != nil {
		res.Warnings = append(res.Warnings, &ParseError{Path: f.path, Line: n, Text: line, Err: err})
		return
	}
	res.Entities = append(res.Entities, e)
}

func (f *File[T]) decodeLine(line string) (T, error) {
	var zero T
	fields := strings.Split(line, Separator)
	if want := len(f.codec.Fields()); len(fields) != want {
		return zero, fmt.Errorf("want %d fields, got %d", want, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	e, err := f.codec.Decode(fields)
	if err != nil {
		return zero, err
	}
	if e.Key() <= 0 {
		return zero, fmt.Errorf("id must be positive, got %d", e.Key())
	}
	if err := e.Validate(); err != nil {
		return zero, err
	}
	return e, nil
}
