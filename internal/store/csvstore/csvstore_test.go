package csvstore

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tally/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestSave_WritesDocumentedLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	f := New[model.Task](path, TaskCodec{}, quietLogger())

	tasks := []model.Task{
		{ID: 1, Description: "Finish report", DueDate: model.NewDate(2026, time.March, 1), Priority: model.PriorityHigh, Completed: true},
		{ID: 2, Description: "Call Bob", DueDate: model.NewDate(2026, time.April, 9), Priority: model.PriorityLow},
	}
	require.NoError(t, f.Save(tasks))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Finish report,2026-03-01,HIGH,true\n2,Call Bob,2026-04-09,LOW,false\n", string(b))
}

func TestSave_ProductPriceKeepsFraction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.txt")
	f := New[model.Product](path, ProductCodec{}, quietLogger())

	require.NoError(t, f.Save([]model.Product{
		{ID: 1000, Name: "MacBook Pro", Category: "Electronics", Price: 199999, Quantity: 8},
		{ID: 1001, Name: "Widget", Category: "Tools", Price: 9.99, Quantity: 5},
	}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1000,MacBook Pro,Electronics,199999.0,8\n1001,Widget,Tools,9.99,5\n", string(b))
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	t.Run("tasks", func(t *testing.T) {
		f := New[model.Task](filepath.Join(dir, "tasks.txt"), TaskCodec{}, quietLogger())
		want := []model.Task{
			{ID: 3, Description: "Ship it", DueDate: model.NewDate(2025, time.December, 31), Priority: model.PriorityMedium},
			{ID: 1, Description: "Plan: phase 2 (draft)", DueDate: model.NewDate(2026, time.January, 5), Priority: model.PriorityHigh, Completed: true},
		}
		require.NoError(t, f.Save(want))
		got, err := f.Load()
		require.NoError(t, err)
		assert.Empty(t, got.Warnings)
		if diff := cmp.Diff(want, got.Entities); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("products", func(t *testing.T) {
		f := New[model.Product](filepath.Join(dir, "inventory.txt"), ProductCodec{}, quietLogger())
		want := []model.Product{
			{ID: 1, Name: "Widget", Category: "Tools", Price: 9.99, Quantity: 5},
			{ID: 1002, Name: "Desk Lamp", Category: "Furniture", Price: 0.1 + 0.2, Quantity: 0},
		}
		require.NoError(t, f.Save(want))
		got, err := f.Load()
		require.NoError(t, err)
		if diff := cmp.Diff(want, got.Entities); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSave_RefusesEmbeddedDelimiters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.txt")
	f := New[model.Product](path, ProductCodec{}, quietLogger())
	require.NoError(t, f.Save([]model.Product{{ID: 1, Name: "Old", Category: "C", Price: 1, Quantity: 1}}))

	for _, name := range []string{"Nuts, bolts", "two\nlines"} {
		err := f.Save([]model.Product{{ID: 1, Name: name, Category: "C", Price: 1, Quantity: 1}})
		assert.ErrorIs(t, err, ErrUnencodable)
	}

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Old,C,1.0,1\n", string(b), "a refused save must not touch the file")
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	f := New[model.Task](filepath.Join(t.TempDir(), "nope.txt"), TaskCodec{}, quietLogger())
	got, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, got.Entities)
	assert.Empty(t, got.Warnings)
}

func TestLoad_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	content := "1,Finish report,2026-03-01,HIGH,true\n" +
		"\n" +
		"2,Too,few\n" +
		"3,Bad date,2026-02-30,LOW,false\n" +
		"x,Bad id,2026-03-01,LOW,false\n" +
		"4,Bad prio,2026-03-01,URGENT,false\n" +
		"5,Bad bool,2026-03-01,LOW,maybe\n" +
		"6, ,2026-03-01,LOW,false\n" +
		"7,Call Bob,2026-04-09,low,FALSE\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var logs bytes.Buffer
	f := New[model.Task](path, TaskCodec{}, slog.New(slog.NewTextHandler(&logs, nil)))
	got, err := f.Load()
	require.NoError(t, err)

	require.Len(t, got.Entities, 2)
	assert.Equal(t, 1, got.Entities[0].ID)
	assert.Equal(t, 7, got.Entities[1].ID)
	assert.Equal(t, model.PriorityLow, got.Entities[1].Priority)

	require.Len(t, got.Warnings, 6)
	var pe *ParseError
	require.True(t, errors.As(got.Warnings[0], &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Contains(t, logs.String(), "skipping malformed line")
}

func TestLoad_OneBadLineAmongValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.txt")
	content := "1000,MacBook Pro,Electronics,199999.0,8\n" +
		"1001,Cotton T-Shirt,Clothing,799.0,50\n" +
		"1002,Denim Jeans,Clothing,abc,20\n" +
		"1003,Office Chair,Furniture,18500.0,7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := New[model.Product](path, ProductCodec{}, quietLogger()).Load()
	require.NoError(t, err)
	assert.Len(t, got.Entities, 3)
	assert.Len(t, got.Warnings, 1)
}

func TestLoad_UnreadablePathIsError(t *testing.T) {
	dir := t.TempDir()
	// A directory opens but cannot be read as a file.
	f := New[model.Task](dir, TaskCodec{}, quietLogger())
	_, err := f.Load()
	assert.Error(t, err)
}

func TestLoad_OverlongLineIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	content := "1,Finish report,2026-03-01,HIGH,true\n" +
		strings.Repeat("x", 2<<20) + "\n" +
		"3,Call Bob,2026-04-09,LOW,false"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := New[model.Task](path, TaskCodec{}, quietLogger()).Load()
	require.NoError(t, err)
	require.Len(t, got.Entities, 2)
	assert.Equal(t, 3, got.Entities[1].ID, "a final line without a newline is still read")

	require.Len(t, got.Warnings, 1)
	var pe *ParseError
	require.True(t, errors.As(got.Warnings[0], &pe))
	assert.Equal(t, 2, pe.Line)
	assert.ErrorIs(t, pe, errLineTooLong)
	assert.Less(t, len(pe.Text), 100)
}

func TestCheck_NamesTheColumn(t *testing.T) {
	f := New[model.Product](filepath.Join(t.TempDir(), "inventory.txt"), ProductCodec{}, quietLogger())

	assert.NoError(t, f.Check(model.NewProduct("Widget", "Tools", 9.99, 5)))

	err := f.Check(model.NewProduct("Widget", "Nuts, bolts", 9.99, 5))
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	assert.Equal(t, "category", ve.Field)

	tasks := New[model.Task](filepath.Join(t.TempDir(), "tasks.txt"), TaskCodec{}, quietLogger())
	err = tasks.Check(model.NewTask("Buy milk\r\neggs", model.NewDate(2026, time.March, 1), model.PriorityLow))
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "description", ve.Field)
}

func TestLoad_HandEditedSpacesAreTrimmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.txt")
	require.NoError(t, os.WriteFile(path, []byte("1000,  Widget , Tools,9.99, 5\n"), 0o644))
	f := New[model.Product](path, ProductCodec{}, quietLogger())

	got, err := f.Load()
	require.NoError(t, err)
	require.Len(t, got.Entities, 1)
	want := model.Product{ID: 1000, Name: "Widget", Category: "Tools", Price: 9.99, Quantity: 5}
	assert.Equal(t, want, got.Entities[0])

	// Untrimmed text never validates, so nothing that reaches Save can
	// read back different.
	assert.Error(t, model.Product{ID: 1000, Name: " Widget", Category: "Tools"}.Validate())

	require.NoError(t, f.Save(got.Entities))
	again, err := f.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(got.Entities, again.Entities); diff != "" {
		t.Errorf("reload mismatch (-first +second):\n%s", diff)
	}
}
