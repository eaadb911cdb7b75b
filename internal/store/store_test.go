package store_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/store"
)

func widget(id int) model.Product {
	p := model.NewProduct("Widget", "Tools", 9.99, 5)
	p.ID = id
	return p
}

func TestAdd_AssignsCounterIDs(t *testing.T) {
	s := store.New[model.Product](1000)

	id1, err := s.Add(model.NewProduct("A", "C", 1, 1))
	require.NoError(t, err)
	id2, err := s.Add(model.NewProduct("B", "C", 1, 1))
	require.NoError(t, err)

	assert.Equal(t, 1000, id1)
	assert.Equal(t, 1001, id2)
	got, ok := s.Find(id2)
	require.True(t, ok)
	assert.Equal(t, 1001, got.ID)
}

func TestAdd_DuplicateIDRejected(t *testing.T) {
	s := store.New[model.Product](1)

	_, err := s.Add(widget(5))
	require.NoError(t, err)

	other := widget(5)
	other.Name = "Gadget"
	_, err = s.Add(other)
	assert.ErrorIs(t, err, store.ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
	got, _ := s.Find(5)
	assert.Equal(t, "Widget", got.Name)
}

func TestAdd_ExplicitIDAdvancesCounter(t *testing.T) {
	s := store.New[model.Product](1)
	_, err := s.Add(widget(41))
	require.NoError(t, err)

	id, err := s.Add(model.NewProduct("Next", "C", 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestAdd_InvalidEntityLeavesStoreUnchanged(t *testing.T) {
	s := store.New[model.Product](1)
	_, err := s.Add(model.NewProduct("", "Tools", 1, 1))

	var ve *model.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s.NextID())
}

func TestRemove(t *testing.T) {
	s := store.New[model.Product](1)
	_, _ = s.Add(widget(1))
	_, _ = s.Add(widget(2))

	assert.False(t, s.Remove(99))
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Remove(1))
	_, ok := s.Find(1)
	assert.False(t, ok)
	assert.Equal(t, []int{2}, ids(s.All()))
}

func TestRemove_IDsNeverReused(t *testing.T) {
	s := store.New[model.Task](1)
	due := model.NewDate(2026, time.March, 1)
	id, _ := s.Add(model.NewTask("a", due, model.PriorityLow))
	s.Remove(id)

	next, err := s.Add(model.NewTask("b", due, model.PriorityLow))
	require.NoError(t, err)
	assert.NotEqual(t, id, next)
}

func TestUpdate_SentinelFieldsUnchanged(t *testing.T) {
	s := store.New[model.Product](1)
	_, err := s.Add(widget(5))
	require.NoError(t, err)
	before, _ := s.Find(5)

	price := 12.5
	require.NoError(t, s.Update(5, model.ProductPatch{Price: &price}))

	after, _ := s.Find(5)
	assert.Equal(t, 12.5, after.Price)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Category, after.Category)
	assert.Equal(t, before.Quantity, after.Quantity)
}

func TestUpdate_Errors(t *testing.T) {
	s := store.New[model.Product](1)
	_, _ = s.Add(widget(5))

	err := s.Update(6, model.ProductPatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)

	neg := -1
	err = s.Update(5, model.ProductPatch{Quantity: &neg})
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	got, _ := s.Find(5)
	assert.Equal(t, 5, got.Quantity)
}

func TestList_InsertionOrderAndFilter(t *testing.T) {
	s := store.New[model.Task](1)
	due := model.NewDate(2026, time.March, 1)
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityLow, model.PriorityHigh} {
		_, err := s.Add(model.NewTask("t", due, p))
		require.NoError(t, err)
	}
	require.NoError(t, s.Update(2, model.TaskPatch{Completed: ptr(true)}))

	assert.Equal(t, []int{1, 2, 3}, ids(s.All()))
	assert.Equal(t, []int{1, 3}, ids(s.List(model.TaskWithPriority(model.PriorityHigh))))
	assert.Equal(t, []int{2}, ids(s.List(model.TaskDone(true))))
}

func TestReplace_AdvancesCounterAndDropsDuplicates(t *testing.T) {
	s := store.New[model.Product](1000)
	skipped := s.Replace([]model.Product{widget(1003), widget(1001), widget(1003), widget(0), widget(-4)})

	require.Len(t, skipped, 3)
	assert.ErrorIs(t, skipped[0], store.ErrDuplicateID)
	assert.EqualError(t, skipped[0], "id 1003: duplicate id")
	for _, err := range skipped[1:] {
		assert.ErrorIs(t, err, store.ErrInvalidID)
		assert.NotErrorIs(t, err, store.ErrDuplicateID)
	}
	assert.EqualError(t, skipped[1], "id 0: invalid id")
	assert.Equal(t, []int{1003, 1001}, ids(s.All()))
	assert.Equal(t, 1004, s.NextID())
}

func TestReplace_EmptyKeepsStart(t *testing.T) {
	s := store.New[model.Product](1000)
	s.Replace(nil)
	assert.Equal(t, 1000, s.NextID())
}

func TestRandomOps_IDsStayUnique(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := store.New[model.Product](1)
	for i := 0; i < 500; i++ {
		switch r.Intn(3) {
		case 0:
			_, _ = s.Add(model.NewProduct("p", "c", 1, 1))
		case 1:
			_, _ = s.Add(widget(1 + r.Intn(40)))
		case 2:
			s.Remove(1 + r.Intn(40))
		}
		seen := map[int]bool{}
		for _, p := range s.All() {
			require.False(t, seen[p.ID], "id %d twice", p.ID)
			seen[p.ID] = true
		}
	}
}

func ids[T store.Entity[T]](es []T) []int {
	out := make([]int, 0, len(es))
	for _, e := range es {
		out = append(out, e.Key())
	}
	return out
}

func ptr[V any](v V) *V { return &v }
