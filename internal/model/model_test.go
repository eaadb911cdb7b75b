package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"LOW", PriorityLow, false},
		{"medium", PriorityMedium, false},
		{"  High ", PriorityHigh, false},
		{"urgent", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_JSONUsesCalendarForm(t *testing.T) {
	d := NewDate(2026, time.March, 1)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
}

func TestParseDate_Rejects(t *testing.T) {
	for _, in := range []string{"2026-13-01", "01/03/2026", "", "tomorrow"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestTask_Validate(t *testing.T) {
	due := NewDate(2026, time.March, 1)
	tests := []struct {
		name  string
		task  Task
		field string
	}{
		{"ok", NewTask("Finish report", due, PriorityHigh), ""},
		{"blank description", NewTask("   ", due, PriorityHigh), "description"},
		{"missing due date", NewTask("x", Date{}, PriorityLow), "due date"},
		{"bad priority", NewTask("x", due, Priority(7)), "priority"},
		{"untrimmed description", Task{Description: " Finish report", DueDate: due}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestTaskPatch_OnlyTouchesSuppliedFields(t *testing.T) {
	orig := Task{ID: 3, Description: "Write tests", DueDate: NewDate(2026, 1, 2), Priority: PriorityLow}
	done := true
	got := TaskPatch{Completed: &done}.Apply(orig)

	want := orig
	want.Completed = true
	assert.Equal(t, want, got)
	assert.True(t, TaskPatch{}.Empty())
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		field   string
	}{
		{"ok", NewProduct("Widget", "Tools", 9.99, 5), ""},
		{"empty name", NewProduct("", "Tools", 1, 1), "name"},
		{"empty category", NewProduct("Widget", " ", 1, 1), "category"},
		{"negative price", NewProduct("Widget", "Tools", -1, 1), "price"},
		{"negative quantity", NewProduct("Widget", "Tools", 1, -3), "quantity"},
		{"untrimmed name", Product{Name: " Widget", Category: "Tools"}, "name"},
		{"untrimmed category", Product{Name: "Widget", Category: "Tools\t"}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestProduct_StockFlags(t *testing.T) {
	p := NewProduct("Lamp", "Furniture", 1299, 2)
	assert.True(t, p.LowStock(DefaultLowStockThreshold))
	assert.False(t, p.OutOfStock())
	assert.InDelta(t, 2598.0, p.Value(), 1e-9)

	p.Quantity = 0
	assert.False(t, p.LowStock(DefaultLowStockThreshold))
	assert.True(t, p.OutOfStock())
}

func TestAdjustQuantity(t *testing.T) {
	p := NewProduct("Keys", "Electronics", 8499, 3)

	patch, err := AdjustQuantity(p, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, patch.Apply(p).Quantity)

	_, err = AdjustQuantity(p, -4)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}
