package csvstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/store"
)

var (
	_ store.Persister[model.Task]    = (*File[model.Task])(nil)
	_ store.Persister[model.Product] = (*File[model.Product])(nil)
)

// TaskCodec lays a task out as id,description,dueDate,PRIORITY,completed.
//
//	1,Finish report,2026-03-01,HIGH,true
type TaskCodec struct{}

func (TaskCodec) Fields() []string {
	return []string{"id", "description", "due date", "priority", "completed"}
}

func (TaskCodec) Encode(t model.Task) []string {
	return []string{
		strconv.Itoa(t.ID),
		t.Description,
		t.DueDate.String(),
		t.Priority.String(),
		strconv.FormatBool(t.Completed),
	}
}

func (TaskCodec) Decode(f []string) (model.Task, error) {
	id, err := strconv.Atoi(f[0])
	if err != nil {
		return model.Task{}, fmt.Errorf("id: %w", err)
	}
	due, err := model.ParseDate(f[2])
	if err != nil {
		return model.Task{}, err
	}
	prio, err := model.ParsePriority(f[3])
	if err != nil {
		return model.Task{}, err
	}
	done, err := parseBool(f[4])
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{ID: id, Description: f[1], DueDate: due, Priority: prio, Completed: done}, nil
}

// ProductCodec lays a product out as id,name,category,price,quantity.
//
//	1000,MacBook Pro,Electronics,199999.0,8
type ProductCodec struct{}

func (ProductCodec) Fields() []string {
	return []string{"id", "name", "category", "price", "quantity"}
}

func (ProductCodec) Encode(p model.Product) []string {
	return []string{
		strconv.Itoa(p.ID),
		p.Name,
		p.Category,
		formatPrice(p.Price),
		strconv.Itoa(p.Quantity),
	}
}

func (ProductCodec) Decode(f []string) (model.Product, error) {
	id, err := strconv.Atoi(f[0])
	if err != nil {
		return model.Product{}, fmt.Errorf("id: %w", err)
	}
	price, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("price: %w", err)
	}
	qty, err := strconv.Atoi(f[4])
	if err != nil {
		return model.Product{}, fmt.Errorf("quantity: %w", err)
	}
	return model.Product{ID: id, Name: f[1], Category: f[2], Price: price, Quantity: qty}, nil
}

// formatPrice writes the shortest exact form, always with a fractional part.
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// parseBool only takes the literal words true and false, in any case.
func parseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("completed: want true or false, got %q", s)
}
