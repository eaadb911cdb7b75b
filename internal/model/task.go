package model

import (
	"fmt"
	"strings"
)

// Task is the domain model for a to-do entry with a deadline.
type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	DueDate     Date     `json:"due_date" yaml:"due_date"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Completed   bool     `json:"completed" yaml:"completed"`
}

// NewTask returns a pending task without an id; the store assigns one on add.
func NewTask(description string, due Date, priority Priority) Task {
	return Task{
		Description: strings.TrimSpace(description),
		DueDate:     due,
		Priority:    priority,
	}
}

func (t Task) Key() int { return t.ID }

func (t Task) WithKey(id int) Task {
	t.ID = id
	return t
}

func (t Task) Validate() error {
	if err := text("description", t.Description); err != nil {
		return err
	}
	if t.DueDate.IsZero() {
		return invalid("due date", "missing")
	}
	if !t.Priority.Valid() {
		return invalid("priority", "%d out of range", int(t.Priority))
	}
	return nil
}

func (t Task) String() string {
	status := "◻ Pending"
	if t.Completed {
		status = "✓ Done"
	}
	return fmt.Sprintf("[%d] %s | Due: %s | Priority: %s | %s",
		t.ID, t.Description, t.DueDate, t.Priority, status)
}

// TaskPatch carries the fields an update should change. Nil fields are left alone.
type TaskPatch struct {
	Description *string
	DueDate     *Date
	Priority    *Priority
	Completed   *bool
}

func (p TaskPatch) Apply(t Task) Task {
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Empty reports whether the patch would change nothing.
func (p TaskPatch) Empty() bool {
	return p.Description == nil && p.DueDate == nil && p.Priority == nil && p.Completed == nil
}

// TaskDone matches tasks whose completion flag equals done.
func TaskDone(done bool) func(Task) bool {
	return func(t Task) bool { return t.Completed == done }
}

// TaskWithPriority matches tasks of priority p.
func TaskWithPriority(p Priority) func(Task) bool {
	return func(t Task) bool { return t.Priority == p }
}
