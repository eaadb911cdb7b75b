package model

import (
	"fmt"
	"strings"
)

// ValidationError reports a field value that an entity cannot hold.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// text checks a free-text field. Stored text is kept trimmed so that every
// backend reads back exactly what was written.
func text(field, v string) error {
	switch {
	case strings.TrimSpace(v) == "":
		return invalid(field, "cannot be empty")
	case strings.TrimSpace(v) != v:
		return invalid(field, "has leading or trailing spaces")
	}
	return nil
}
