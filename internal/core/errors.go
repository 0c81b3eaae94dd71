package core

import "fmt"

// FieldError is a generic validation-style error: an entity kind, its
// identifying name, the offending field, and a human message, following the
// teacher's ValidationError{Entity,Name,Field,Message} convention. The
// package-local error types elsewhere in the module are separate types and
// do not embed it.
type FieldError struct {
	Entity  string
	Name    string
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q: field %s: %s", e.Entity, e.Name, e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Entity, e.Name, e.Message)
}
