package property

import "fmt"

// ReadOnlyError is returned by Set when the target property's state is
// StateReadOnly.
type ReadOnlyError struct {
	Property string
}

func (e *ReadOnlyError) Error() string { return fmt.Sprintf("property %q is read-only", e.Property) }

// InvalidValueError is returned by Set when the assigned value does not
// satisfy the property's declared type or bounds.
type InvalidValueError struct {
	Property string
	Message  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("property %q: invalid value: %s", e.Property, e.Message)
}

// ValidationFailedError is a general validation failure not covered by
// InvalidValueError, reserved for callers composing higher-level checks atop
// this package (e.g. cross-property consistency rules).
type ValidationFailedError struct {
	Property string
	Message  string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("property %q: validation failed: %s", e.Property, e.Message)
}
