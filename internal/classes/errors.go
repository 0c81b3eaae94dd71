package classes

import "fmt"

// UnknownClassError is returned when a class name has no registry entry.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string { return fmt.Sprintf("classes: unknown class %q", e.Class) }

// InvalidParamCountError is returned when fewer parameters were supplied
// than the class's registered minimum arity.
type InvalidParamCountError struct {
	Class    string
	Expected int
	Got      int
}

func (e *InvalidParamCountError) Error() string {
	return fmt.Sprintf("classes: %s: expected at least %d params, got %d", e.Class, e.Expected, e.Got)
}

// InvalidParamTypeError is returned when a parameter's value cannot be
// interpreted as the type the class expects at that position (e.g. a mirror
// axis index outside {0,1,2}).
type InvalidParamTypeError struct {
	Class    string
	Index    int
	Expected string
	Got      string
}

func (e *InvalidParamTypeError) Error() string {
	return fmt.Sprintf("classes: %s: param %d: expected %s, got %s", e.Class, e.Index, e.Expected, e.Got)
}
