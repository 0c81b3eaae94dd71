package price

import "errors"

// ErrNoPrice is returned when no candidate file yields a price across all
// three passes. This is a normal, recoverable result, not an error in the
// usual sense: callers distinguish it with errors.Is.
var ErrNoPrice = errors.New("price: no matching price file for family")
