package visitquery

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed user input such as a date bound that is
	// not YYYY-MM-DD.
	ErrValidation = errors.New("validation failed")

	// ErrNothingToExport is returned when the current page has no rows.
	ErrNothingToExport = errors.New("nothing to export")
)

// FetchError is a load failure surfaced to the user. It never carries a
// permission denial of the flat query; that one is answered by the
// hierarchical walk.
type FetchError struct {
	Strategy Strategy
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load visits (%s): %v", e.Strategy, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
