package view

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams marks a route parameter that does not parse.
	ErrInvalidParams = errors.New("invalid route params")
	// ErrInvalidState is returned when a view is driven out of order.
	ErrInvalidState = errors.New("invalid view state")

	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = errors.New("page size is not one of the allowed sizes")
	ErrRowOutOfRange   = errors.New("row index out of range")
	// ErrStaleSelection means the row under the clicked index no longer holds the clicked record.
	ErrStaleSelection = errors.New("selected row no longer matches the current page")
)

// ParamError reports which route parameter was malformed.
type ParamError struct {
	Param string
	Value string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("route param %s=%q: %v", e.Param, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

func (e *ParamError) Is(target error) bool { return target == ErrInvalidParams }
