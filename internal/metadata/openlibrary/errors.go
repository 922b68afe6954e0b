package openlibrary

import (
	"errors"
	"fmt"
)

// Sentinel errors for Open Library API operations.
var (
	ErrRateLimited = errors.New("openlibrary: rate limited by server")
	ErrBadRequest  = errors.New("openlibrary: bad request")
	ErrServer      = errors.New("openlibrary: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "search"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("openlibrary %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, err error) error {
	return &Error{
		Op:  op,
		Err: err,
	}
}
