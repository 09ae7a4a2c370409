package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// opError tags an error with the handler operation that produced it.
type opError struct {
	Op  string
	Err error
}

func (e *opError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *opError) Unwrap() error { return e.Err }

// NewKind returns kind tagged with op.
func NewKind(op string, kind error) error {
	return &opError{Op: op, Err: kind}
}

// Wrap tags err with op; a nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{Op: op, Err: err}
}
