package cmap

import (
	"errors"
	"fmt"
)

// ErrCMapNotFound is matched by every NotFoundError.
var ErrCMapNotFound = errors.New("cmap not found")

// NotFoundError reports a CMap or Unicode map name with no backing data.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cmap %q not found: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("cmap %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrCMapNotFound }

// ParseError reports a CMap program whose tokens do not fit the operand
// stack: a lexical error, a mismatched closing delimiter, an odd number of
// dictionary operands, or an operator with too few operands.
type ParseError struct {
	Pos int64
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cmap: parse error at position %d: %s", e.Pos, e.Msg)
}
