package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFilter is matched by every UnsupportedFilterError.
	ErrUnsupportedFilter = errors.New("unsupported filter")

	// ErrDecodedSizeLimit is returned when a filter stage produces more
	// bytes than DecodeOptions.MaxDecodedSize allows.
	ErrDecodedSizeLimit = errors.New("decoded stream exceeds size limit")
)

// UnsupportedFilterError reports a filter, predictor or row filter that is
// recognised (or not recognised at all) but not implemented.
type UnsupportedFilterError struct {
	Filter string
	Detail string // e.g. "unsupported predictor 15"; empty for a whole filter
}

func (e *UnsupportedFilterError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unsupported filter %s: %s", e.Filter, e.Detail)
	}
	return fmt.Sprintf("unsupported filter %s", e.Filter)
}

func (e *UnsupportedFilterError) Is(target error) bool { return target == ErrUnsupportedFilter }

// SyntaxError reports malformed PDF or PostScript syntax at a byte offset.
type SyntaxError struct {
	Pos int64
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

func syntaxErr(pos int64, format string, args ...interface{}) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
