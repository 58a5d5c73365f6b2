package filters

import (
	"errors"
	"fmt"
)

// ErrDecode is matched by every DecodeError via errors.Is.
var ErrDecode = errors.New("malformed filter input")

var errColumns = errors.New("predictor Columns must be positive")

// ErrOutputLimit is returned by a codec that stopped because its output
// passed the caller's limit.
var ErrOutputLimit = errors.New("decoded output exceeds limit")

// ErrUnsupported is matched by every UnsupportedError via errors.Is.
var ErrUnsupported = errors.New("unsupported filter feature")

// DecodeError reports malformed input to one of the codecs.
type DecodeError struct {
	Filter string // e.g. "ASCII85Decode"
	Offset int    // byte offset into the filter input, -1 if unknown
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: at offset %d: %v", e.Filter, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Filter, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) succeed for any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// UnsupportedError reports a predictor or row filter that is recognised
// but not implemented.
type UnsupportedError struct {
	Filter    string
	Predictor int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported predictor %d", e.Filter, e.Predictor)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

func decodeErr(filter string, offset int, format string, args ...interface{}) error {
	return &DecodeError{Filter: filter, Offset: offset, Err: fmt.Errorf(format, args...)}
}
