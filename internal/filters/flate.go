package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params represents decode parameters from PDF stream dictionaries.
// Common parameters include Predictor, Columns, Colors, BitsPerComponent
// and EarlyChange.
type Params map[string]interface{}

// FlateDecode decompresses zlib/deflate compressed data. The inflation
// itself is delegated to compress/zlib; predictors are applied separately
// by the caller via Unpredict.
//
// When the payload is corrupt, the bytes inflated before the failure are
// returned together with a *DecodeError.
func FlateDecode(data []byte) ([]byte, error) {
	return FlateDecodeLimit(data, 0)
}

// FlateDecodeLimit is FlateDecode that stops inflating once the output
// passes limit bytes and returns ErrOutputLimit. A limit of zero or less
// means no limit.
func FlateDecodeLimit(data []byte, limit int) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Filter: "FlateDecode", Offset: 0, Err: fmt.Errorf("invalid zlib header: %w", err)}
	}
	defer reader.Close()

	var src io.Reader = reader
	if limit > 0 {
		src = io.LimitReader(reader, int64(limit)+1)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return buf.Bytes(), &DecodeError{Filter: "FlateDecode", Offset: -1, Err: fmt.Errorf("failed to decompress: %w", err)}
	}
	if limit > 0 && buf.Len() > limit {
		return buf.Bytes()[:limit], ErrOutputLimit
	}

	return buf.Bytes(), nil
}

// EarlyChange reports the LZW EarlyChange parameter, which defaults to 1.
func EarlyChange(params Params) bool {
	return GetIntParam(params, "EarlyChange", 1) != 0
}

// GetIntParam extracts an integer parameter from Params, returning defaultValue
// if the parameter is missing or cannot be converted to an integer.
func GetIntParam(params Params, key string, defaultValue int) int {
	if params == nil {
		return defaultValue
	}

	obj, ok := params[key]
	if !ok {
		return defaultValue
	}

	switch v := obj.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}
