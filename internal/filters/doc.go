// Package filters provides PDF stream decoding filters.
//
// PDF streams can be encoded with a chain of byte-level filters. This
// package implements the codecs; the order in which they run is decided by
// core.Stream.
//
// # Supported Filters
//
// FlateDecode (zlib/deflate, delegated to compress/zlib):
//
//	decoded, err := filters.FlateDecode(data)
//
// LZWDecode (PDF/TIFF variant, 9 to 12 bit codes):
//
//	decoded, err := filters.LZWDecode(data, filters.EarlyChange(params))
//
// ASCIIHexDecode, ASCII85Decode and RunLengthDecode:
//
//	decoded, err := filters.ASCIIHexDecode(data)
//	decoded, err := filters.ASCII85Decode(data)
//	decoded, err := filters.RunLengthDecode(data)
//
// Flate, LZW and RunLength have *Limit variants that stop with
// ErrOutputLimit once the output passes a byte limit:
//
//	decoded, err := filters.FlateDecodeLimit(data, 64<<20)
//
// # Predictors
//
// After a Flate or LZW stage the Predictor parameter is reversed by
// Unpredict. Only PNG Up (Predictor 12) is implemented; any other
// predictor yields an *UnsupportedError.
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   5,
//	}
//	decoded, err = filters.Unpredict("FlateDecode", decoded, params)
//
// # Errors
//
// Malformed input produces a *DecodeError (errors.Is(err, ErrDecode)).
// Codecs return the bytes decoded before the failure alongside the error
// so that a lenient caller can keep a partial result.
package filters
