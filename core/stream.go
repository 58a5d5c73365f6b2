package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfdecode/internal/filters"
)

// StreamState tells whether a stream still holds its raw bytes.
type StreamState int

const (
	StreamRaw StreamState = iota
	StreamDecoded
)

func (s StreamState) String() string {
	if s == StreamDecoded {
		return "decoded"
	}
	return "raw"
}

// DecodeOptions controls how a stream is decoded.
type DecodeOptions struct {
	// Lenient keeps the bytes a codec produced before hitting malformed
	// input instead of failing. Unsupported filters still fail.
	Lenient bool

	// MaxDecodedSize bounds the output of every filter stage. Zero means
	// no limit.
	MaxDecodedSize int

	// Logger receives lenient recoveries. Nil discards them.
	Logger logrus.FieldLogger
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}()

func (o DecodeOptions) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return discardLogger
	}
	return o.Logger
}

// Stream is a PDF stream: a dictionary plus a byte payload. A stream
// starts raw and becomes decoded exactly once; the raw bytes are released
// when decoding succeeds.
type Stream struct {
	Dict Dict

	// ObjID and Gen identify the indirect object, for deciphering.
	ObjID int
	Gen   int

	// Decipher, when set, decrypts the raw bytes before any filter runs.
	Decipher func(objID, gen int, data []byte) ([]byte, error)

	Options DecodeOptions

	raw     []byte
	decoded []byte
	state   StreamState
}

// NewStream creates a raw stream.
func NewStream(dict Dict, data []byte) *Stream {
	if dict == nil {
		dict = make(Dict)
	}
	return &Stream{Dict: dict, raw: data}
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	if s.state == StreamDecoded {
		return fmt.Sprintf("stream %s (%d bytes decoded)", s.Dict.String(), len(s.decoded))
	}
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.raw))
}

// State reports whether the stream has been decoded.
func (s *Stream) State() StreamState { return s.state }

// RawData returns the undecoded bytes, or nil once the stream is decoded.
func (s *Stream) RawData() []byte { return s.raw }

// Decode deciphers the stream and runs its filter chain, then returns the
// decoded bytes. Later calls return the same bytes without work. On error
// the stream stays raw, so the caller may retry with other options or
// skip the stream.
func (s *Stream) Decode() ([]byte, error) {
	if s.state == StreamDecoded {
		return s.decoded, nil
	}

	data := s.raw
	if s.Decipher != nil {
		var err error
		data, err = s.Decipher(s.ObjID, s.Gen, data)
		if err != nil {
			return nil, fmt.Errorf("decipher object %d %d: %w", s.ObjID, s.Gen, err)
		}
	}

	names, params, err := s.filterChain()
	if err != nil {
		return nil, err
	}

	for i, name := range names {
		data, err = s.applyFilter(name, data, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
		}
	}

	s.decoded = data
	s.raw = nil
	s.state = StreamDecoded
	return s.decoded, nil
}

// filterChain returns the filter names in declared order with the decode
// parameters aligned to them.
func (s *Stream) filterChain() ([]string, []Dict, error) {
	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		filterObj = s.Dict.Get("F")
	}

	var names []string
	switch f := filterObj.(type) {
	case nil, Null:
		return nil, nil, nil
	case Name:
		names = []string{string(f)}
	case Array:
		for i, item := range f {
			name, ok := item.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is not a name: %T", i, item)
			}
			names = append(names, string(name))
		}
	default:
		return nil, nil, fmt.Errorf("invalid Filter type: %T", filterObj)
	}

	var paramsObj Object
	for _, key := range []string{"DecodeParms", "DP", "FDecodeParms"} {
		if paramsObj = s.Dict.Get(key); paramsObj != nil {
			break
		}
	}

	params := make([]Dict, len(names))
	for i := range names {
		if paramsArray, ok := paramsObj.(Array); ok {
			if i < len(paramsArray) {
				params[i] = paramsObjToDict(paramsArray[i])
			}
		} else {
			params[i] = paramsObjToDict(paramsObj)
		}
	}
	return names, params, nil
}

// applyFilter runs one filter stage, followed by its predictor for Flate
// and LZW.
func (s *Stream) applyFilter(name string, data []byte, params Dict) ([]byte, error) {
	fp := dictToParams(params)
	limit := s.Options.MaxDecodedSize

	var out []byte
	var err error
	predicted := false

	switch name {
	case "FlateDecode", "Fl":
		out, err = filters.FlateDecodeLimit(data, limit)
		predicted = true
	case "LZWDecode", "LZW":
		out, err = filters.LZWDecodeLimit(data, filters.EarlyChange(fp), limit)
		predicted = true
	case "ASCIIHexDecode", "AHx":
		out, err = filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		out, err = filters.ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		out, err = filters.RunLengthDecodeLimit(data, limit)
	case "CCITTFaxDecode", "CCF", "DCTDecode", "DCT", "JBIG2Decode", "JPXDecode", "Crypt":
		return nil, &UnsupportedFilterError{Filter: name}
	default:
		return nil, &UnsupportedFilterError{Filter: name, Detail: "unknown filter"}
	}

	if errors.Is(err, filters.ErrOutputLimit) {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrDecodedSizeLimit)
	}
	if out, err = s.recover(name, out, err); err != nil {
		return nil, err
	}

	if predicted {
		out, err = filters.Unpredict(name, out, fp)
		var ue *filters.UnsupportedError
		if errors.As(err, &ue) {
			return nil, &UnsupportedFilterError{Filter: name, Detail: ue.Error()}
		}
		if out, err = s.recover(name, out, err); err != nil {
			return nil, err
		}
	}

	if limit > 0 && len(out) > limit {
		return nil, fmt.Errorf("%d bytes, limit %d: %w", len(out), limit, ErrDecodedSizeLimit)
	}
	return out, nil
}

// recover decides what to do with a codec error. In lenient mode a
// malformed-input error is logged and the partial output is kept.
func (s *Stream) recover(name string, out []byte, err error) ([]byte, error) {
	if err == nil {
		return out, nil
	}
	if !s.Options.Lenient || !errors.Is(err, filters.ErrDecode) {
		return nil, err
	}
	s.Options.logger().WithFields(logrus.Fields{
		"filter":  name,
		"object":  s.ObjID,
		"kept":    len(out),
		"problem": err.Error(),
	}).Warn("keeping partial stream data after decode error")
	return out, nil
}

// paramsObjToDict converts a DecodeParms object to a Dict.
// Returns nil if the object is nil, Null, or not a Dict.
func paramsObjToDict(obj Object) Dict {
	if dict, ok := obj.(Dict); ok {
		return dict
	}
	return nil
}

// dictToParams converts a core.Dict to filters.Params, translating PDF object
// types to Go primitive types (Int->int, Real->float64, Bool->bool, etc.).
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params)
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}

// DecipherAll returns obj with every string inside it, at any depth of
// arrays and dictionaries, passed through decipher. Streams are left
// alone; they decipher their own payload.
func DecipherAll(decipher func(objID, gen int, data []byte) ([]byte, error), objID, gen int, obj Object) (Object, error) {
	switch v := obj.(type) {
	case String:
		plain, err := decipher(objID, gen, []byte(v))
		if err != nil {
			return nil, err
		}
		return String(plain), nil
	case Array:
		out := make(Array, len(v))
		for i, item := range v {
			d, err := DecipherAll(decipher, objID, gen, item)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case Dict:
		out := make(Dict, len(v))
		for k, item := range v {
			d, err := DecipherAll(decipher, objID, gen, item)
			if err != nil {
				return nil, err
			}
			out[k] = d
		}
		return out, nil
	default:
		return obj, nil
	}
}
