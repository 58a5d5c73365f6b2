package filters

import "bytes"

// RunLengthDecode decodes data in the Adobe run-length format.
//
// Each run starts with a length byte. Values 0-127 copy the following
// length+1 bytes literally, values 129-255 repeat the next byte 257-length
// times, and 128 marks end of data; anything after it is ignored. A
// literal run cut short by the end of input keeps the bytes it has.
func RunLengthDecode(data []byte) ([]byte, error) {
	return RunLengthDecodeLimit(data, 0)
}

// RunLengthDecodeLimit is RunLengthDecode that stops once the output passes
// limit bytes and returns ErrOutputLimit. A limit of zero or less means no
// limit.
func RunLengthDecodeLimit(data []byte, limit int) ([]byte, error) {
	var result bytes.Buffer

	i := 0
	for i < len(data) {
		length := int(data[i])
		switch {
		case length == 128:
			return result.Bytes(), nil

		case length < 128:
			end := i + 1 + length + 1
			if end > len(data) {
				result.Write(data[i+1:])
				return result.Bytes(), decodeErr("RunLengthDecode", i, "literal run of %d bytes truncated", length+1)
			}
			result.Write(data[i+1 : end])
			i = end

		default:
			if i+1 >= len(data) {
				return result.Bytes(), decodeErr("RunLengthDecode", i, "repeat run missing its byte")
			}
			b := data[i+1]
			for k := 0; k < 257-length; k++ {
				result.WriteByte(b)
			}
			i += 2
		}
		if limit > 0 && result.Len() > limit {
			return result.Bytes()[:limit], ErrOutputLimit
		}
	}

	return result.Bytes(), nil
}
