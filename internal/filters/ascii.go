package filters

import (
	"bytes"
)

// ASCIIHexDecode decodes ASCII hexadecimal encoded data.
// Each pair of hexadecimal digits (0-9, A-F, a-f) represents one byte.
// Whitespace is ignored, and > marks end of data. An odd digit before the
// end of data behaves as if it were followed by 0.
//
// On malformed input the bytes decoded so far are returned together with
// a *DecodeError.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var result bytes.Buffer
	result.Grow(len(data) / 2)

	var hi byte
	half := false
	for i, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}

		v, ok := hexDigitValue(c)
		if !ok {
			return result.Bytes(), decodeErr("ASCIIHexDecode", i, "invalid hex digit %q", c)
		}

		if !half {
			hi = v
			half = true
			continue
		}
		result.WriteByte(hi<<4 | v)
		half = false
	}

	if half {
		result.WriteByte(hi << 4)
	}

	return result.Bytes(), nil
}

// ASCII85Decode decodes ASCII base-85 (Ascii85) encoded data.
// Each group of 5 ASCII characters (! to u, values 33-117) represents 4 bytes.
// The special character 'z' represents four zero bytes. The character ~
// (normally followed by >) marks end of data.
//
// A final partial group of n characters is padded with 'u' (value 84) and
// only n-1 bytes of it are kept.
func ASCII85Decode(data []byte) ([]byte, error) {
	var result bytes.Buffer
	result.Grow(len(data) * 4 / 5)

	i := 0
	for i < len(data) && isWhitespace(data[i]) {
		i++
	}
	if i+1 < len(data) && data[i] == '<' && data[i+1] == '~' {
		i += 2
	}

	var value uint64
	n := 0
	groupStart := i
	for ; i < len(data); i++ {
		c := data[i]
		switch {
		case isWhitespace(c):
			continue
		case c >= '!' && c <= 'u':
			if n == 0 {
				groupStart = i
			}
			value = value*85 + uint64(c-'!')
			n++
			if n == 5 {
				if value > 0xFFFFFFFF {
					return result.Bytes(), decodeErr("ASCII85Decode", groupStart, "group value out of range")
				}
				writeGroup(&result, uint32(value), 4)
				value, n = 0, 0
			}
		case c == 'z':
			if n != 0 {
				return result.Bytes(), decodeErr("ASCII85Decode", i, "'z' inside a group")
			}
			result.Write([]byte{0, 0, 0, 0})
		case c == '~':
			return flushASCII85(&result, value, n, groupStart)
		default:
			return result.Bytes(), decodeErr("ASCII85Decode", i, "invalid character %q", c)
		}
	}

	return flushASCII85(&result, value, n, groupStart)
}

// flushASCII85 writes the final partial group, if any.
func flushASCII85(result *bytes.Buffer, value uint64, n, offset int) ([]byte, error) {
	switch n {
	case 0:
		return result.Bytes(), nil
	case 1:
		return result.Bytes(), decodeErr("ASCII85Decode", offset, "truncated final group")
	}
	for k := n; k < 5; k++ {
		value = value*85 + 84
	}
	if value > 0xFFFFFFFF {
		return result.Bytes(), decodeErr("ASCII85Decode", offset, "group value out of range")
	}
	writeGroup(result, uint32(value), n-1)
	return result.Bytes(), nil
}

// writeGroup writes the first count bytes of v in big-endian order.
func writeGroup(buf *bytes.Buffer, v uint32, count int) {
	for j := 0; j < count; j++ {
		buf.WriteByte(byte(v >> (24 - 8*j)))
	}
}

// hexDigitValue converts a hexadecimal character to its numeric value (0-15).
func hexDigitValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
