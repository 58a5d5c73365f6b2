package filters

import "bytes"

const (
	lzwClear     = 256
	lzwEOD       = 257
	lzwFirstCode = 258
	lzwMaxCodes  = 4096
	lzwMinWidth  = 9
	lzwMaxWidth  = 12
)

// LZWDecode decompresses the PDF/TIFF variant of LZW.
//
// Codes are read most significant bit first. The code width starts at 9
// bits and grows to 12 as the dictionary fills; 256 clears the dictionary
// and 257 ends the data. With earlyChange set (the PDF default) the width
// grows one code early, as written by most encoders.
func LZWDecode(data []byte, earlyChange bool) ([]byte, error) {
	return LZWDecodeLimit(data, earlyChange, 0)
}

// LZWDecodeLimit is LZWDecode that stops once the output passes limit
// bytes and returns ErrOutputLimit. A limit of zero or less means no limit.
func LZWDecodeLimit(data []byte, earlyChange bool, limit int) ([]byte, error) {
	d := &lzwDecoder{data: data, earlyChange: earlyChange, limit: limit}
	d.reset()
	return d.decode()
}

// lzwDecoder holds the bit reader and dictionary state.
type lzwDecoder struct {
	data        []byte
	bitPos      int
	earlyChange bool
	limit       int

	table    [][]byte
	next     int
	width    int
	previous []byte
}

func (d *lzwDecoder) reset() {
	if d.table == nil {
		d.table = make([][]byte, lzwMaxCodes)
		for i := 0; i < 256; i++ {
			d.table[i] = []byte{byte(i)}
		}
	}
	for i := lzwFirstCode; i < lzwMaxCodes; i++ {
		d.table[i] = nil
	}
	d.next = lzwFirstCode
	d.width = lzwMinWidth
	d.previous = nil
}

// readCode returns the next code, or false when fewer than width bits remain.
func (d *lzwDecoder) readCode() (int, bool) {
	if d.bitPos+d.width > len(d.data)*8 {
		return 0, false
	}
	code := 0
	for k := 0; k < d.width; k++ {
		byteIdx := d.bitPos >> 3
		bit := (d.data[byteIdx] >> (7 - uint(d.bitPos&7))) & 1
		code = code<<1 | int(bit)
		d.bitPos++
	}
	return code, true
}

func (d *lzwDecoder) decode() ([]byte, error) {
	var result bytes.Buffer

	for {
		offset := d.bitPos / 8
		code, ok := d.readCode()
		if !ok {
			// Input ended without an EOD code; accept what we have.
			return result.Bytes(), nil
		}

		switch {
		case code == lzwClear:
			d.reset()
			continue
		case code == lzwEOD:
			return result.Bytes(), nil
		}

		var entry []byte
		switch {
		case code < d.next && d.table[code] != nil:
			entry = d.table[code]
		case code == d.next && d.previous != nil:
			entry = make([]byte, len(d.previous)+1)
			copy(entry, d.previous)
			entry[len(d.previous)] = d.previous[0]
		default:
			return result.Bytes(), decodeErr("LZWDecode", offset, "invalid code %d (next free code %d)", code, d.next)
		}
		result.Write(entry)
		if d.limit > 0 && result.Len() > d.limit {
			return result.Bytes()[:d.limit], ErrOutputLimit
		}

		if d.previous != nil {
			if d.next >= lzwMaxCodes {
				return result.Bytes(), decodeErr("LZWDecode", offset, "dictionary overflow without clear code")
			}
			added := make([]byte, len(d.previous)+1)
			copy(added, d.previous)
			added[len(d.previous)] = entry[0]
			d.table[d.next] = added
			d.next++
		}
		d.previous = entry

		d.growWidth()
	}
}

// growWidth widens the code size once the dictionary reaches the next
// power of two (one code earlier with early change).
func (d *lzwDecoder) growWidth() {
	limit := d.next
	if d.earlyChange {
		limit++
	}
	for d.width < lzwMaxWidth && limit >= 1<<uint(d.width) {
		d.width++
	}
}
