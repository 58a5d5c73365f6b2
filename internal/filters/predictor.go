package filters

import "fmt"

// PNG row filter tags. Only None and Up are reversed.
const (
	pngNone = 0
	pngUp   = 2
)

// PredictorPNGUp is the Predictor value for PNG Up prediction on every row.
const PredictorPNGUp = 12

// Unpredict reverses the predictor declared in params after a Flate or LZW
// stage named filter. Nothing happens unless both Predictor and Columns are
// present. Predictor 1 means no prediction, 12 is reversed by
// PNGUpUnpredict, and every other value is an *UnsupportedError.
func Unpredict(filter string, data []byte, params Params) ([]byte, error) {
	if params == nil {
		return data, nil
	}
	if _, ok := params["Predictor"]; !ok {
		return data, nil
	}
	if _, ok := params["Columns"]; !ok {
		return data, nil
	}

	predictor := GetIntParam(params, "Predictor", 1)
	switch predictor {
	case 0, 1:
		return data, nil
	case PredictorPNGUp:
		n, err := rowBytes(params)
		if err != nil {
			return data, err
		}
		return PNGUpUnpredict(data, n)
	default:
		return nil, &UnsupportedError{Filter: filter, Predictor: predictor}
	}
}

// maxRowBits bounds Columns * Colors * BitsPerComponent.
const maxRowBits = 1<<31 - 1

// rowBytes is the number of data bytes per predicted row. Each factor
// must be positive and the product must stay below maxRowBits.
func rowBytes(params Params) (int, error) {
	bits := 1
	for _, p := range []struct {
		key string
		def int
	}{{"Columns", 1}, {"Colors", 1}, {"BitsPerComponent", 8}} {
		v := GetIntParam(params, p.key, p.def)
		if v < 1 || v > maxRowBits/bits {
			return 0, &DecodeError{Filter: "Predictor", Offset: -1, Err: fmt.Errorf("%s %d out of range", p.key, v)}
		}
		bits *= v
	}
	return (bits + 7) / 8, nil
}

// PNGUpUnpredict reverses PNG Up prediction. The input consists of rows of
// columns+1 bytes, each starting with a PNG filter tag. Rows tagged Up have
// every byte added (mod 256) to the byte above it; the row above the first
// row is all zeros. Rows tagged None are copied. A short final row is
// decoded as far as it goes.
func PNGUpUnpredict(data []byte, columns int) ([]byte, error) {
	if columns < 1 {
		return nil, &DecodeError{Filter: "Predictor", Offset: -1, Err: errColumns}
	}
	// A row wider than the input decodes the same as one that ends with it.
	if columns >= len(data) {
		columns = max(len(data)-1, 1)
	}
	stride := columns + 1
	out := make([]byte, 0, len(data)/stride*columns+columns)
	prev := make([]byte, columns)

	for rowStart := 0; rowStart < len(data); rowStart += stride {
		tag := data[rowStart]
		end := rowStart + stride
		if end > len(data) {
			end = len(data)
		}
		row := data[rowStart+1 : end]

		cur := make([]byte, columns)
		switch tag {
		case pngNone:
			copy(cur, row)
		case pngUp:
			for i, b := range row {
				cur[i] = b + prev[i]
			}
		default:
			return out, &UnsupportedError{Filter: "PNG row filter", Predictor: int(tag)}
		}
		out = append(out, cur[:len(row)]...)
		prev = cur
	}

	return out, nil
}

// PNGUpPredict applies PNG Up prediction to data laid out in rows of
// columns bytes, tagging every row as Up. It is the exact inverse of
// PNGUpUnpredict.
func PNGUpPredict(data []byte, columns int) []byte {
	if columns < 1 {
		columns = 1
	}
	out := make([]byte, 0, len(data)+len(data)/columns+1)
	prev := make([]byte, columns)

	for rowStart := 0; rowStart < len(data); rowStart += columns {
		end := rowStart + columns
		if end > len(data) {
			end = len(data)
		}
		row := data[rowStart:end]

		out = append(out, pngUp)
		for i, b := range row {
			out = append(out, b-prev[i])
		}
		copy(prev, row)
	}

	return out
}
