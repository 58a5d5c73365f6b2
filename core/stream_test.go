package core

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tsawler/pdfdecode/internal/filters"
)

// zlibCompress compresses data for testing
func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func ascii85Encode(data []byte) []byte {
	out := make([]byte, ascii85.MaxEncodedLen(len(data)))
	out = out[:ascii85.Encode(out, data)]
	return append(out, '~', '>')
}

func TestStreamDecodeNoFilter(t *testing.T) {
	data := []byte("Raw stream data")
	stream := NewStream(Dict{}, data)

	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("decoded data should equal original when no filter")
	}
}

func TestStreamDecodeSingleFilters(t *testing.T) {
	original := []byte("This is test data for the filter pipeline")

	tests := []struct {
		name   string
		filter string
		data   []byte
	}{
		{"flate", "FlateDecode", zlibCompress(original)},
		{"flate abbreviation", "Fl", zlibCompress(original)},
		{"ascii85", "ASCII85Decode", ascii85Encode(original)},
		{"ascii85 abbreviation", "A85", ascii85Encode(original)},
		{"hex", "ASCIIHexDecode", []byte("546869732069732074657374206461746120666f72207468652066696c74657220706970656c696e65>")},
		{"hex abbreviation", "AHx", []byte("5468 6973 2069 7320 7465 7374 2064 6174 6120 666f 7220 7468 6520 6669 6c74 6572 2070 6970 656c 696e 65>")},
		{"run length", "RunLengthDecode", append(append([]byte{byte(len(original) - 1)}, original...), 128)},
		{"run length abbreviation", "RL", append(append([]byte{byte(len(original) - 1)}, original...), 128)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewStream(Dict{"Filter": Name(tt.filter)}, tt.data)
			decoded, err := stream.Decode()
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(string(original), string(decoded)); diff != "" {
				t.Errorf("decoded data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStreamDecodeLZW(t *testing.T) {
	data := []byte{0x80, 0x0B, 0x60, 0x50, 0x22, 0x0C, 0x0C, 0x85, 0x01}

	for _, filter := range []string{"LZWDecode", "LZW"} {
		stream := NewStream(Dict{"Filter": Name(filter)}, data)
		decoded, err := stream.Decode()
		if err != nil {
			t.Fatalf("%s: Decode failed: %v", filter, err)
		}
		if got, want := string(decoded), "-----A---B"; got != want {
			t.Errorf("%s: got %q, want %q", filter, got, want)
		}
	}
}

func TestStreamDecodeFilterOrder(t *testing.T) {
	original := []byte("BT /F1 12 Tf (filter order matters) Tj ET")
	data := ascii85Encode(zlibCompress(original))

	stream := NewStream(Dict{
		"Filter": Array{Name("ASCII85Decode"), Name("FlateDecode")},
	}, data)
	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %q, want %q", decoded, original)
	}

	reversed := NewStream(Dict{
		"Filter": Array{Name("FlateDecode"), Name("ASCII85Decode")},
	}, data)
	if _, err := reversed.Decode(); err == nil {
		t.Error("reversed filter order should fail")
	}
}

func TestStreamDecodeFilterKeyAliases(t *testing.T) {
	original := []byte("short key")
	stream := NewStream(Dict{"F": Name("AHx")}, []byte("73686f7274206b6579>"))

	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %q, want %q", decoded, original)
	}
}

func TestStreamDecodePredictor(t *testing.T) {
	rows := []byte("abcdefghijklmnopqrstuvwx")
	data := zlibCompress(filters.PNGUpPredict(rows, 4))

	tests := []struct {
		name string
		dict Dict
	}{
		{"DecodeParms", Dict{
			"Filter":      Name("FlateDecode"),
			"DecodeParms": Dict{"Predictor": Int(12), "Columns": Int(4)},
		}},
		{"DP abbreviation", Dict{
			"Filter": Name("FlateDecode"),
			"DP":     Dict{"Predictor": Int(12), "Columns": Int(4)},
		}},
		{"params array", Dict{
			"Filter":      Array{Name("FlateDecode")},
			"DecodeParms": Array{Dict{"Predictor": Int(12), "Columns": Int(4)}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := NewStream(tt.dict, data).Decode()
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(decoded, rows) {
				t.Errorf("got %q, want %q", decoded, rows)
			}
		})
	}
}

func TestStreamDecodePredictorRowSize(t *testing.T) {
	data := zlibCompress([]byte{2, 1, 2, 3})
	dict := Dict{
		"Filter":      Name("FlateDecode"),
		"DecodeParms": Dict{"Predictor": Int(12), "Columns": Int(1 << 50)},
	}

	stream := NewStream(dict, data)
	_, err := stream.Decode()
	if !errors.Is(err, filters.ErrDecode) {
		t.Fatalf("error = %v, want a decode error", err)
	}
	if stream.State() != StreamRaw {
		t.Errorf("State() = %v after failure, want raw", stream.State())
	}

	// Lenient mode keeps the inflated bytes as they are.
	logger, _ := test.NewNullLogger()
	stream.Options = DecodeOptions{Lenient: true, Logger: logger}
	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("lenient Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, []byte{2, 1, 2, 3}) {
		t.Errorf("lenient Decode = %v", decoded)
	}
}

func TestStreamDecodeUnsupported(t *testing.T) {
	tests := []struct {
		name string
		dict Dict
	}{
		{"DCT", Dict{"Filter": Name("DCTDecode")}},
		{"CCITT abbreviation", Dict{"Filter": Name("CCF")}},
		{"JBIG2", Dict{"Filter": Name("JBIG2Decode")}},
		{"JPX", Dict{"Filter": Name("JPXDecode")}},
		{"Crypt", Dict{"Filter": Name("Crypt")}},
		{"unknown", Dict{"Filter": Name("BrotliDecode")}},
		{"TIFF predictor", Dict{
			"Filter":      Name("FlateDecode"),
			"DecodeParms": Dict{"Predictor": Int(2), "Columns": Int(1)},
		}},
		{"PNG optimum predictor", Dict{
			"Filter":      Name("FlateDecode"),
			"DecodeParms": Dict{"Predictor": Int(15), "Columns": Int(1)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewStream(tt.dict, zlibCompress([]byte{2, 1}))
			_, err := stream.Decode()
			if !errors.Is(err, ErrUnsupportedFilter) {
				t.Fatalf("error = %v, want ErrUnsupportedFilter", err)
			}
			var ufe *UnsupportedFilterError
			if !errors.As(err, &ufe) {
				t.Fatalf("error %v is not an *UnsupportedFilterError", err)
			}
			if stream.State() != StreamRaw {
				t.Error("failed decode should leave the stream raw")
			}
		})
	}
}

func TestStreamStateTransitions(t *testing.T) {
	raw := []byte("48656C6C6F>")
	stream := NewStream(Dict{"Filter": Name("AHx")}, raw)

	if stream.State() != StreamRaw {
		t.Fatalf("new stream state = %v, want raw", stream.State())
	}
	if !bytes.Equal(stream.RawData(), raw) {
		t.Fatal("RawData should return the raw bytes before decoding")
	}

	first, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if stream.State() != StreamDecoded {
		t.Errorf("state after Decode = %v, want decoded", stream.State())
	}
	if stream.RawData() != nil {
		t.Error("RawData should be released after decoding")
	}

	second, err := stream.Decode()
	if err != nil {
		t.Fatalf("second Decode failed: %v", err)
	}
	if string(first) != "Hello" || string(second) != "Hello" {
		t.Errorf("Decode results %q, %q, want Hello twice", first, second)
	}
}

func TestStreamDecodeFailureKeepsRaw(t *testing.T) {
	raw := []byte("4142G5")
	stream := NewStream(Dict{"Filter": Name("ASCIIHexDecode")}, raw)

	if _, err := stream.Decode(); !errors.Is(err, filters.ErrDecode) {
		t.Fatalf("error = %v, want filters.ErrDecode", err)
	}
	if stream.State() != StreamRaw {
		t.Error("stream should stay raw after a failed decode")
	}
	if !bytes.Equal(stream.RawData(), raw) {
		t.Error("raw data should survive a failed decode")
	}

	stream.Options.Lenient = true
	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("lenient retry failed: %v", err)
	}
	if string(decoded) != "AB" {
		t.Errorf("lenient retry = %q, want %q", decoded, "AB")
	}
}

func TestStreamDecodeLenientLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()

	// Literal run of 6 bytes truncated after 2.
	stream := NewStream(Dict{"Filter": Name("RunLengthDecode")}, []byte{5, 'a', 'b'})
	stream.ObjID = 42
	stream.Options = DecodeOptions{Lenient: true, Logger: logger}

	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(decoded) != "ab" {
		t.Errorf("decoded = %q, want %q", decoded, "ab")
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry for the lenient recovery")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("log level = %v, want warning", entry.Level)
	}
	if entry.Data["filter"] != "RunLengthDecode" || entry.Data["object"] != 42 {
		t.Errorf("log fields = %v", entry.Data)
	}
}

func TestStreamDecodeLenientStillRejectsUnsupported(t *testing.T) {
	stream := NewStream(Dict{"Filter": Name("JPXDecode")}, []byte{0})
	stream.Options.Lenient = true

	if _, err := stream.Decode(); !errors.Is(err, ErrUnsupportedFilter) {
		t.Errorf("error = %v, want ErrUnsupportedFilter", err)
	}
}

func TestStreamDecodeSizeLimit(t *testing.T) {
	original := bytes.Repeat([]byte{'x'}, 10000)
	stream := NewStream(Dict{"Filter": Name("FlateDecode")}, zlibCompress(original))
	stream.Options.MaxDecodedSize = 1000

	if _, err := stream.Decode(); !errors.Is(err, ErrDecodedSizeLimit) {
		t.Fatalf("error = %v, want ErrDecodedSizeLimit", err)
	}

	stream.Options.MaxDecodedSize = 10000
	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode within limit failed: %v", err)
	}
	if len(decoded) != len(original) {
		t.Errorf("decoded %d bytes, want %d", len(decoded), len(original))
	}
}

func TestStreamDecodeSizeLimitStopsEarly(t *testing.T) {
	const size = 32 << 20
	tests := []struct {
		name   string
		filter string
		data   []byte
	}{
		{"flate", "FlateDecode", zlibCompress(make([]byte, size))},
		{"run length", "RunLengthDecode", bytes.Repeat([]byte{0x81, 0}, size/128)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewStream(Dict{"Filter": Name(tt.filter)}, tt.data)
			stream.Options.MaxDecodedSize = 1024

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			_, err := stream.Decode()
			runtime.ReadMemStats(&after)

			if !errors.Is(err, ErrDecodedSizeLimit) {
				t.Fatalf("error = %v, want ErrDecodedSizeLimit", err)
			}
			if alloc := after.TotalAlloc - before.TotalAlloc; alloc > size/8 {
				t.Errorf("allocated %d bytes for a 1024 byte limit", alloc)
			}
		})
	}
}

func TestStreamDecodeDecipher(t *testing.T) {
	original := []byte("deciphered before filters")
	hex := []byte("64656369706865726564206265666f72652066696c74657273>")
	xor := func(data []byte) []byte {
		out := make([]byte, len(data))
		for i, b := range data {
			out[i] = b ^ 0x5a
		}
		return out
	}

	var gotID, gotGen int
	stream := NewStream(Dict{"Filter": Name("ASCIIHexDecode")}, xor(hex))
	stream.ObjID, stream.Gen = 7, 2
	stream.Decipher = func(objID, gen int, data []byte) ([]byte, error) {
		gotID, gotGen = objID, gen
		return xor(data), nil
	}

	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %q, want %q", decoded, original)
	}
	if gotID != 7 || gotGen != 2 {
		t.Errorf("decipher called with (%d, %d), want (7, 2)", gotID, gotGen)
	}
}

func TestStreamDecodeDecipherError(t *testing.T) {
	boom := errors.New("bad key")
	stream := NewStream(Dict{}, []byte("x"))
	stream.Decipher = func(int, int, []byte) ([]byte, error) { return nil, boom }

	if _, err := stream.Decode(); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if stream.State() != StreamRaw {
		t.Error("stream should stay raw after a decipher error")
	}
}

func TestStreamDecodeInvalidFilterType(t *testing.T) {
	stream := NewStream(Dict{"Filter": Int(3)}, []byte("x"))
	if _, err := stream.Decode(); err == nil {
		t.Error("expected error for a non-name filter")
	}

	stream = NewStream(Dict{"Filter": Array{Name("AHx"), Int(1)}}, []byte("41>"))
	if _, err := stream.Decode(); err == nil {
		t.Error("expected error for a non-name filter array entry")
	}
}

func TestDecipherAll(t *testing.T) {
	upper := func(objID, gen int, data []byte) ([]byte, error) {
		return bytes.ToUpper(data), nil
	}

	obj := Dict{
		"Title": String("report"),
		"Kids":  Array{String("a"), Int(1), Dict{"Alt": String("b")}},
		"Type":  Name("Annot"),
	}

	got, err := DecipherAll(upper, 1, 0, obj)
	if err != nil {
		t.Fatalf("DecipherAll failed: %v", err)
	}
	want := Dict{
		"Title": String("REPORT"),
		"Kids":  Array{String("A"), Int(1), Dict{"Alt": String("B")}},
		"Type":  Name("Annot"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecipherAll mismatch (-want +got):\n%s", diff)
	}
	if obj["Title"] != String("report") {
		t.Error("DecipherAll should not modify its input")
	}
}
