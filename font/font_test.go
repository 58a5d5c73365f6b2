package font

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tsawler/pdfdecode/cmap"
	"github.com/tsawler/pdfdecode/core"
)

func objects(objs map[int]core.Object) Resolver {
	return func(ref core.IndirectRef) (core.Object, error) {
		obj, ok := objs[ref.Number]
		if !ok {
			return nil, fmt.Errorf("object %d not found", ref.Number)
		}
		return obj, nil
	}
}

const toUnicode = `begincmap
2 beginbfchar
<01> <0048>
<02> <0069>
endbfchar
endcmap`

func TestSimpleFont(t *testing.T) {
	tests := []struct {
		name     string
		dict     core.Dict
		input    []byte
		expected string
	}{
		{
			name:     "default standard encoding",
			dict:     core.Dict{"Subtype": core.Name("Type1"), "BaseFont": core.Name("Times-Roman")},
			input:    []byte("Don't"),
			expected: "Don’t",
		},
		{
			name:     "win ansi",
			dict:     core.Dict{"Subtype": core.Name("TrueType"), "Encoding": core.Name("WinAnsiEncoding")},
			input:    []byte{'c', 'a', 'f', 0xE9, 0x80},
			expected: "café€",
		},
		{
			name: "differences",
			dict: core.Dict{
				"Subtype": core.Name("Type1"),
				"Encoding": core.Dict{
					"BaseEncoding": core.Name("WinAnsiEncoding"),
					"Differences":  core.Array{core.Int(1), core.Name("fi"), core.Name("fl")},
				},
			},
			input:    []byte{1, 2, 'x'},
			expected: "ﬁﬂx",
		},
		{
			name: "dingbat differences",
			dict: core.Dict{
				"Subtype":  core.Name("Type1"),
				"BaseFont": core.Name("ABCDEF+ZapfDingbats"),
				"Encoding": core.Dict{
					"Differences": core.Array{core.Int(1), core.Name("a1"), core.Name("a10")},
				},
			},
			input:    []byte{1, 2},
			expected: "\u2701\u2721",
		},
		{
			name:     "unmapped code",
			dict:     core.Dict{"Subtype": core.Name("Type1"), "Encoding": core.Name("WinAnsiEncoding")},
			input:    []byte{'a', 0x81},
			expected: "a(cid:129)",
		},
		{
			name: "to unicode wins over encoding",
			dict: core.Dict{
				"Subtype":   core.Name("Type1"),
				"Encoding":  core.Name("WinAnsiEncoding"),
				"ToUnicode": core.NewStream(core.Dict{}, []byte(toUnicode)),
			},
			input:    []byte{1, 2, 'A'},
			expected: "HiA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFont(tt.dict, nil, nil)
			if err != nil {
				t.Fatalf("NewFont failed: %v", err)
			}
			if f.IsComposite() || f.IsVertical() {
				t.Error("simple font reported as composite or vertical")
			}
			if got := f.DecodeString(tt.input); got != tt.expected {
				t.Errorf("DecodeString(%x) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSimpleFontIndirectEncoding(t *testing.T) {
	resolve := objects(map[int]core.Object{
		5: core.Dict{"Differences": core.IndirectRef{Number: 6}},
		6: core.Array{core.Int(65), core.Name("Euro")},
	})
	dict := core.Dict{
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Custom"),
		"Encoding": core.IndirectRef{Number: 5},
	}
	f, err := NewFont(dict, resolve, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.DecodeString([]byte("AB")); got != "€B" {
		t.Errorf("DecodeString = %q, want %q", got, "€B")
	}
	if f.Encoding != StandardEncoding {
		t.Errorf("Encoding = %q, want StandardEncoding", f.Encoding)
	}

	dict["Encoding"] = core.IndirectRef{Number: 99}
	if _, err := NewFont(dict, resolve, nil); err == nil {
		t.Error("expected error for unresolvable encoding")
	}
}

func TestCompositeIdentity(t *testing.T) {
	resolve := objects(map[int]core.Object{
		10: core.Dict{
			"Subtype":       core.Name("CIDFontType2"),
			"CIDSystemInfo": core.Dict{"Registry": core.String("Adobe"), "Ordering": core.String("Identity"), "Supplement": core.Int(0)},
		},
		11: core.NewStream(core.Dict{}, []byte(`begincmap
1 beginbfrange <0001> <0003> <0041> endbfrange
endcmap`)),
	})
	dict := core.Dict{
		"Subtype":         core.Name("Type0"),
		"BaseFont":        core.Name("ABCDEF+Gothic"),
		"Encoding":        core.Name("Identity-V"),
		"DescendantFonts": core.Array{core.IndirectRef{Number: 10}},
		"ToUnicode":       core.IndirectRef{Number: 11},
	}

	f, err := NewFont(dict, resolve, nil)
	if err != nil {
		t.Fatalf("NewFont failed: %v", err)
	}
	if !f.IsComposite() || !f.IsVertical() {
		t.Errorf("IsComposite=%v IsVertical=%v, want both true", f.IsComposite(), f.IsVertical())
	}
	if f.CharacterCollection != "Adobe-Identity" {
		t.Errorf("CharacterCollection = %q", f.CharacterCollection)
	}
	if diff := cmp.Diff([]int{1, 3, 9}, f.Decode([]byte{0, 1, 0, 3, 0, 9, 7})); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
	if got := f.DecodeString([]byte{0, 1, 0, 3, 0, 9}); got != "AC(cid:9)" {
		t.Errorf("DecodeString = %q, want %q", got, "AC(cid:9)")
	}
}

func TestCompositeNamedCMap(t *testing.T) {
	reg := cmap.NewRegistry(cmap.MapLoader{
		"Test-H": []byte(`begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (Test) >> def
1 begincidrange <8140> <8142> 633 endcidrange
1 begincidchar <20> 1 endcidchar
endcmap`),
		"to-unicode-Adobe-Test": []byte(`begincmap
2 beginbfchar <0001> <0020> <0279> <3042> endbfchar
endcmap`),
	})

	dict := core.Dict{
		"Subtype":  core.Name("Type0"),
		"Encoding": core.Name("Test-H"),
		"DescendantFonts": core.Array{core.Dict{
			"CIDSystemInfo": core.Dict{"Registry": core.String("Adobe"), "Ordering": core.String("Test")},
		}},
	}
	f, err := NewFont(dict, nil, reg)
	if err != nil {
		t.Fatalf("NewFont failed: %v", err)
	}
	if f.CharacterCollection != "Adobe-Test" {
		t.Errorf("CharacterCollection = %q", f.CharacterCollection)
	}
	got := f.DecodeString([]byte{0x81, 0x40, 0x20, 0x81, 0x42})
	if want := "あ (cid:635)"; got != want {
		t.Errorf("DecodeString = %q, want %q", got, want)
	}
}

func TestCompositeEmbeddedCMap(t *testing.T) {
	embedded := core.NewStream(core.Dict{"Type": core.Name("CMap"), "CMapName": core.Name("Embedded-H")}, []byte(`begincmap
/Identity-H usecmap
1 begincidchar <0041> 7 endcidchar
endcmap`))
	dict := core.Dict{
		"Subtype":  core.Name("Type0"),
		"Encoding": embedded,
	}
	f, err := NewFont(dict, nil, nil)
	if err != nil {
		t.Fatalf("NewFont failed: %v", err)
	}
	if f.Encoding != "Embedded-H" {
		t.Errorf("Encoding = %q, want Embedded-H", f.Encoding)
	}
	if diff := cmp.Diff([]int{7}, f.Decode([]byte{0x00, 0x41})); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestCompositeMissingCMapIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()

	dict := core.Dict{
		"Subtype":  core.Name("Type0"),
		"BaseFont": core.Name("Mincho"),
		"Encoding": core.Name("90ms-RKSJ-H"),
	}
	f, err := NewFont(dict, nil, cmap.NewRegistry(nil), WithLogger(logger))
	if err != nil {
		t.Fatalf("NewFont failed: %v", err)
	}
	if got := f.Decode([]byte{0x81, 0x40}); len(got) != 0 {
		t.Errorf("Decode = %v, want nothing", got)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %v", entry)
	}
	if entry.Data["cmap"] != "90ms-RKSJ-H" {
		t.Errorf("cmap field = %v", entry.Data["cmap"])
	}
	if err, _ := entry.Data[logrus.ErrorKey].(error); !errors.Is(err, cmap.ErrCMapNotFound) {
		t.Errorf("logged error = %v, want ErrCMapNotFound", err)
	}
}

func TestBadToUnicode(t *testing.T) {
	dict := core.Dict{
		"Subtype":   core.Name("Type1"),
		"ToUnicode": core.NewStream(core.Dict{}, []byte("begincmap [ endcmap")),
	}
	_, err := NewFont(dict, nil, nil)
	var pe *cmap.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error = %v, want *cmap.ParseError", err)
	}
}
