package cmap

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tsawler/pdfdecode/core"
)

const cidRangeProgram = `%!PS-Adobe-3.0 Resource-CMap
/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (Test) /Supplement 0 >> def
/CMapName /Test-H def
/CMapType 1 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
1 begincidrange
<0000> <00ff> 1
endcidrange
2 begincidchar
<0100> 500
<01F5> <0101>
endcidchar
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestParseCIDRange(t *testing.T) {
	cm, err := ParseCMap(strings.NewReader(cidRangeProgram))
	if err != nil {
		t.Fatalf("ParseCMap failed: %v", err)
	}

	got := cm.Decode([]byte{0x00, 0x00, 0x00, 0x41, 0x00, 0xFF, 0x01, 0x00, 0x01, 0x01})
	if diff := cmp.Diff([]int{1, 66, 256, 500, 501}, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
	if cm.Len() != 258 {
		t.Errorf("Len() = %d, want 258", cm.Len())
	}
	if cm.Name() != "Test-H" {
		t.Errorf("Name() = %q, want Test-H", cm.Name())
	}
	info, ok := cm.Attr("CIDSystemInfo")
	if !ok {
		t.Fatal("CIDSystemInfo not set")
	}
	want := core.Dict{"Registry": core.String("Adobe"), "Ordering": core.String("Test"), "Supplement": core.Int(0)}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("CIDSystemInfo mismatch (-want +got):\n%s", diff)
	}
	if cm.IsVertical() {
		t.Error("CMap without WMode should be horizontal")
	}
}

func TestParseCIDRangePrefix(t *testing.T) {
	program := `begincmap
1 begincidrange
<0102030400> <0102030402> 7
<01000000> <02000001> 9
endcidrange
endcmap`
	cm, err := ParseCMap(strings.NewReader(program))
	if err != nil {
		t.Fatal(err)
	}
	got := cm.Decode([]byte{1, 2, 3, 4, 0, 1, 2, 3, 4, 2})
	if diff := cmp.Diff([]int{7, 9}, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
	if cm.Len() != 3 {
		t.Errorf("Len() = %d, want 3; the oversized range should be skipped", cm.Len())
	}
}

func TestParseVertical(t *testing.T) {
	cm, err := ParseCMap(strings.NewReader("begincmap /WMode 1 def endcmap"))
	if err != nil {
		t.Fatal(err)
	}
	if !cm.IsVertical() {
		t.Error("WMode 1 should be vertical")
	}
}

func TestParseOutsideCMapIgnored(t *testing.T) {
	cm, err := ParseCMap(strings.NewReader("1 begincidrange <00> <01> 5 endcidrange /WMode 1 def"))
	if err != nil {
		t.Fatal(err)
	}
	if cm.Len() != 0 || cm.IsVertical() {
		t.Errorf("operators outside begincmap should be ignored, got %d codes", cm.Len())
	}
}

const toUnicodeProgram = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
1 begincodespacerange <0000> <FFFF> endcodespacerange
3 beginbfchar
<0003> <0020>
<0004> <00660069>
<0005> /Euro
endbfchar
2 beginbfrange
<0010> <0012> <0041>
<0020> <0022> [<0061> <D835DC00> /quotedblleft]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end`

func TestParseUnicodeMap(t *testing.T) {
	um, err := ParseUnicodeMap(strings.NewReader(toUnicodeProgram))
	if err != nil {
		t.Fatalf("ParseUnicodeMap failed: %v", err)
	}

	tests := []struct {
		cid  int
		want string
	}{
		{3, " "},
		{4, "fi"},
		{5, "€"},
		{0x10, "A"},
		{0x11, "B"},
		{0x12, "C"},
		{0x20, "a"},
		{0x21, "\U0001D400"},
		{0x22, "“"},
	}
	for _, tt := range tests {
		got, ok := um.Lookup(tt.cid)
		if !ok {
			t.Errorf("Lookup(%#x) missing", tt.cid)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%#x) = %q, want %q", tt.cid, got, tt.want)
		}
	}
	if _, ok := um.Lookup(0x13); ok {
		t.Error("Lookup(0x13) should be unmapped")
	}
	if um.Name() != "Adobe-Identity-UCS" {
		t.Errorf("Name() = %q", um.Name())
	}
}

func TestParseBFRangeIncrementsLastBytes(t *testing.T) {
	program := `begincmap 1 beginbfrange <00FE> <0101> <00000041> endbfrange endcmap`
	um, err := ParseUnicodeMap(strings.NewReader(program))
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"\x00A", "\x00B", "\x00C", "\x00D"} {
		if got, _ := um.Lookup(0xFE + i); got != want {
			t.Errorf("Lookup(%#x) = %q, want %q", 0xFE+i, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		program string
	}{
		{"unmatched array end", "begincmap ] endcmap"},
		{"mismatched closer", "begincmap [ 1 >> endcmap"},
		{"odd dictionary", "begincmap << /A 1 /B >> endcmap"},
		{"non-name key", "begincmap << 1 2 >> endcmap"},
		{"def underflow", "begincmap /WMode def endcmap"},
		{"usecmap underflow", "begincmap usecmap endcmap"},
		{"unterminated array", "begincmap [ 1 2"},
		{"lexical error", "begincmap <0G> endcmap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCMap(strings.NewReader(tt.program))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
		})
	}
}

func TestParseUseCMap(t *testing.T) {
	res := resolverFunc(func(name string) (Mapper, error) {
		if name != "Base-H" {
			return nil, &NotFoundError{Name: name}
		}
		base := NewCMap("Base-H")
		base.Add([]byte{0x41}, 1)
		base.Add([]byte{0x42}, 2)
		return base, nil
	})

	program := `begincmap
/Base-H usecmap
1 begincidchar <41> 100 endcidchar
endcmap`
	cm, err := ParseCMap(strings.NewReader(program), WithResolver(res))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{100, 2}, cm.Decode([]byte("AB"))); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUseCMapMissingIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	res := resolverFunc(func(name string) (Mapper, error) {
		return nil, &NotFoundError{Name: name}
	})
	program := `begincmap /Missing-H usecmap 1 begincidchar <41> 3 endcidchar endcmap`
	cm, err := ParseCMap(strings.NewReader(program), WithResolver(res), WithLogger(logger))
	if err != nil {
		t.Fatalf("missing usecmap should not fail the parse: %v", err)
	}
	if diff := cmp.Diff([]int{3}, cm.Decode([]byte("A"))); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Data["usecmap"] != "Missing-H" {
		t.Errorf("usecmap field = %v", entry.Data["usecmap"])
	}
	if !errors.Is(entry.Data[logrus.ErrorKey].(error), ErrCMapNotFound) {
		t.Errorf("logged error = %v", entry.Data[logrus.ErrorKey])
	}
}

func TestParseOversizedRangesAreLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	program := `begincmap
1 begincidrange <00000000> <00100000> 1 endcidrange
1 beginbfrange <000000> <ffffff> <0041> endbfrange
1 begincidchar <41> 3 endcidchar
endcmap`
	cm, err := ParseCMap(strings.NewReader(program), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if cm.Len() != 1 {
		t.Errorf("Len() = %d, want only the cidchar entry", cm.Len())
	}

	var kinds []string
	for _, entry := range hook.AllEntries() {
		if entry.Level != logrus.DebugLevel {
			t.Errorf("log level = %v, want debug", entry.Level)
		}
		kinds = append(kinds, entry.Data["range"].(string))
	}
	if diff := cmp.Diff([]string{"cidrange", "bfrange"}, kinds); diff != "" {
		t.Fatalf("logged ranges mismatch (-want +got):\n%s", diff)
	}
	if got := hook.AllEntries()[0].Data["hi"]; got != "00100000" {
		t.Errorf("hi field = %v", got)
	}
}

func TestParseKeywordsInsideProcs(t *testing.T) {
	program := `begincmap /Proc { dup def true } def endcmap`
	cm, err := ParseCMap(strings.NewReader(program))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := cm.Attr("Proc")
	want := core.Proc{core.Keyword("dup"), core.Keyword("def"), core.Bool(true)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Proc mismatch (-want +got):\n%s", diff)
	}
}

type resolverFunc func(name string) (Mapper, error)

func (f resolverFunc) CMap(name string) (Mapper, error) { return f(name) }
