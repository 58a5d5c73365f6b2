package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParserObjects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Object
	}{
		{"null", "null", Null{}},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"integer", "-17", Int(-17)},
		{"real", "3.25", Real(3.25)},
		{"literal string", "(Hello)", String("Hello")},
		{"hex string", "<48656C6C6F>", String("Hello")},
		{"odd hex string", "<414>", String("A@")},
		{"name", "/Identity-H", Name("Identity-H")},
		{"array", "[1 /Two (three)]", Array{Int(1), Name("Two"), String("three")}},
		{"indirect reference", "5 0 R", IndirectRef{Number: 5, Generation: 0}},
		{"array of references", "[1 0 R 2 0 R]", Array{IndirectRef{1, 0}, IndirectRef{2, 0}}},
		{"dict", "<</Filter /FlateDecode /Length 12>>", Dict{"Filter": Name("FlateDecode"), "Length": Int(12)}},
		{"nested", "<</DecodeParms [null <</Columns 4>>]>>", Dict{
			"DecodeParms": Array{Null{}, Dict{"Columns": Int(4)}},
		}},
		{"comments", "% leading\n[1 % inside\n 2]", Array{Int(1), Int(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParser(strings.NewReader(tt.input)).ParseObject()
			if err != nil {
				t.Fatalf("ParseObject(%q) failed: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseObject(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	for _, input := range []string{"[1 2", "<</Key", "<<1 2>>", "endobj"} {
		if _, err := NewParser(strings.NewReader(input)).ParseObject(); err == nil {
			t.Errorf("ParseObject(%q) expected error", input)
		}
	}

	if _, err := NewParser(strings.NewReader("")).ParseObject(); err != io.EOF {
		t.Errorf("ParseObject(empty) error = %v, want io.EOF", err)
	}
}

func TestParserIndirectObject(t *testing.T) {
	input := "7 1 obj\n<</Type /Font /Encoding /WinAnsiEncoding>>\nendobj\n"

	obj, err := NewParser(strings.NewReader(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	if obj.Ref != (IndirectRef{Number: 7, Generation: 1}) {
		t.Errorf("Ref = %v, want 7 1 R", obj.Ref)
	}
	dict, ok := obj.Object.(Dict)
	if !ok {
		t.Fatalf("Object = %T, want Dict", obj.Object)
	}
	if name, _ := dict.GetName("Encoding"); name != "WinAnsiEncoding" {
		t.Errorf("Encoding = %q", name)
	}
}

func TestParserStreamObject(t *testing.T) {
	payload := "48656C6C6F>"
	input := fmt.Sprintf("4 0 obj\n<</Filter /AHx /Length %d>>\nstream\n%s\nendstream\nendobj\n5 0 obj 1 endobj", len(payload), payload)

	parser := NewParser(strings.NewReader(input))
	parser.SetDecodeOptions(DecodeOptions{MaxDecodedSize: 64})

	obj, err := parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		t.Fatalf("Object = %T, want *Stream", obj.Object)
	}
	if stream.ObjID != 4 || stream.Gen != 0 {
		t.Errorf("stream identity = (%d, %d), want (4, 0)", stream.ObjID, stream.Gen)
	}
	if stream.Options.MaxDecodedSize != 64 {
		t.Error("stream should inherit the parser's decode options")
	}
	if string(stream.RawData()) != payload {
		t.Errorf("RawData = %q, want %q", stream.RawData(), payload)
	}

	decoded, err := stream.Decode()
	if err != nil || string(decoded) != "Hello" {
		t.Errorf("Decode = %q, %v", decoded, err)
	}

	next, err := parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("second ParseIndirectObject failed: %v", err)
	}
	if next.Object != Int(1) {
		t.Errorf("second object = %v, want 1", next.Object)
	}
	if _, err := parser.ParseIndirectObject(); err != io.EOF {
		t.Errorf("ParseIndirectObject at end = %v, want io.EOF", err)
	}
}

func TestParserTruncatedDefinitions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"dict value", "1 0 obj <</Key"},
		{"object value", "1 0 obj"},
		{"missing endobj", "1 0 obj 5"},
		{"huge length", "1 0 obj <</Length 1099511627776>> stream\nabc\nendstream endobj"},
		{"negative length", "1 0 obj <</Length -1>> stream\nabc\nendstream endobj"},
		{"missing endstream", "1 0 obj <</Length 1>> stream\nabc\nendobj"},
		{"stream after array", "1 0 obj [1] stream\nendstream endobj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(strings.NewReader(tt.input)).ParseIndirectObject()
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, io.EOF) {
				t.Errorf("error %v must not look like a clean end of input", err)
			}
		})
	}
}

func TestParserSyntaxErrorPosition(t *testing.T) {
	_, err := NewParser(strings.NewReader("<</A 1 2 3>>")).ParseObject()
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want a SyntaxError", err)
	}
	if se.Pos != 7 {
		t.Errorf("Pos = %d, want 7", se.Pos)
	}
}

type mapResolver map[IndirectRef]Object

func (m mapResolver) ResolveReference(ref IndirectRef) (Object, error) {
	obj, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("object %v not found", ref)
	}
	return obj, nil
}

func TestParserStreamIndirectLength(t *testing.T) {
	input := "1 0 obj <</Length 2 0 R>> stream\nabc\nendstream endobj"

	if _, err := NewParser(strings.NewReader(input)).ParseIndirectObject(); err == nil {
		t.Error("expected error without a reference resolver")
	}

	parser := NewParser(strings.NewReader(input))
	parser.SetReferenceResolver(mapResolver{{Number: 2}: Int(3)})
	obj, err := parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	if data := obj.Object.(*Stream).RawData(); string(data) != "abc" {
		t.Errorf("RawData = %q, want abc", data)
	}
}

func TestParserDecipher(t *testing.T) {
	xor := func(data []byte) []byte {
		out := make([]byte, len(data))
		for i, b := range data {
			out[i] = b ^ 0x20
		}
		return out
	}
	var calls []string
	decipher := func(objID, gen int, data []byte) ([]byte, error) {
		calls = append(calls, fmt.Sprintf("%d/%d", objID, gen))
		return xor(data), nil
	}

	secret := xor([]byte("Hello"))
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "3 0 obj <</Title <%X> /Kids [<%X>]>> endobj\n", secret, secret)
	fmt.Fprintf(&buf, "9 2 obj <</Length 5 /Note <%X>>> stream\n%s\nendstream endobj\n", secret, secret)

	parser := NewParser(&buf)
	parser.SetDecipher(decipher)

	obj, err := parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	want := Dict{"Title": String("Hello"), "Kids": Array{String("Hello")}}
	if diff := cmp.Diff(want, obj.Object); diff != "" {
		t.Errorf("deciphered object mismatch (-want +got):\n%s", diff)
	}

	obj, err = parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	stream := obj.Object.(*Stream)
	if note, _ := stream.Dict.GetString("Note"); note != "Hello" {
		t.Errorf("stream dict string = %q, want Hello", note)
	}
	data, err := stream.Decode()
	if err != nil || string(data) != "Hello" {
		t.Errorf("stream Decode = %q, %v", data, err)
	}

	if diff := cmp.Diff([]string{"3/0", "3/0", "9/2", "9/2"}, calls); diff != "" {
		t.Errorf("decipher calls mismatch (-want +got):\n%s", diff)
	}
}
