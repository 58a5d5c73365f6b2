package core

import (
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver resolves indirect references, which the parser needs
// when a stream's /Length is itself an indirect object.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser reads PDF objects and "n g obj ... endobj" definitions. Streams
// come back raw, carrying the parser's decode options and decipher hook.
type Parser struct {
	lex *Lexer

	// tok is the token being parsed and peek the one after it. Comments
	// never appear in either.
	tok  *Token
	peek *Token
	err  error // first lexer failure

	refs     ReferenceResolver
	options  DecodeOptions
	decipher func(objID, gen int, data []byte) ([]byte, error)
}

// NewParser creates a parser reading from r.
func NewParser(r io.Reader) *Parser {
	p := &Parser{lex: NewLexer(r)}
	p.fill()
	return p
}

// SetDecipher installs the decryption hook of an encrypted document.
// Strings inside indirect objects are deciphered as they are parsed and
// streams decipher their payload when decoded.
func (p *Parser) SetDecipher(decipher func(objID, gen int, data []byte) ([]byte, error)) {
	p.decipher = decipher
}

// SetDecodeOptions sets the options given to every stream the parser
// returns.
func (p *Parser) SetDecodeOptions(opts DecodeOptions) {
	p.options = opts
}

// SetReferenceResolver sets the lookup used for an indirect /Length.
func (p *Parser) SetReferenceResolver(refs ReferenceResolver) {
	p.refs = refs
}

// fill reloads both tokens from the lexer's current position.
func (p *Parser) fill() {
	p.tok, p.peek = nil, nil
	p.advance()
	p.advance()
}

// advance shifts the lookahead. The bytes after a stream keyword are raw
// data, so nothing is read past it.
func (p *Parser) advance() {
	p.tok, p.peek = p.peek, nil
	if p.isKeyword("stream") || p.err != nil {
		return
	}
	for {
		t, err := p.lex.NextToken()
		if err != nil {
			p.err = err
			return
		}
		if t.Type != TokenComment {
			p.peek = t
			return
		}
	}
}

func (p *Parser) current() (*Token, error) {
	if p.tok != nil {
		return p.tok, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	return nil, io.ErrUnexpectedEOF
}

func (p *Parser) isKeyword(kw string) bool {
	return p.tok != nil && p.tok.Type == TokenKeyword && string(p.tok.Value) == kw
}

func (p *Parser) pos() int64 {
	if p.tok != nil {
		return p.tok.Pos
	}
	return p.lex.pos
}

// ParseObject parses the next direct object or indirect reference. It
// returns io.EOF at the end of input.
func (p *Parser) ParseObject() (Object, error) {
	t, err := p.current()
	if err != nil {
		return nil, err
	}

	switch t.Type {
	case TokenEOF:
		return nil, io.EOF
	case TokenInteger:
		return p.number(t)
	case TokenArrayStart:
		return p.array()
	case TokenDictStart:
		return p.dict()
	}

	var obj Object
	switch t.Type {
	case TokenKeyword:
		switch string(t.Value) {
		case "null":
			obj = Null{}
		case "true":
			obj = Bool(true)
		case "false":
			obj = Bool(false)
		default:
			return nil, syntaxErr(t.Pos, "unexpected keyword %q", t.Value)
		}
	case TokenReal:
		f, err := strconv.ParseFloat(string(t.Value), 64)
		if err != nil {
			return nil, syntaxErr(t.Pos, "invalid real %q", t.Value)
		}
		obj = Real(f)
	case TokenString:
		obj = String(t.Value)
	case TokenHexString:
		obj = String(HexStringBytes(t.Value))
	case TokenName:
		obj = Name(t.Value)
	default:
		return nil, syntaxErr(t.Pos, "unexpected token %q", t.Value)
	}
	p.advance()
	return obj, nil
}

// nested parses an object that must be present, so that running out of
// input inside a container is never mistaken for a clean end.
func (p *Parser) nested() (Object, error) {
	obj, err := p.ParseObject()
	if err == io.EOF {
		return nil, syntaxErr(p.pos(), "unexpected end of input")
	}
	return obj, err
}

// number parses an integer or real, or "n g R" when the two tokens after
// an integer are an integer and R.
func (p *Parser) number(t *Token) (Object, error) {
	n, err := strconv.ParseInt(string(t.Value), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(t.Value), 64)
		if ferr != nil {
			return nil, syntaxErr(t.Pos, "invalid number %q", t.Value)
		}
		p.advance()
		return Real(f), nil
	}
	p.advance()

	if p.tok != nil && p.tok.Type == TokenInteger && p.peek != nil && p.peek.Type == TokenIndirectRef {
		if gen, err := strconv.ParseInt(string(p.tok.Value), 10, 64); err == nil {
			p.advance()
			p.advance()
			return IndirectRef{Number: int(n), Generation: int(gen)}, nil
		}
	}
	return Int(n), nil
}

func (p *Parser) array() (Object, error) {
	p.advance()
	var arr Array
	for {
		t, err := p.current()
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case TokenArrayEnd:
			p.advance()
			return arr, nil
		case TokenEOF:
			return nil, syntaxErr(t.Pos, "unterminated array")
		}
		obj, err := p.nested()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) dict() (Object, error) {
	p.advance()
	dict := make(Dict)
	for {
		t, err := p.current()
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case TokenDictEnd:
			p.advance()
			return dict, nil
		case TokenEOF:
			return nil, syntaxErr(t.Pos, "unterminated dictionary")
		case TokenName:
		default:
			return nil, syntaxErr(t.Pos, "dictionary key %q is not a name", t.Value)
		}
		key := string(t.Value)
		p.advance()

		value, err := p.nested()
		if err != nil {
			return nil, fmt.Errorf("dictionary key /%s: %w", key, err)
		}
		dict[key] = value
	}
}

// ParseIndirectObject parses "n g obj <object> endobj", where the object
// may be a dictionary followed by stream data. It returns io.EOF when no
// definition is left.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	t, err := p.current()
	if err != nil {
		return nil, err
	}
	if t.Type == TokenEOF {
		return nil, io.EOF
	}

	ref, err := p.header()
	if err != nil {
		return nil, err
	}

	obj, err := p.nested()
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", ref, err)
	}
	if p.isKeyword("stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, syntaxErr(p.pos(), "object %s: stream must follow a dictionary", ref)
		}
		if obj, err = p.stream(ref, dict); err != nil {
			return nil, fmt.Errorf("object %s: %w", ref, err)
		}
	}
	if obj, err = p.decipherStrings(ref, obj); err != nil {
		return nil, err
	}

	if !p.isKeyword("endobj") {
		return nil, syntaxErr(p.pos(), "object %s: expected endobj", ref)
	}
	p.advance()
	return &IndirectObject{Ref: ref, Object: obj}, nil
}

// header reads "n g obj".
func (p *Parser) header() (IndirectRef, error) {
	var nums [2]int
	for i, what := range []string{"object number", "generation number"} {
		t := p.tok
		if t == nil || t.Type != TokenInteger {
			return IndirectRef{}, syntaxErr(p.pos(), "expected %s", what)
		}
		n, err := strconv.Atoi(string(t.Value))
		if err != nil || n < 0 {
			return IndirectRef{}, syntaxErr(t.Pos, "invalid %s %q", what, t.Value)
		}
		nums[i] = n
		p.advance()
	}
	if !p.isKeyword("obj") {
		return IndirectRef{}, syntaxErr(p.pos(), "expected obj keyword")
	}
	p.advance()
	return IndirectRef{Number: nums[0], Generation: nums[1]}, nil
}

// stream reads /Length bytes after the stream keyword and its end of
// line, then checks for endstream.
func (p *Parser) stream(ref IndirectRef, dict Dict) (*Stream, error) {
	n, err := p.streamLength(dict)
	if err != nil {
		return nil, err
	}
	if err := p.lex.SkipStreamEOL(); err != nil {
		return nil, fmt.Errorf("stream keyword: %w", err)
	}
	data, err := p.lex.ReadBytes(n)
	if err != nil {
		return nil, fmt.Errorf("stream data: %w", err)
	}

	t, err := p.lex.NextToken()
	if err != nil {
		return nil, fmt.Errorf("after stream data: %w", err)
	}
	if t.Type != TokenKeyword || string(t.Value) != "endstream" {
		return nil, syntaxErr(t.Pos, "expected endstream, got %q", t.Value)
	}
	p.fill()

	s := NewStream(dict, data)
	s.ObjID, s.Gen = ref.Number, ref.Generation
	s.Options = p.options
	s.Decipher = p.decipher
	return s, nil
}

func (p *Parser) streamLength(dict Dict) (int, error) {
	obj := dict.Get("Length")
	if ref, ok := obj.(IndirectRef); ok {
		if p.refs == nil {
			return 0, fmt.Errorf("stream /Length %s needs a reference resolver", ref)
		}
		var err error
		if obj, err = p.refs.ResolveReference(ref); err != nil {
			return 0, fmt.Errorf("stream /Length %s: %w", ref, err)
		}
	}
	n, ok := obj.(Int)
	if !ok || n < 0 {
		return 0, fmt.Errorf("invalid stream /Length %v", obj)
	}
	return int(n), nil
}

// decipherStrings deciphers every string of obj; for a stream only its
// dictionary, since the payload is deciphered on Decode.
func (p *Parser) decipherStrings(ref IndirectRef, obj Object) (Object, error) {
	if p.decipher == nil {
		return obj, nil
	}
	s, isStream := obj.(*Stream)
	if isStream {
		obj = s.Dict
	}
	out, err := DecipherAll(p.decipher, ref.Number, ref.Generation, obj)
	if err != nil {
		return nil, fmt.Errorf("decipher object %s: %w", ref, err)
	}
	if isStream {
		s.Dict = out.(Dict)
		return s, nil
	}
	return out, nil
}
