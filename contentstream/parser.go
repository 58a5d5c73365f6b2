package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tsawler/pdfdecode/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	lexer    *core.Lexer
	operands []core.Object
	ops      []Operation
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{
		lexer: core.NewLexer(bytes.NewReader(data)),
	}
}

// Parse parses the content stream and returns all operations in order.
// Operands left over at the end of the stream are dropped.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return p.ops, err
		}

		switch tok.Type {
		case core.TokenEOF:
			return p.ops, nil
		case core.TokenComment:
			continue
		case core.TokenKeyword, core.TokenIndirectRef:
			if obj, ok := literal(string(tok.Value)); ok {
				p.operands = append(p.operands, obj)
				continue
			}
			if err := p.operator(string(tok.Value)); err != nil {
				return p.ops, err
			}
		default:
			obj, err := p.object(tok)
			if err != nil {
				return p.ops, err
			}
			p.operands = append(p.operands, obj)
		}
	}
}

// operator closes the current operation.
func (p *Parser) operator(name string) error {
	op := Operation{Operator: name, Operands: p.operands}
	p.operands = nil

	// BI <key value ...> ID <data> EI
	if name == "ID" {
		data, err := p.inlineData()
		if err != nil {
			return err
		}
		dict := make(core.Dict, len(op.Operands)/2)
		for i := 0; i+1 < len(op.Operands); i += 2 {
			if key, ok := op.Operands[i].(core.Name); ok {
				dict[string(key)] = op.Operands[i+1]
			}
		}
		op = Operation{Operator: "BI", Operands: []core.Object{dict, core.String(data)}}
		if n := len(p.ops); n > 0 && p.ops[n-1].Operator == "BI" {
			p.ops = p.ops[:n-1]
		}
	}

	p.ops = append(p.ops, op)
	return nil
}

func literal(kw string) (core.Object, bool) {
	switch kw {
	case "true":
		return core.Bool(true), true
	case "false":
		return core.Bool(false), true
	case "null":
		return core.Null{}, true
	}
	return nil, false
}

// object parses the operand starting at tok.
func (p *Parser) object(tok *core.Token) (core.Object, error) {
	switch tok.Type {
	case core.TokenInteger:
		i, err := strconv.ParseInt(string(tok.Value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q at position %d", tok.Value, tok.Pos)
		}
		return core.Int(i), nil
	case core.TokenReal:
		f, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q at position %d", tok.Value, tok.Pos)
		}
		return core.Real(f), nil
	case core.TokenString:
		return core.String(tok.Value), nil
	case core.TokenHexString:
		return core.String(core.HexStringBytes(tok.Value)), nil
	case core.TokenName:
		return core.Name(tok.Value), nil
	case core.TokenArrayStart:
		return p.array()
	case core.TokenDictStart:
		return p.dict()
	case core.TokenKeyword:
		if obj, ok := literal(string(tok.Value)); ok {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected %q at position %d", tok.Value, tok.Pos)
}

func (p *Parser) array() (core.Object, error) {
	arr := core.Array{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenArrayEnd:
			return arr, nil
		case core.TokenEOF:
			return nil, fmt.Errorf("unterminated array")
		case core.TokenComment:
			continue
		}
		obj, err := p.object(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) dict() (core.Object, error) {
	dict := core.Dict{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenDictEnd:
			return dict, nil
		case core.TokenEOF:
			return nil, fmt.Errorf("unterminated dictionary")
		case core.TokenComment:
			continue
		case core.TokenName:
		default:
			return nil, fmt.Errorf("dictionary key must be a name at position %d", tok.Pos)
		}

		valTok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		val, err := p.object(valTok)
		if err != nil {
			return nil, err
		}
		dict[string(tok.Value)] = val
	}
}

var errNoEI = errors.New("inline image data without EI")

// inlineData reads the bytes between ID and EI. EI must stand alone,
// preceded by whitespace and followed by whitespace, a delimiter or the
// end of the stream.
func (p *Parser) inlineData() ([]byte, error) {
	if _, err := p.lexer.ReadByte(); err != nil {
		return nil, errNoEI
	}
	var buf []byte
	for {
		b, err := p.lexer.ReadByte()
		if err == io.EOF {
			return nil, errNoEI
		}
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)

		n := len(buf)
		if n < 2 || buf[n-2] != 'E' || buf[n-1] != 'I' || (n > 2 && !isWhitespace(buf[n-3])) {
			continue
		}
		next, err := p.lexer.Peek()
		if err == io.EOF || (err == nil && (isWhitespace(next) || isDelimiter(next))) {
			if n == 2 {
				return []byte{}, nil
			}
			return buf[:n-3], nil
		}
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' || c == '/' || c == '%'
}
