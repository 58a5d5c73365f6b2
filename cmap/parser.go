package cmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/pdfdecode/core"
	"github.com/tsawler/pdfdecode/glyph"
)

// Target receives what a CMap program defines.
type Target interface {
	SetAttr(key string, value core.Object)
	AddCode(code []byte, cid int)
	AddUnicode(cid int, text string)
}

// Resolver finds the CMap named by usecmap.
type Resolver interface {
	CMap(name string) (Mapper, error)
}

// Option configures a Parser or a Registry.
type Option func(*options)

type options struct {
	logger   logrus.FieldLogger
	resolver Resolver
}

// WithLogger sets the logger for skipped usecmap references and cache
// activity. The default discards everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithResolver sets where usecmap looks up base CMaps. Without one,
// usecmap is ignored.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = l
	}
	return o
}

// frame is an open [ { or << whose operands sit on the stack above start.
type frame struct {
	kind  core.TokenType
	pos   int64
	start int
}

// Parser interprets the subset of PostScript used by CMap files: it keeps
// an operand stack and acts on the CMap operators between begincmap and
// endcmap.
type Parser struct {
	lexer  *core.Lexer
	target Target
	opts   options

	stack  []core.Object
	frames []frame
	inCMap bool
}

// NewParser creates a parser feeding target.
func NewParser(r io.Reader, target Target, opts ...Option) *Parser {
	return &Parser{
		lexer:  core.NewLexer(r),
		target: target,
		opts:   buildOptions(opts),
	}
}

// ParseCMap reads a CMap program. A non-nil resolver enables usecmap.
func ParseCMap(r io.Reader, opts ...Option) (*CMap, error) {
	cm := NewCMap("")
	if err := NewParser(r, cm, opts...).Parse(); err != nil {
		return nil, err
	}
	return cm, nil
}

// ParseUnicodeMap reads a ToUnicode CMap program.
func ParseUnicodeMap(r io.Reader, opts ...Option) (*UnicodeMap, error) {
	um := NewUnicodeMap("", false)
	if err := NewParser(r, um, opts...).Parse(); err != nil {
		return nil, err
	}
	return um, nil
}

// Parse runs the program to the end of input.
func (p *Parser) Parse() error {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			var se *core.SyntaxError
			if errors.As(err, &se) {
				return &ParseError{Pos: se.Pos, Msg: se.Msg}
			}
			return err
		}

		switch tok.Type {
		case core.TokenEOF:
			if n := len(p.frames); n > 0 {
				return &ParseError{Pos: p.frames[n-1].pos, Msg: "unterminated " + openerName(p.frames[n-1].kind)}
			}
			return nil
		case core.TokenComment:
		case core.TokenInteger:
			p.push(number(tok.Value))
		case core.TokenReal:
			f, err := strconv.ParseFloat(string(tok.Value), 64)
			if err != nil {
				return &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("bad number %q", tok.Value)}
			}
			p.push(core.Real(f))
		case core.TokenString:
			p.push(core.String(tok.Value))
		case core.TokenHexString:
			p.push(core.String(core.HexStringBytes(tok.Value)))
		case core.TokenName:
			p.push(core.Name(tok.Value))
		case core.TokenArrayStart, core.TokenProcStart, core.TokenDictStart:
			p.frames = append(p.frames, frame{kind: tok.Type, pos: tok.Pos, start: len(p.stack)})
		case core.TokenArrayEnd:
			if err := p.closeFrame(core.TokenArrayStart, tok.Pos); err != nil {
				return err
			}
		case core.TokenProcEnd:
			if err := p.closeFrame(core.TokenProcStart, tok.Pos); err != nil {
				return err
			}
		case core.TokenDictEnd:
			if err := p.closeFrame(core.TokenDictStart, tok.Pos); err != nil {
				return err
			}
		case core.TokenKeyword, core.TokenIndirectRef:
			if err := p.keyword(string(tok.Value), tok.Pos); err != nil {
				return err
			}
		}
	}
}

func number(v []byte) core.Object {
	if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
		return core.Int(i)
	}
	f, _ := strconv.ParseFloat(string(v), 64)
	return core.Real(f)
}

func openerName(t core.TokenType) string {
	switch t {
	case core.TokenArrayStart:
		return "array"
	case core.TokenProcStart:
		return "procedure"
	default:
		return "dictionary"
	}
}

func (p *Parser) push(obj core.Object) {
	p.stack = append(p.stack, obj)
}

// pop removes the top n operands, or fails when fewer than n are available
// above the innermost open frame.
func (p *Parser) pop(n int, pos int64, op string) ([]core.Object, error) {
	floor := 0
	if k := len(p.frames); k > 0 {
		floor = p.frames[k-1].start
	}
	if len(p.stack)-floor < n {
		return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf("%s: operand stack underflow", op)}
	}
	objs := append([]core.Object(nil), p.stack[len(p.stack)-n:]...)
	p.stack = p.stack[:len(p.stack)-n]
	return objs, nil
}

// popAll empties the operand stack and returns its contents in push order.
func (p *Parser) popAll() []core.Object {
	objs := append([]core.Object(nil), p.stack...)
	p.stack = p.stack[:0]
	return objs
}

func (p *Parser) closeFrame(want core.TokenType, pos int64) error {
	n := len(p.frames)
	if n == 0 || p.frames[n-1].kind != want {
		return &ParseError{Pos: pos, Msg: "unmatched end of " + openerName(want)}
	}
	f := p.frames[n-1]
	p.frames = p.frames[:n-1]

	items := append([]core.Object(nil), p.stack[f.start:]...)
	p.stack = p.stack[:f.start]

	switch want {
	case core.TokenArrayStart:
		p.push(core.Array(items))
	case core.TokenProcStart:
		p.push(core.Proc(items))
	default:
		if len(items)%2 != 0 {
			return &ParseError{Pos: pos, Msg: "dictionary has an odd number of operands"}
		}
		d := make(core.Dict, len(items)/2)
		for i := 0; i < len(items); i += 2 {
			key, ok := items[i].(core.Name)
			if !ok {
				return &ParseError{Pos: pos, Msg: fmt.Sprintf("dictionary key %s is not a name", items[i])}
			}
			d[string(key)] = items[i+1]
		}
		p.push(d)
	}
	return nil
}

func (p *Parser) keyword(kw string, pos int64) error {
	// Inside [ ] or { } operators are data.
	if len(p.frames) > 0 {
		p.push(literal(kw))
		return nil
	}

	switch kw {
	case "begincmap":
		p.inCMap = true
		p.popAll()
		return nil
	case "endcmap":
		p.inCMap = false
		return nil
	}
	if !p.inCMap {
		return nil
	}

	switch kw {
	case "def":
		objs, err := p.pop(2, pos, kw)
		if err != nil {
			return err
		}
		if key, ok := objs[0].(core.Name); ok {
			p.target.SetAttr(string(key), objs[1])
		}
	case "usecmap":
		objs, err := p.pop(1, pos, kw)
		if err != nil {
			return err
		}
		if name, ok := objs[0].(core.Name); ok {
			p.useCMap(string(name))
		}
	case "begincodespacerange", "endcodespacerange",
		"beginnotdefrange", "endnotdefrange",
		"begincidrange", "begincidchar", "beginbfrange", "beginbfchar":
		p.popAll()
	case "endcidrange":
		p.cidRanges(p.popAll())
	case "endcidchar":
		p.cidChars(p.popAll())
	case "endbfrange":
		p.bfRanges(p.popAll())
	case "endbfchar":
		p.bfChars(p.popAll())
	default:
		p.push(literal(kw))
	}
	return nil
}

func literal(kw string) core.Object {
	switch kw {
	case "true":
		return core.Bool(true)
	case "false":
		return core.Bool(false)
	case "null":
		return core.Null{}
	}
	return core.Keyword(kw)
}

func (p *Parser) useCMap(name string) {
	log := p.opts.logger.WithFields(logrus.Fields{"usecmap": name})
	if p.opts.resolver == nil {
		log.Debug("usecmap ignored: no resolver")
		return
	}
	base, err := p.opts.resolver.CMap(name)
	if err != nil {
		log.WithError(err).Debug("usecmap ignored")
		return
	}
	type user interface{ UseCMap(*CMap) }
	dst, ok := p.target.(user)
	if !ok {
		log.Debug("usecmap ignored: target keeps no codes")
		return
	}
	cm, ok := base.(*CMap)
	if !ok {
		log.Debug("usecmap ignored: base is not a code table")
		return
	}
	dst.UseCMap(cm)
}

// cidRanges handles "<lo> <hi> cid" triples. The last four bytes of the
// bounds vary; the rest must be a common prefix.
func (p *Parser) cidRanges(objs []core.Object) {
	for i := 0; i+2 < len(objs); i += 3 {
		lo, ok1 := objs[i].(core.String)
		hi, ok2 := objs[i+1].(core.String)
		cid, ok3 := objs[i+2].(core.Int)
		if !ok1 || !ok2 || !ok3 || len(lo) != len(hi) || len(lo) == 0 {
			continue
		}
		loPrefix, loVar := splitVar([]byte(lo))
		hiPrefix, hiVar := splitVar([]byte(hi))
		if !bytes.Equal(loPrefix, hiPrefix) {
			continue
		}
		start := unpack(loVar)
		n, ok := span(start, unpack(hiVar))
		if !ok {
			p.skipRange("cidrange", lo, hi)
			continue
		}
		for k := uint32(0); k < n; k++ {
			p.target.AddCode(withVar(loPrefix, start+k, len(loVar)), int(cid)+int(k))
		}
	}
}

// cidChars handles "<code> cid" pairs. A pair of two strings is read the
// other way round, as "<cid> <code>", with the CID big-endian.
func (p *Parser) cidChars(objs []core.Object) {
	for i := 0; i+1 < len(objs); i += 2 {
		first, ok := objs[i].(core.String)
		if !ok || len(first) == 0 {
			continue
		}
		switch second := objs[i+1].(type) {
		case core.Int:
			p.target.AddCode([]byte(first), int(second))
		case core.String:
			if len(second) > 0 && len(first) <= 4 {
				p.target.AddCode([]byte(second), int(unpack([]byte(first))))
			}
		}
	}
}

// bfRanges handles "<lo> <hi> dst" triples, where dst is an array with one
// destination per code or a string whose last bytes are incremented.
func (p *Parser) bfRanges(objs []core.Object) {
	for i := 0; i+2 < len(objs); i += 3 {
		lo, ok1 := objs[i].(core.String)
		hi, ok2 := objs[i+1].(core.String)
		if !ok1 || !ok2 || len(lo) != len(hi) || len(lo) == 0 || len(lo) > 4 {
			continue
		}
		start := unpack([]byte(lo))
		n, ok := span(start, unpack([]byte(hi)))
		if !ok {
			p.skipRange("bfrange", lo, hi)
			continue
		}
		switch dst := objs[i+2].(type) {
		case core.Array:
			for k := uint32(0); k < n && int(k) < len(dst); k++ {
				if text, ok := destination(dst[k]); ok {
					p.target.AddUnicode(int(start+k), text)
				}
			}
		case core.String:
			if len(dst) == 0 {
				continue
			}
			prefix, base := splitVar([]byte(dst))
			b := unpack(base)
			for k := uint32(0); k < n; k++ {
				p.target.AddUnicode(int(start+k), utf16Text(withVar(prefix, b+k, len(base))))
			}
		}
	}
}

// bfChars handles "<code> dst" pairs.
func (p *Parser) bfChars(objs []core.Object) {
	for i := 0; i+1 < len(objs); i += 2 {
		code, ok := objs[i].(core.String)
		if !ok || len(code) == 0 || len(code) > 4 {
			continue
		}
		if text, ok := destination(objs[i+1]); ok {
			p.target.AddUnicode(int(unpack([]byte(code))), text)
		}
	}
}

// destination converts a bfchar or bfrange target to text: a UTF-16BE
// string, a glyph name, or a code point.
func destination(obj core.Object) (string, bool) {
	switch v := obj.(type) {
	case core.String:
		return utf16Text([]byte(v)), true
	case core.Name:
		text, err := glyph.ToUnicode(string(v))
		return text, err == nil
	case core.Int:
		if v < 0 || v > 0x10FFFF {
			return "", false
		}
		return string(rune(v)), true
	}
	return "", false
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// utf16Text decodes UTF-16BE. A single byte is taken as a code point.
func utf16Text(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	out, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// splitVar splits a code into its fixed prefix and a varying tail of at
// most four bytes.
func splitVar(code []byte) (prefix, tail []byte) {
	n := len(code) - 4
	if n < 0 {
		n = 0
	}
	return code[:n], code[n:]
}

// skipRange logs a range that is reversed or wider than maxSpan.
func (p *Parser) skipRange(kind string, lo, hi core.String) {
	p.opts.logger.WithFields(logrus.Fields{
		"range": kind,
		"lo":    fmt.Sprintf("%x", []byte(lo)),
		"hi":    fmt.Sprintf("%x", []byte(hi)),
		"max":   maxSpan,
	}).Debug("skipping cmap range")
}

// maxSpan bounds the number of codes a single range may declare.
const maxSpan = 1 << 20

// span returns the number of codes from start to end inclusive.
func span(start, end uint32) (uint32, bool) {
	if end < start || end-start >= maxSpan {
		return 0, false
	}
	return end - start + 1, true
}

func unpack(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// withVar appends the low n bytes of v to prefix.
func withVar(prefix []byte, v uint32, n int) []byte {
	out := make([]byte, len(prefix), len(prefix)+n)
	copy(out, prefix)
	for i := n - 1; i >= 0; i-- {
		out = append(out, byte(v>>(8*uint(i))))
	}
	return out
}
