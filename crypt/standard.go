package crypt

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tsawler/pdfdecode/core"
)

var (
	// ErrPasswordIncorrect is returned when the supplied password does not
	// authenticate as the user password.
	ErrPasswordIncorrect = errors.New("crypt: incorrect password")

	// ErrUnsupportedEncryption is returned for security handlers other
	// than Standard V1/V2 with revision 2 or 3.
	ErrUnsupportedEncryption = errors.New("crypt: unsupported encryption")
)

// passwordPadding pads user passwords to 32 bytes.
var passwordPadding = []byte{
	0x28, 0xbf, 0x4e, 0x5e, 0x4e, 0x75, 0x8a, 0x41,
	0x64, 0x00, 0x4e, 0x56, 0xff, 0xfa, 0x01, 0x08,
	0x2e, 0x2e, 0x00, 0xb6, 0xd0, 0x68, 0x3e, 0x80,
	0x2f, 0x0c, 0xa9, 0xfe, 0x64, 0x53, 0x69, 0x7a,
}

// Permission bits of the P entry.
const (
	permPrint   = 1 << 2
	permModify  = 1 << 3
	permExtract = 1 << 4
)

// EncryptDict holds the entries of an /Encrypt dictionary used by the
// standard security handler.
type EncryptDict struct {
	Filter string
	V      int
	R      int
	Length int // key length in bits, default 40
	O      []byte
	U      []byte
	P      int32
}

// EncryptDictFromCore extracts the standard handler entries from a parsed
// /Encrypt dictionary.
func EncryptDictFromCore(d core.Dict) (EncryptDict, error) {
	enc := EncryptDict{Length: 40}

	if name, ok := d.GetName("Filter"); ok {
		enc.Filter = string(name)
	}
	if v, ok := d.GetInt("V"); ok {
		enc.V = int(v)
	}
	if l, ok := d.GetInt("Length"); ok {
		enc.Length = int(l)
	}

	r, ok := d.GetInt("R")
	if !ok {
		return enc, fmt.Errorf("encrypt dictionary: missing R")
	}
	enc.R = int(r)

	o, ok := d.GetString("O")
	if !ok {
		return enc, fmt.Errorf("encrypt dictionary: missing O")
	}
	enc.O = []byte(o)

	u, ok := d.GetString("U")
	if !ok {
		return enc, fmt.Errorf("encrypt dictionary: missing U")
	}
	enc.U = []byte(u)

	p, ok := d.GetInt("P")
	if !ok {
		return enc, fmt.Errorf("encrypt dictionary: missing P")
	}
	enc.P = int32(p)

	return enc, nil
}

// StandardHandler is an authenticated standard security handler. It holds
// the file key and derives per-object RC4 keys from it.
type StandardHandler struct {
	key []byte
	p   int32
}

// NewStandardHandler authenticates password as the user password of a
// document encrypted with enc. docID is the first element of the trailer
// /ID array.
func NewStandardHandler(enc EncryptDict, docID []byte, password string) (*StandardHandler, error) {
	if enc.Filter != "Standard" {
		return nil, fmt.Errorf("%w: filter %q", ErrUnsupportedEncryption, enc.Filter)
	}
	if enc.V != 1 && enc.V != 2 {
		return nil, fmt.Errorf("%w: V %d", ErrUnsupportedEncryption, enc.V)
	}
	if enc.R != 2 && enc.R != 3 {
		return nil, fmt.Errorf("%w: revision %d", ErrUnsupportedEncryption, enc.R)
	}
	n := enc.Length / 8
	if n < 5 || n > 16 {
		return nil, fmt.Errorf("%w: key length %d bits", ErrUnsupportedEncryption, enc.Length)
	}

	key := fileKey(enc, docID, padPassword(password), n)
	u := computeU(enc.R, key, docID)

	authenticated := false
	if enc.R == 2 {
		authenticated = bytes.Equal(u, enc.U)
	} else {
		authenticated = len(enc.U) >= 16 && bytes.Equal(u[:16], enc.U[:16])
	}
	if !authenticated {
		return nil, ErrPasswordIncorrect
	}

	return &StandardHandler{key: key, p: enc.P}, nil
}

// CanPrint reports whether printing is permitted.
func (h *StandardHandler) CanPrint() bool { return h.p&permPrint != 0 }

// CanModify reports whether modification is permitted.
func (h *StandardHandler) CanModify() bool { return h.p&permModify != 0 }

// CanExtract reports whether text and graphics extraction is permitted.
func (h *StandardHandler) CanExtract() bool { return h.p&permExtract != 0 }

// ObjectKey derives the RC4 key for one indirect object.
func (h *StandardHandler) ObjectKey(objID, gen int) []byte {
	buf := make([]byte, 0, len(h.key)+5)
	buf = append(buf, h.key...)
	buf = append(buf, byte(objID), byte(objID>>8), byte(objID>>16))
	buf = append(buf, byte(gen), byte(gen>>8))

	sum := md5.Sum(buf)
	n := len(buf)
	if n > 16 {
		n = 16
	}
	return sum[:n]
}

// Decipher decrypts data belonging to object (objID, gen).
func (h *StandardHandler) Decipher(objID, gen int, data []byte) ([]byte, error) {
	a, err := NewArcfour(h.ObjectKey(objID, gen))
	if err != nil {
		return nil, err
	}
	return a.Process(data), nil
}

// Func returns h.Decipher as a Decipher hook.
func (h *StandardHandler) Func() Decipher { return h.Decipher }

func padPassword(password string) []byte {
	padded := make([]byte, 0, 32)
	padded = append(padded, password...)
	padded = append(padded, passwordPadding...)
	return padded[:32]
}

// fileKey computes the n byte file encryption key.
func fileKey(enc EncryptDict, docID, padded []byte, n int) []byte {
	h := md5.New()
	h.Write(padded)
	h.Write(enc.O)
	var p [4]byte
	binary.LittleEndian.PutUint32(p[:], uint32(enc.P))
	h.Write(p[:])
	h.Write(docID)
	sum := h.Sum(nil)

	if enc.R >= 3 {
		for i := 0; i < 50; i++ {
			s := md5.Sum(sum[:n])
			sum = s[:]
		}
	}
	return sum[:n]
}

// computeU computes the expected U entry for key. For revision 3 only the
// first 16 bytes are significant.
func computeU(r int, key, docID []byte) []byte {
	if r == 2 {
		a, _ := NewArcfour(key)
		return a.Process(passwordPadding)
	}

	h := md5.New()
	h.Write(passwordPadding)
	h.Write(docID)
	x := h.Sum(nil)

	a, _ := NewArcfour(key)
	x = a.Process(x)
	tmp := make([]byte, len(key))
	for i := 1; i <= 19; i++ {
		for j := range key {
			tmp[j] = key[j] ^ byte(i)
		}
		a, _ = NewArcfour(tmp)
		x = a.Process(x)
	}
	return append(x, x...)
}
