// Package crypt implements the RC4 (Arcfour) stream cipher and the PDF
// standard security handler for revisions 2 and 3.
package crypt

import (
	"crypto/rc4"
	"errors"
)

// ErrEmptyKey is returned by NewArcfour for a zero-length key.
var ErrEmptyKey = errors.New("arcfour: empty key")

// maxKeyLen is the longest key the key schedule can use. Longer keys
// contribute only their first maxKeyLen bytes.
const maxKeyLen = 256

// Arcfour is an RC4 keystream. The keystream position persists across
// calls to Process, so a message may be processed in pieces.
type Arcfour struct {
	c *rc4.Cipher
}

// NewArcfour runs the key schedule for key.
func NewArcfour(key []byte) (*Arcfour, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Arcfour{c: c}, nil
}

// Process XORs data with the next len(data) keystream bytes. Encryption
// and decryption are the same operation.
func (a *Arcfour) Process(data []byte) []byte {
	out := make([]byte, len(data))
	a.c.XORKeyStream(out, data)
	return out
}

// Decipher decrypts the data of one indirect object. It is the hook type
// installed on streams by the object parser.
type Decipher func(objID, gen int, data []byte) ([]byte, error)
