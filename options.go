package pdfdecode

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfdecode/cmap"
	"github.com/tsawler/pdfdecode/crypt"
)

// DecodeOptions holds the configuration shared by everything a Decoder
// produces.
type DecodeOptions struct {
	// Stream decoding
	lenient        bool
	maxDecodedSize int

	// CMap lookup
	loader cmap.Loader

	// Decryption hook, nil for unencrypted documents
	decipher crypt.Decipher

	logger logrus.FieldLogger
}

// defaultOptions returns the default decoding options.
func defaultOptions() DecodeOptions {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return DecodeOptions{
		lenient:        false,
		maxDecodedSize: 0, // no limit
		loader:         cmap.NewDirLoader(),
		decipher:       nil,
		logger:         l,
	}
}

// clone creates a copy of DecodeOptions.
func (o DecodeOptions) clone() DecodeOptions {
	return DecodeOptions{
		lenient:        o.lenient,
		maxDecodedSize: o.maxDecodedSize,
		loader:         o.loader,
		decipher:       o.decipher,
		logger:         o.logger,
	}
}
