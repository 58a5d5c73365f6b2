// Package pdfdecode provides a fluent API over the PDF stream decoding and
// character mapping packages.
//
// Basic usage:
//
//	dec := pdfdecode.New().WithLoader(cmap.NewDirLoader())
//	data, err := dec.DecodeStream(stream)
//
// With options:
//
//	dec := pdfdecode.New().
//	    Lenient().
//	    MaxDecodedSize(64 << 20).
//	    WithLogger(logrus.StandardLogger())
//
// Object definitions can be parsed and their fonts used for text:
//
//	objs, err := dec.ParseObjects(r)
//	fonts, err := dec.Fonts(resources, dec.Resolve(objs))
//	text, err := dec.ExtractText(content, fonts)
//
// For finer control the core, cmap, font, resolver and crypt packages are
// available directly.
package pdfdecode

// New returns a Decoder with default options: strict decoding, no size
// limit, a discarding logger and CMaps read from CMAP_PATH and the
// default directories.
//
// Example:
//
//	data, err := pdfdecode.New().DecodeStream(stream)
func New() *Decoder {
	d := &Decoder{options: defaultOptions()}
	d.registry = d.newRegistry()
	return d
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	data := pdfdecode.Must(pdfdecode.New().DecodeStream(stream))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
