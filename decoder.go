package pdfdecode

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfdecode/cmap"
	"github.com/tsawler/pdfdecode/contentstream"
	"github.com/tsawler/pdfdecode/core"
	"github.com/tsawler/pdfdecode/crypt"
	"github.com/tsawler/pdfdecode/font"
	"github.com/tsawler/pdfdecode/resolver"
)

// Decoder decodes PDF streams and builds fonts and CMaps with one shared
// configuration. Each configuration method returns a new Decoder, so a
// Decoder is safe for concurrent use and can be chained.
type Decoder struct {
	options  DecodeOptions
	registry *cmap.Registry

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Decoder sharing its CMap cache.
func (d *Decoder) clone() *Decoder {
	return &Decoder{
		options:  d.options.clone(),
		registry: d.registry,
		err:      d.err,
	}
}

func (d *Decoder) newRegistry() *cmap.Registry {
	return cmap.NewRegistry(d.options.loader, cmap.WithLogger(d.options.logger))
}

// Lenient keeps the partial output of a filter that meets malformed input,
// logging a warning instead of failing.
func (d *Decoder) Lenient() *Decoder {
	n := d.clone()
	n.options.lenient = true
	return n
}

// MaxDecodedSize limits the output of every filter stage to n bytes.
// Zero removes the limit.
func (d *Decoder) MaxDecodedSize(n int) *Decoder {
	n2 := d.clone()
	if n < 0 {
		n2.err = fmt.Errorf("negative decoded size limit %d", n)
		return n2
	}
	n2.options.maxDecodedSize = n
	return n2
}

// WithLoader sets where named CMaps are read from. The returned Decoder
// has its own, empty CMap cache.
func (d *Decoder) WithLoader(l cmap.Loader) *Decoder {
	n := d.clone()
	n.options.loader = l
	n.registry = n.newRegistry()
	return n
}

// WithLogger sets the logger for lenient recoveries and CMap lookups.
func (d *Decoder) WithLogger(l logrus.FieldLogger) *Decoder {
	n := d.clone()
	n.options.logger = l
	n.registry = n.newRegistry()
	return n
}

// WithDecipher installs a decryption hook for streams and strings.
func (d *Decoder) WithDecipher(fn crypt.Decipher) *Decoder {
	n := d.clone()
	n.options.decipher = fn
	return n
}

// WithSecurity authenticates password against the document's /Encrypt
// dictionary and installs the resulting decryption hook. docID is the
// first element of the trailer /ID array. A failure is reported by the
// next terminal operation.
func (d *Decoder) WithSecurity(encrypt core.Dict, docID []byte, password string) *Decoder {
	n := d.clone()
	if n.err != nil {
		return n
	}
	enc, err := crypt.EncryptDictFromCore(encrypt)
	if err != nil {
		n.err = fmt.Errorf("encrypt dictionary: %w", err)
		return n
	}
	h, err := crypt.NewStandardHandler(enc, docID, password)
	if err != nil {
		n.err = fmt.Errorf("security handler: %w", err)
		return n
	}
	n.options.logger.WithFields(logrus.Fields{
		"revision": enc.R,
		"bits":     enc.Length,
		"extract":  h.CanExtract(),
	}).Debug("document decryption enabled")
	n.options.decipher = h.Func()
	return n
}

// Err returns the first configuration error, if any.
func (d *Decoder) Err() error { return d.err }

// Registry returns the CMap registry used by this Decoder.
func (d *Decoder) Registry() *cmap.Registry { return d.registry }

func (d *Decoder) streamOptions() core.DecodeOptions {
	return core.DecodeOptions{
		Lenient:        d.options.lenient,
		MaxDecodedSize: d.options.maxDecodedSize,
		Logger:         d.options.logger,
	}
}

// DecodeStream applies the Decoder's options and decryption hook to s and
// decodes it. The stream keeps its decoded bytes.
func (d *Decoder) DecodeStream(s *core.Stream) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	if s.State() == core.StreamRaw {
		s.Options = d.streamOptions()
		if d.options.decipher != nil && s.Decipher == nil {
			s.Decipher = d.options.decipher
		}
	}
	return s.Decode()
}

// ParseObjects reads consecutive "n g obj ... endobj" definitions from r.
// Streams come back raw, configured with the Decoder's options; strings
// are deciphered as they are read. A stream /Length may refer to an
// object defined earlier in the input.
func (d *Decoder) ParseObjects(r io.Reader) ([]*core.IndirectObject, error) {
	if d.err != nil {
		return nil, d.err
	}
	objs := resolver.Table{}
	p := core.NewParser(r)
	p.SetReferenceResolver(objs)
	p.SetDecodeOptions(d.streamOptions())
	if d.options.decipher != nil {
		p.SetDecipher(d.options.decipher)
	}

	var out []*core.IndirectObject
	for {
		obj, err := p.ParseIndirectObject()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("object %d: %w", len(out)+1, err)
		}
		objs.Add(obj)
		out = append(out, obj)
	}
}

// Resolve returns a font.Resolver over objs. It follows chains of
// references and attaches the Decoder's options to raw streams before
// they are returned.
func (d *Decoder) Resolve(objs []*core.IndirectObject) font.Resolver {
	r := d.resolver(objs)
	return r.ResolveReference
}

func (d *Decoder) resolver(objs []*core.IndirectObject) *resolver.ObjectResolver {
	return resolver.NewResolver(resolver.NewTable(objs), resolver.WithStreamHook(func(s *core.Stream) {
		if s.State() == core.StreamRaw {
			s.Options = d.streamOptions()
		}
	}))
}

// ResolveDeep returns obj with every reference into objs expanded.
func (d *Decoder) ResolveDeep(objs []*core.IndirectObject, obj core.Object) (core.Object, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.resolver(objs).ResolveDeep(obj)
}

// CMap returns the named CMap.
func (d *Decoder) CMap(name string) (cmap.Mapper, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.registry.CMap(name)
}

// UnicodeMap returns the CID to Unicode map of a character collection.
func (d *Decoder) UnicodeMap(collection string, vertical bool) (*cmap.UnicodeMap, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.registry.UnicodeMap(collection, vertical)
}

// Font builds a font from its dictionary, using the Decoder's registry and
// logger.
func (d *Decoder) Font(fontDict core.Dict, resolve font.Resolver) (*font.Font, error) {
	if d.err != nil {
		return nil, d.err
	}
	return font.NewFont(fontDict, resolve, d.registry, font.WithLogger(d.options.logger))
}

// DecodeText decodes a string shown with fontDict to text.
func (d *Decoder) DecodeText(fontDict core.Dict, resolve font.Resolver, shown []byte) (string, error) {
	f, err := d.Font(fontDict, resolve)
	if err != nil {
		return "", err
	}
	return f.DecodeString(shown), nil
}

// Fonts builds every font of a /Font resource dictionary, keyed by
// resource name.
func (d *Decoder) Fonts(resources core.Dict, resolve font.Resolver) (map[string]*font.Font, error) {
	if d.err != nil {
		return nil, d.err
	}
	fonts := make(map[string]*font.Font, len(resources))
	for _, name := range resources.Keys() {
		obj := resources[name]
		if ref, ok := obj.(core.IndirectRef); ok && resolve != nil {
			var err error
			if obj, err = resolve(ref); err != nil {
				return nil, fmt.Errorf("font %s: %w", name, err)
			}
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			return nil, fmt.Errorf("font %s: expected dictionary, got %T", name, obj)
		}
		f, err := d.Font(dict, resolve)
		if err != nil {
			return nil, err
		}
		fonts[name] = f
	}
	return fonts, nil
}

// Operations decodes a content stream and splits it into operations.
func (d *Decoder) Operations(content *core.Stream) ([]contentstream.Operation, error) {
	data, err := d.DecodeStream(content)
	if err != nil {
		return nil, err
	}
	return contentstream.NewParser(data).Parse()
}

// ExtractText decodes a content stream and returns the text it shows,
// using fonts keyed by resource name.
func (d *Decoder) ExtractText(content *core.Stream, fonts map[string]*font.Font) (string, error) {
	ops, err := d.Operations(content)
	if err != nil {
		return "", err
	}
	return contentstream.Text(ops, fonts), nil
}
