package font

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfdecode/cmap"
	"github.com/tsawler/pdfdecode/core"
)

// Resolver fetches the object an indirect reference points to.
type Resolver func(core.IndirectRef) (core.Object, error)

// Option configures NewFont.
type Option func(*Font)

// WithLogger sets the logger for fonts whose CMap or Unicode map cannot be
// found. The default discards everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(f *Font) {
		f.logger = logger
	}
}

// Font turns the bytes of a string shown with a PDF font into text.
// Simple fonts (Type1, TrueType, Type3) use one byte per code and an
// encoding table; composite fonts (Type0) map codes to CIDs through a
// CMap and CIDs to text through a Unicode map.
type Font struct {
	Name     string
	BaseFont string
	Subtype  string

	// Encoding is the base encoding of a simple font or the CMap name of
	// a composite font.
	Encoding string

	// CharacterCollection is Registry-Ordering from CIDSystemInfo, for
	// example "Adobe-Japan1". Empty for simple fonts.
	CharacterCollection string

	composite bool
	cmap      cmap.Mapper
	encoding  map[int]string
	toUnicode *cmap.UnicodeMap

	logger logrus.FieldLogger
}

// NewFont builds a font from its dictionary. The resolver follows
// indirect references and may be nil when the dictionary has none. The
// registry supplies named CMaps and CID to Unicode maps for composite
// fonts; nil serves only Identity-H and Identity-V.
func NewFont(fontDict core.Dict, resolve Resolver, reg *cmap.Registry, opts ...Option) (*Font, error) {
	f := &Font{}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		f.logger = l
	}
	if reg == nil {
		reg = cmap.NewRegistry(nil, cmap.WithLogger(f.logger))
	}
	if resolve == nil {
		resolve = func(ref core.IndirectRef) (core.Object, error) {
			return nil, fmt.Errorf("unresolved reference %s", ref)
		}
	}
	r := resolver(resolve)

	if name, ok := fontDict.GetName("Name"); ok {
		f.Name = string(name)
	}
	if name, ok := fontDict.GetName("BaseFont"); ok {
		f.BaseFont = string(name)
	}
	if name, ok := fontDict.GetName("Subtype"); ok {
		f.Subtype = string(name)
	}

	var err error
	if f.Subtype == "Type0" {
		err = f.loadComposite(fontDict, r, reg)
	} else {
		err = f.loadSimple(fontDict, r)
	}
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", f.BaseFont, err)
	}

	if obj, err := r.get(fontDict.Get("ToUnicode")); err != nil {
		return nil, fmt.Errorf("font %s: ToUnicode: %w", f.BaseFont, err)
	} else if s, ok := obj.(*core.Stream); ok {
		data, err := s.Decode()
		if err != nil {
			return nil, fmt.Errorf("font %s: ToUnicode: %w", f.BaseFont, err)
		}
		f.toUnicode, err = cmap.ParseUnicodeMap(bytes.NewReader(data), cmap.WithLogger(f.logger))
		if err != nil {
			return nil, fmt.Errorf("font %s: ToUnicode: %w", f.BaseFont, err)
		}
	} else if f.composite && f.CharacterCollection != "" && f.CharacterCollection != "Adobe-Identity" {
		um, err := reg.UnicodeMap(f.CharacterCollection, f.cmap.IsVertical())
		if err != nil {
			f.logger.WithFields(logrus.Fields{"font": f.BaseFont, "collection": f.CharacterCollection}).
				WithError(err).Debug("no unicode map for character collection")
		} else {
			f.toUnicode = um
		}
	}

	return f, nil
}

type resolver Resolver

// get resolves obj when it is a reference. A nil object stays nil.
func (r resolver) get(obj core.Object) (core.Object, error) {
	for i := 0; i < 32; i++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		var err error
		if obj, err = r(ref); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("reference chain too long")
}

func (r resolver) dict(obj core.Object) (core.Dict, error) {
	obj, err := r.get(obj)
	if err != nil {
		return nil, err
	}
	d, _ := obj.(core.Dict)
	return d, nil
}

// loadSimple reads /Encoding: a name, or a dictionary with BaseEncoding
// and Differences. The default is StandardEncoding.
func (f *Font) loadSimple(fontDict core.Dict, r resolver) error {
	f.Encoding = StandardEncoding

	obj, err := r.get(fontDict.Get("Encoding"))
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	var differences core.Array
	switch enc := obj.(type) {
	case core.Name:
		f.Encoding = string(enc)
	case core.Dict:
		if base, ok := enc.GetName("BaseEncoding"); ok {
			f.Encoding = string(base)
		}
		diffs, err := r.get(enc.Get("Differences"))
		if err != nil {
			return fmt.Errorf("differences: %w", err)
		}
		differences, _ = diffs.(core.Array)
	}

	f.encoding = DefaultEncodingDB().EncodingForFont(f.Encoding, differences, f.BaseFont)
	return nil
}

// loadComposite merges the first descendant font into the Type0
// dictionary, then finds the CMap named or embedded in /Encoding.
func (f *Font) loadComposite(fontDict core.Dict, r resolver, reg *cmap.Registry) error {
	f.composite = true

	merged := core.Dict{}
	descendants, err := r.get(fontDict.Get("DescendantFonts"))
	if err != nil {
		return fmt.Errorf("descendant fonts: %w", err)
	}
	if arr, ok := descendants.(core.Array); ok && len(arr) > 0 {
		d, err := r.dict(arr[0])
		if err != nil {
			return fmt.Errorf("descendant font: %w", err)
		}
		for k, v := range d {
			merged[k] = v
		}
	}
	for k, v := range fontDict {
		merged[k] = v
	}

	info, err := r.dict(merged.Get("CIDSystemInfo"))
	if err != nil {
		return fmt.Errorf("CIDSystemInfo: %w", err)
	}
	if info != nil {
		registry, _ := r.get(info.Get("Registry"))
		ordering, _ := r.get(info.Get("Ordering"))
		f.CharacterCollection = textOf(registry) + "-" + textOf(ordering)
	}

	obj, err := r.get(merged.Get("Encoding"))
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	switch enc := obj.(type) {
	case core.Name:
		f.Encoding = string(enc)
		f.cmap, err = reg.CMap(f.Encoding)
		if err != nil {
			f.logger.WithFields(logrus.Fields{"font": f.BaseFont, "cmap": f.Encoding}).
				WithError(err).Warn("cmap not available, no codes will decode")
			f.cmap = cmap.NewCMap(f.Encoding)
		}
	case *core.Stream:
		data, err := enc.Decode()
		if err != nil {
			return fmt.Errorf("embedded cmap: %w", err)
		}
		cm, err := cmap.ParseCMap(bytes.NewReader(data), cmap.WithResolver(reg), cmap.WithLogger(f.logger))
		if err != nil {
			return fmt.Errorf("embedded cmap: %w", err)
		}
		if name, ok := enc.Dict.GetName("CMapName"); ok {
			f.Encoding = string(name)
		} else {
			f.Encoding = cm.Name()
		}
		f.cmap = cm
	default:
		f.logger.WithFields(logrus.Fields{"font": f.BaseFont}).Warn("composite font without encoding")
		f.cmap = cmap.NewCMap("")
	}
	return nil
}

func textOf(obj core.Object) string {
	switch v := obj.(type) {
	case core.String:
		return string(v)
	case core.Name:
		return string(v)
	}
	return ""
}

// IsComposite reports whether the font is a Type0 font.
func (f *Font) IsComposite() bool { return f.composite }

// IsVertical reports whether the font's CMap uses vertical writing mode.
func (f *Font) IsVertical() bool {
	return f.composite && f.cmap.IsVertical()
}

// Decode splits a shown string into character IDs: one per byte for a
// simple font, as many as the CMap yields for a composite font.
func (f *Font) Decode(data []byte) []int {
	if f.composite {
		return f.cmap.Decode(data)
	}
	cids := make([]int, len(data))
	for i, b := range data {
		cids[i] = int(b)
	}
	return cids
}

// ToUnicode returns the text for one character ID. The ToUnicode map is
// consulted first; a simple font then falls back to its encoding.
func (f *Font) ToUnicode(cid int) (string, bool) {
	if f.toUnicode != nil {
		if s, ok := f.toUnicode.Lookup(cid); ok {
			return s, true
		}
	}
	if !f.composite {
		s, ok := f.encoding[cid]
		return s, ok
	}
	return "", false
}

// DecodeString decodes data to NFC-normalized text. A character with no
// Unicode value is written as "(cid:N)".
func (f *Font) DecodeString(data []byte) string {
	var b strings.Builder
	for _, cid := range f.Decode(data) {
		if s, ok := f.ToUnicode(cid); ok {
			b.WriteString(s)
			continue
		}
		b.WriteString("(cid:")
		b.WriteString(strconv.Itoa(cid))
		b.WriteByte(')')
	}
	return NormalizeUnicode(b.String())
}
