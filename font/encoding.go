package font

import (
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfdecode/core"
	"github.com/tsawler/pdfdecode/glyph"
)

// Names of the predefined simple encodings.
const (
	StandardEncoding = "StandardEncoding"
	MacRomanEncoding = "MacRomanEncoding"
	WinAnsiEncoding  = "WinAnsiEncoding"
	PDFDocEncoding   = "PDFDocEncoding"
)

// EncodingDB holds the code to Unicode tables of the predefined simple
// encodings. Tables are shared and must not be modified.
type EncodingDB struct {
	tables map[string]map[int]string
}

var (
	defaultDB     *EncodingDB
	defaultDBOnce sync.Once
)

// DefaultEncodingDB returns the database built from the Latin character
// set table.
func DefaultEncodingDB() *EncodingDB {
	defaultDBOnce.Do(func() {
		defaultDB = newEncodingDB()
	})
	return defaultDB
}

func newEncodingDB() *EncodingDB {
	std := make(map[int]string)
	mac := make(map[int]string)
	win := make(map[int]string)
	pdf := make(map[int]string)

	for _, e := range latinEncoding {
		text, err := glyph.ToUnicode(e.name)
		if err != nil {
			continue
		}
		if e.std != 0 {
			std[int(e.std)] = text
		}
		if e.mac != 0 {
			mac[int(e.mac)] = text
		}
		if e.win != 0 {
			win[int(e.win)] = text
		}
		if e.pdf != 0 {
			pdf[int(e.pdf)] = text
		}
	}

	return &EncodingDB{tables: map[string]map[int]string{
		StandardEncoding: std,
		MacRomanEncoding: mac,
		WinAnsiEncoding:  win,
		PDFDocEncoding:   pdf,
	}}
}

// Encoding returns a fresh code to Unicode map for the named encoding with
// a Differences array applied. Unknown names fall back to
// StandardEncoding. In the Differences array an integer sets the next
// code and each name assigns that code and advances it; names with no
// Unicode value are skipped but still advance.
func (db *EncodingDB) Encoding(name string, differences core.Array) map[int]string {
	return db.EncodingForFont(name, differences, "")
}

// EncodingForFont is Encoding with the Differences glyph names resolved
// for the font baseFont, so that ZapfDingbats names map to dingbats.
func (db *EncodingDB) EncodingForFont(name string, differences core.Array, baseFont string) map[int]string {
	base, ok := db.tables[name]
	if !ok {
		base = db.tables[StandardEncoding]
	}

	enc := make(map[int]string, len(base)+len(differences))
	for code, text := range base {
		enc[code] = text
	}

	code := 0
	for _, item := range differences {
		switch v := item.(type) {
		case core.Int:
			code = int(v)
		case core.Name:
			if text, err := glyph.ForFont(string(v), baseFont); err == nil {
				enc[code] = text
			}
			code++
		}
	}
	return enc
}

// Has reports whether name is one of the predefined encodings.
func (db *EncodingDB) Has(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// GetEncoding is Encoding on the default database.
func GetEncoding(name string, differences core.Array) map[int]string {
	return DefaultEncodingDB().Encoding(name, differences)
}

// NormalizeUnicode converts s to NFC so that precomposed and decomposed
// forms of the same text compare equal.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}
