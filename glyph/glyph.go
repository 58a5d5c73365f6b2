// Package glyph maps PostScript glyph names to Unicode text.
package glyph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"seehuhn.de/go/postscript/type1/names"
)

// ErrUnknownGlyph is returned when a glyph name has no Unicode value.
var ErrUnknownGlyph = errors.New("unknown glyph name")

// ToUnicode returns the text for glyph name. Names from the Adobe Glyph
// List and the uniXXXX/uXXXXX forms are resolved through the glyph list.
// Any other name containing a run of decimal digits, such as g65 or
// cid00032, maps to the code point given by the first run.
func ToUnicode(name string) (string, error) {
	return ForFont(name, "")
}

// ForFont is ToUnicode for a glyph of the font baseFont. ZapfDingbats
// names (a1, a2, ...) resolve through the ZapfDingbats glyph list; a
// subset prefix such as "ABCDEF+" is ignored.
func ForFont(name, baseFont string) (string, error) {
	if i := strings.IndexByte(baseFont, '+'); i == 6 {
		baseFont = baseFont[i+1:]
	}
	if text := names.ToUnicode(name, baseFont); meaningful(text) {
		return text, nil
	}

	if r, ok := digitFallback(name); ok {
		return string(r), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGlyph, name)
}

// meaningful rejects empty results and the private-use placeholders the
// glyph list produces for names it cannot resolve.
func meaningful(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r != unicode.ReplacementChar && !unicode.In(r, unicode.Co) {
			return true
		}
	}
	return false
}

func digitFallback(name string) (rune, bool) {
	start := -1
	end := len(name)
	for i := 0; i < len(name); i++ {
		isDigit := name[i] >= '0' && name[i] <= '9'
		if start < 0 && isDigit {
			start = i
		} else if start >= 0 && !isDigit {
			end = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(name[start:end], 10, 32)
	if err != nil || n > unicode.MaxRune {
		return 0, false
	}
	return rune(n), true
}
