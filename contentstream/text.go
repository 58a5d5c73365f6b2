package contentstream

import (
	"strings"

	"github.com/tsawler/pdfdecode/core"
	"github.com/tsawler/pdfdecode/font"
)

// Text concatenates the strings shown by ops, decoded with the fonts
// selected by Tf. fonts is keyed by resource name without the slash.
// Strings shown with an unknown font decode through StandardEncoding.
// A line break is written at T*, ', ", a Td or TD with a vertical move,
// and at the end of each text object.
func Text(ops []Operation, fonts map[string]*font.Font) string {
	var (
		b        strings.Builder
		current  *font.Font
		fallback *font.Font
	)

	show := func(obj core.Object) {
		s, ok := obj.(core.String)
		if !ok {
			return
		}
		f := current
		if f == nil {
			if fallback == nil {
				fallback, _ = font.NewFont(core.Dict{"Subtype": core.Name("Type1")}, nil, nil)
			}
			f = fallback
		}
		b.WriteString(f.DecodeString([]byte(s)))
	}
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}

	for _, op := range ops {
		n := len(op.Operands)
		switch op.Operator {
		case "Tf":
			current = nil
			if n >= 1 {
				if name, ok := op.Operands[0].(core.Name); ok {
					current = fonts[string(name)]
				}
			}
		case "Tj":
			if n >= 1 {
				show(op.Operands[n-1])
			}
		case "'", "\"":
			newline()
			if n >= 1 {
				show(op.Operands[n-1])
			}
		case "TJ":
			if n >= 1 {
				if arr, ok := op.Operands[n-1].(core.Array); ok {
					for _, item := range arr {
						show(item)
					}
				}
			}
		case "T*", "ET":
			newline()
		case "Td", "TD":
			if n >= 2 && number(op.Operands[1]) != 0 {
				newline()
			}
		}
	}
	return b.String()
}

func number(obj core.Object) float64 {
	switch v := obj.(type) {
	case core.Int:
		return float64(v)
	case core.Real:
		return float64(v)
	}
	return 0
}
