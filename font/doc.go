// Package font decodes the strings shown with a PDF font into text.
//
// Simple fonts (Type1, TrueType, Type3) read one byte per character and
// map it through an encoding: a predefined one such as WinAnsiEncoding,
// optionally patched by a Differences array.
//
//	enc := font.GetEncoding(font.WinAnsiEncoding, nil)
//	text := enc[0x80] // "€"
//
// Composite (Type0) fonts read multi-byte codes through a CMap and map the
// resulting CIDs to text through the font's ToUnicode stream or the
// Unicode map of its character collection:
//
//	reg := cmap.NewRegistry(cmap.NewDirLoader())
//	f, err := font.NewFont(fontDict, resolve, reg)
//	if err != nil {
//	    return err
//	}
//	text := f.DecodeString(shown)
//
// Characters without a Unicode value come out as "(cid:N)".
package font
