// Package contentstream provides parsing of PDF content streams.
//
// Content streams contain the instructions for rendering page content,
// including text display, graphics operations, and image placement.
//
// # Content Stream Operations
//
// PDF content streams consist of operators and their operands:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// Inline images come back as a single BI operation whose operands are the
// image dictionary and the raw image bytes.
//
// # Text
//
// Text decodes the strings shown by Tj, TJ, ' and " with the fonts that
// Tf selects:
//
//	text := contentstream.Text(ops, map[string]*font.Font{"F1": f1})
package contentstream
