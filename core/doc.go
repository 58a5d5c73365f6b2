// Package core provides the PDF object model, a lexer shared with the CMap
// parser, an object parser, and the stream filter pipeline.
//
// # Object Types
//
// The eight PDF object types ([Null], [Bool], [Int], [Real], [String],
// [Name], [Array] and [Dict]) plus [Stream] and [IndirectRef] satisfy the
// [Object] interface. [Keyword] and [Proc] carry PostScript operators and
// procedures through the CMap parser.
//
// # Parsing
//
// [Lexer] tokenizes both PDF object syntax and the PostScript subset used
// by CMap files. [Parser] builds objects and indirect objects from the
// tokens; streams it returns know their object number and generation, so
// that an encrypted document can be deciphered per object.
//
// # Stream Decoding
//
// A [Stream] starts raw and becomes decoded once:
//
//	stream := core.NewStream(dict, raw)
//	data, err := stream.Decode()
//
// Decode deciphers the payload, then runs the filters named by /Filter in
// order with their /DecodeParms, reversing PNG Up prediction after Flate
// and LZW. Image codecs (CCITTFaxDecode, DCTDecode, JBIG2Decode, JPXDecode)
// and the Crypt filter are reported as [UnsupportedFilterError].
//
// [DecodeOptions] turn on lenient recovery from malformed codec input and
// bound the size of each decoded stage.
package core
