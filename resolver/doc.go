// Package resolver looks up indirect references ("5 0 R") among objects
// parsed from a PDF fragment.
//
// A Table indexes parsed objects and is what core.Parser consults for an
// indirect stream /Length:
//
//	table := resolver.NewTable(objs)
//	obj, err := table.ResolveReference(core.IndirectRef{Number: 5})
//
// An ObjectResolver follows chains of references over any
// core.ReferenceResolver, detecting cycles, and can expand every
// reference nested in a dictionary or array:
//
//	r := resolver.NewResolver(table, resolver.WithMaxDepth(50))
//	font, err := r.ResolveDict(fontDict)
package resolver
