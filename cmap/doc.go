/*
Package cmap decodes PDF character codes into CIDs and CIDs into text.

A CMap is a trie keyed by the bytes of a character code. Decode walks the
trie byte by byte and emits a CID at every leaf:

	cm := cmap.NewCMap("Example")
	cm.Add([]byte{0x81, 0x40}, 633)
	cids := cm.Decode([]byte{0x81, 0x40}) // [633]

CMap programs, including ToUnicode streams, are read with ParseCMap and
ParseUnicodeMap. Named CMaps come from a Registry, which caches what its
Loader returns:

	reg := cmap.NewRegistry(cmap.NewDirLoader())
	m, err := reg.CMap("90ms-RKSJ-H")
	if errors.Is(err, cmap.ErrCMapNotFound) {
		// no data for that name
	}

Identity-H and Identity-V need no data; they read two-byte big-endian
codes and return them unchanged.
*/
package cmap
