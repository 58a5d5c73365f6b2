// Package cmap implements PDF CMaps: tries mapping multi-byte character
// codes to CIDs, CID to Unicode maps, a parser for the PostScript CMap
// language, and a registry that loads and caches named CMaps.
package cmap

import (
	"fmt"
	"io"
	"sort"

	"github.com/tsawler/pdfdecode/core"
)

// Mapper turns a byte string into CIDs.
type Mapper interface {
	Decode(code []byte) []int
	IsVertical() bool
}

// node is one level of the code trie. A leaf carries a CID and has no
// children.
type node struct {
	leaf     bool
	cid      int
	children map[byte]*node
}

func newInterior() *node {
	return &node{children: make(map[byte]*node)}
}

func (n *node) clone() *node {
	if n.leaf {
		return &node{leaf: true, cid: n.cid}
	}
	c := newInterior()
	for b, child := range n.children {
		c.children[b] = child.clone()
	}
	return c
}

// CMap maps variable-length character codes to CIDs.
type CMap struct {
	name  string
	attrs map[string]core.Object
	root  *node
}

// NewCMap returns an empty CMap.
func NewCMap(name string) *CMap {
	return &CMap{
		name:  name,
		attrs: make(map[string]core.Object),
		root:  newInterior(),
	}
}

// Name returns the CMap name, taken from /CMapName when none was given.
func (c *CMap) Name() string { return c.name }

// Attr returns an attribute set by def, such as WMode or CIDSystemInfo.
func (c *CMap) Attr(key string) (core.Object, bool) {
	v, ok := c.attrs[key]
	return v, ok
}

// SetAttr stores a CMap attribute.
func (c *CMap) SetAttr(key string, value core.Object) {
	c.attrs[key] = value
	if key == "CMapName" && c.name == "" {
		if n, ok := value.(core.Name); ok {
			c.name = string(n)
		}
	}
}

// IsVertical reports whether WMode is 1.
func (c *CMap) IsVertical() bool {
	wmode, ok := c.attrs["WMode"].(core.Int)
	return ok && wmode != 0
}

// Add maps code to cid. A code that runs through an existing leaf
// replaces it.
func (c *CMap) Add(code []byte, cid int) {
	if len(code) == 0 {
		return
	}
	n := c.root
	for _, b := range code[:len(code)-1] {
		child, ok := n.children[b]
		if !ok || child.leaf {
			child = newInterior()
			n.children[b] = child
		}
		n = child
	}
	n.children[code[len(code)-1]] = &node{leaf: true, cid: cid}
}

// AddCode implements Target.
func (c *CMap) AddCode(code []byte, cid int) { c.Add(code, cid) }

// AddUnicode implements Target; a CMap keeps no Unicode values.
func (c *CMap) AddUnicode(int, string) {}

// Decode walks the trie one byte at a time, emitting a CID at every leaf
// and restarting at the root. A byte with no path from the current node
// is dropped together with the partial code before it.
func (c *CMap) Decode(code []byte) []int {
	var cids []int
	n := c.root
	for _, b := range code {
		child, ok := n.children[b]
		if !ok {
			n = c.root
			continue
		}
		if child.leaf {
			cids = append(cids, child.cid)
			n = c.root
			continue
		}
		n = child
	}
	return cids
}

// UseCMap merges every mapping of base into c. Codes c already maps keep
// their CID.
func (c *CMap) UseCMap(base *CMap) {
	merge(c.root, base.root)
}

func merge(dst, src *node) {
	for b, s := range src.children {
		d, ok := dst.children[b]
		switch {
		case !ok:
			dst.children[b] = s.clone()
		case !d.leaf && !s.leaf:
			merge(d, s)
		}
	}
}

// Len returns the number of mapped codes.
func (c *CMap) Len() int {
	return countLeaves(c.root)
}

func countLeaves(n *node) int {
	if n.leaf {
		return 1
	}
	total := 0
	for _, child := range n.children {
		total += countLeaves(child)
	}
	return total
}

// Dump writes the attributes and every code to CID mapping in code order.
func (c *CMap) Dump(w io.Writer) error {
	if err := dumpAttrs(w, c.attrs); err != nil {
		return err
	}
	return dumpNode(w, c.root, nil)
}

func dumpNode(w io.Writer, n *node, prefix []byte) error {
	keys := make([]int, 0, len(n.children))
	for b := range n.children {
		keys = append(keys, int(b))
	}
	sort.Ints(keys)

	for _, k := range keys {
		child := n.children[byte(k)]
		code := append(prefix[:len(prefix):len(prefix)], byte(k))
		if child.leaf {
			if _, err := fmt.Fprintf(w, "code <%x> = cid %d\n", code, child.cid); err != nil {
				return err
			}
			continue
		}
		if err := dumpNode(w, child, code); err != nil {
			return err
		}
	}
	return nil
}

func dumpAttrs(w io.Writer, attrs map[string]core.Object) error {
	for _, k := range core.Dict(attrs).Keys() {
		if _, err := fmt.Fprintf(w, "/%s %s\n", k, attrs[k]); err != nil {
			return err
		}
	}
	return nil
}

// IdentityCMap maps every 2-byte big-endian code to the same CID. It
// backs the predefined Identity-H and Identity-V CMaps.
type IdentityCMap struct {
	Vertical bool
}

// Decode returns one CID per byte pair. An odd final byte is ignored.
func (m IdentityCMap) Decode(code []byte) []int {
	cids := make([]int, 0, len(code)/2)
	for i := 0; i+1 < len(code); i += 2 {
		cids = append(cids, int(code[i])<<8|int(code[i+1]))
	}
	return cids
}

func (m IdentityCMap) IsVertical() bool { return m.Vertical }
