package cmap

import (
	"fmt"
	"io"
	"sort"

	"github.com/tsawler/pdfdecode/core"
)

// UnicodeMap maps CIDs, or character codes of a ToUnicode CMap, to text.
type UnicodeMap struct {
	name     string
	vertical bool
	attrs    map[string]core.Object
	m        map[int]string
}

// NewUnicodeMap returns an empty map.
func NewUnicodeMap(name string, vertical bool) *UnicodeMap {
	return &UnicodeMap{
		name:     name,
		vertical: vertical,
		attrs:    make(map[string]core.Object),
		m:        make(map[int]string),
	}
}

func (u *UnicodeMap) Name() string { return u.name }

func (u *UnicodeMap) IsVertical() bool { return u.vertical }

// Lookup returns the text for cid.
func (u *UnicodeMap) Lookup(cid int) (string, bool) {
	s, ok := u.m[cid]
	return s, ok
}

// Add maps cid to text, replacing any earlier value.
func (u *UnicodeMap) Add(cid int, text string) {
	u.m[cid] = text
}

// Len returns the number of mapped CIDs.
func (u *UnicodeMap) Len() int { return len(u.m) }

// SetAttr implements Target.
func (u *UnicodeMap) SetAttr(key string, value core.Object) {
	u.attrs[key] = value
	if key == "CMapName" && u.name == "" {
		if n, ok := value.(core.Name); ok {
			u.name = string(n)
		}
	}
}

// Attr returns an attribute set by def.
func (u *UnicodeMap) Attr(key string) (core.Object, bool) {
	v, ok := u.attrs[key]
	return v, ok
}

// AddCode implements Target; code to CID mappings are not kept.
func (u *UnicodeMap) AddCode([]byte, int) {}

// AddUnicode implements Target.
func (u *UnicodeMap) AddUnicode(cid int, text string) { u.Add(cid, text) }

// Dump writes the attributes and every mapping in CID order.
func (u *UnicodeMap) Dump(w io.Writer) error {
	if err := dumpAttrs(w, u.attrs); err != nil {
		return err
	}
	cids := make([]int, 0, len(u.m))
	for cid := range u.m {
		cids = append(cids, cid)
	}
	sort.Ints(cids)
	for _, cid := range cids {
		if _, err := fmt.Fprintf(w, "cid %d = %+q\n", cid, u.m[cid]); err != nil {
			return err
		}
	}
	return nil
}
