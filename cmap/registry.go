package cmap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Predefined names served without a loader.
const (
	IdentityH = "Identity-H"
	IdentityV = "Identity-V"
)

// Registry loads named CMaps and Unicode maps through a Loader and caches
// them. It is safe for concurrent use. Two goroutines that miss the cache
// for the same name may both load it; the last one stored wins.
type Registry struct {
	loader Loader
	logger logrus.FieldLogger

	cmaps sync.Map // name -> *CMap
	umaps sync.Map // umapKey -> *UnicodeMap
}

type umapKey struct {
	name     string
	vertical bool
}

// NewRegistry returns a registry reading through loader. A nil loader
// serves only the Identity CMaps.
func NewRegistry(loader Loader, opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{loader: loader, logger: o.logger}
}

// CMap returns the named CMap. Identity-H and Identity-V are built in.
func (r *Registry) CMap(name string) (Mapper, error) {
	return r.cmap(name, nil)
}

func (r *Registry) cmap(name string, loading []string) (Mapper, error) {
	switch name {
	case IdentityH:
		return IdentityCMap{}, nil
	case IdentityV:
		return IdentityCMap{Vertical: true}, nil
	}
	if v, ok := r.cmaps.Load(name); ok {
		return v.(*CMap), nil
	}
	for _, n := range loading {
		if n == name {
			return nil, fmt.Errorf("cmap %q: usecmap cycle", name)
		}
	}

	rc, err := r.open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cm := NewCMap(name)
	res := cycleResolver{r: r, loading: append(loading[:len(loading):len(loading)], name)}
	if err := NewParser(rc, cm, WithResolver(res), WithLogger(r.logger)).Parse(); err != nil {
		return nil, fmt.Errorf("cmap %q: %w", name, err)
	}

	r.logger.WithFields(logrus.Fields{"cmap": name, "codes": cm.Len(), "vertical": cm.IsVertical()}).Debug("cmap loaded")
	r.cmaps.Store(name, cm)
	return cm, nil
}

// cycleResolver resolves usecmap while remembering the chain of CMaps
// being loaded.
type cycleResolver struct {
	r       *Registry
	loading []string
}

func (c cycleResolver) CMap(name string) (Mapper, error) {
	return c.r.cmap(name, c.loading)
}

// UnicodeMap returns the CID to Unicode map for a character collection
// such as "Adobe-Japan1". The vertical variant is read from the -V
// resource when one exists and falls back to the horizontal one.
func (r *Registry) UnicodeMap(collection string, vertical bool) (*UnicodeMap, error) {
	key := umapKey{name: collection, vertical: vertical}
	if v, ok := r.umaps.Load(key); ok {
		return v.(*UnicodeMap), nil
	}

	resource := "to-unicode-" + collection
	rc, err := r.openUnicode(resource, vertical)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	um := NewUnicodeMap(collection, vertical)
	if err := NewParser(rc, um, WithLogger(r.logger)).Parse(); err != nil {
		return nil, fmt.Errorf("cmap %q: %w", resource, err)
	}

	r.logger.WithFields(logrus.Fields{"collection": collection, "vertical": vertical, "cids": um.Len()}).Debug("unicode map loaded")
	r.umaps.Store(key, um)
	return um, nil
}

func (r *Registry) openUnicode(resource string, vertical bool) (io.ReadCloser, error) {
	if vertical {
		if rc, err := r.open(resource + "-V"); err == nil {
			return rc, nil
		}
	}
	return r.open(resource)
}

// open fetches name from the loader and transparently gunzips it.
func (r *Registry) open(name string) (io.ReadCloser, error) {
	if r.loader == nil {
		return nil, &NotFoundError{Name: name}
	}
	rc, err := r.loader.Open(name)
	if err != nil {
		return nil, &NotFoundError{Name: name, Err: err}
	}
	return maybeGzip(rc)
}

var gzipMagic = []byte{0x1f, 0x8b}

func maybeGzip(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, _ := br.Peek(len(gzipMagic))
	if !bytes.Equal(head, gzipMagic) {
		return readCloser{Reader: br, closers: []io.Closer{rc}}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return readCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (c readCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
