package cmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader opens the raw CMap program stored under a name. The data may be
// gzip-compressed. A missing name yields an error wrapping fs.ErrNotExist.
type Loader interface {
	Open(name string) (io.ReadCloser, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(name string) (io.ReadCloser, error)

func (f LoaderFunc) Open(name string) (io.ReadCloser, error) { return f(name) }

// EnvCMapPath lists extra CMap directories, separated like PATH.
const EnvCMapPath = "CMAP_PATH"

// DefaultDirs are searched after the directories in CMAP_PATH.
var DefaultDirs = []string{
	"/usr/share/pdfminer/",
	"/usr/share/poppler/cMap/",
	"/usr/share/fonts/cmap/",
}

// DirLoader reads CMaps from files named <dir>/<name> or
// <dir>/<name>.gz.
type DirLoader struct {
	Dirs []string
}

// NewDirLoader returns a loader over dirs, or over CMAP_PATH and
// DefaultDirs when dirs is empty.
func NewDirLoader(dirs ...string) *DirLoader {
	if len(dirs) == 0 {
		dirs = append(filepath.SplitList(os.Getenv(EnvCMapPath)), DefaultDirs...)
	}
	return &DirLoader{Dirs: dirs}
}

func (l *DirLoader) Open(name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, fmt.Errorf("open %q: %w", name, fs.ErrNotExist)
	}
	for _, dir := range l.Dirs {
		if dir == "" {
			continue
		}
		for _, file := range []string{name, name + ".gz"} {
			f, err := os.Open(filepath.Join(dir, file))
			if err == nil {
				return f, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("open %q: %w", name, fs.ErrNotExist)
}

// FSLoader reads CMaps from a directory of an fs.FS, such as an embedded
// file system.
type FSLoader struct {
	FS  fs.FS
	Dir string
}

func (l FSLoader) Open(name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, fmt.Errorf("open %q: %w", name, fs.ErrNotExist)
	}
	dir := l.Dir
	if dir == "" {
		dir = "."
	}
	var firstErr error
	for _, file := range []string{name, name + ".gz"} {
		f, err := l.FS.Open(path.Join(dir, file))
		if err == nil {
			return f, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// MapLoader serves CMaps held in memory.
type MapLoader map[string][]byte

func (m MapLoader) Open(name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("open %q: %w", name, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ChainLoader tries each loader in turn and returns the first hit.
type ChainLoader []Loader

func (c ChainLoader) Open(name string) (io.ReadCloser, error) {
	for _, l := range c {
		rc, err := l.Open(name)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("open %q: %w", name, fs.ErrNotExist)
}

// validName rejects names that would escape a CMap directory.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.Contains(name, "\x00")
}
