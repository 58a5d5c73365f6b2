// Command cmapdump prints the code to CID mappings of a CMap, or the CID
// to Unicode mappings of a character collection.
//
// Usage:
//
//	cmapdump [-d dir] [-v] 90ms-RKSJ-H
//	cmapdump [-d dir] -u [-V] Adobe-Japan1
//	cmapdump -f file.cmap
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfdecode"
	"github.com/tsawler/pdfdecode/cmap"
)

type dumper interface {
	Dump(w io.Writer) error
}

func main() {
	var (
		dirs     = flag.String("d", "", "CMap directories, separated like PATH (default CMAP_PATH)")
		file     = flag.String("f", "", "parse a CMap file instead of a named resource")
		unicode  = flag.Bool("u", false, "dump the CID to Unicode map of a character collection")
		vertical = flag.Bool("V", false, "with -u, use the vertical Unicode map")
		verbose  = flag.Bool("v", false, "log CMap loading")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	dec := pdfdecode.New().WithLogger(logger)
	if *dirs != "" {
		dec = dec.WithLoader(cmap.NewDirLoader(filepath.SplitList(*dirs)...))
	}

	var (
		d   dumper
		err error
	)
	switch {
	case *file != "":
		d, err = parseFile(*file, *unicode, dec)
	case flag.NArg() != 1:
		fmt.Fprintln(os.Stderr, "usage: cmapdump [-d dirs] [-u [-V]] name | -f file")
		os.Exit(2)
	case *unicode:
		d, err = dec.UnicodeMap(flag.Arg(0), *vertical)
	default:
		d, err = namedCMap(dec, flag.Arg(0))
	}
	if err != nil {
		logger.WithError(err).Fatal("cannot load cmap")
	}

	if err := d.Dump(os.Stdout); err != nil {
		logger.WithError(err).Fatal("write failed")
	}
}

func namedCMap(dec *pdfdecode.Decoder, name string) (dumper, error) {
	m, err := dec.CMap(name)
	if err != nil {
		return nil, err
	}
	cm, ok := m.(*cmap.CMap)
	if !ok {
		return nil, fmt.Errorf("%s is a built-in identity mapping", name)
	}
	return cm, nil
}

func parseFile(name string, unicode bool, dec *pdfdecode.Decoder) (dumper, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if unicode || strings.HasPrefix(filepath.Base(name), "to-unicode-") {
		return cmap.ParseUnicodeMap(f)
	}
	return cmap.ParseCMap(f, cmap.WithResolver(dec.Registry()))
}
