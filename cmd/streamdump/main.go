// Command streamdump reads indirect object definitions ("n g obj ...
// endobj"), decodes every stream through its filter chain and prints a
// hex dump of the result.
//
// Usage:
//
//	streamdump [-lenient] [-max bytes] [-raw | -ops] [-o objnum] objects.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/midbel/hexdump"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfdecode"
	"github.com/tsawler/pdfdecode/core"
)

func main() {
	var (
		lenient = flag.Bool("lenient", false, "keep partial output of malformed streams")
		limit   = flag.Int("max", 0, "maximum decoded size per filter stage, 0 for none")
		raw     = flag.Bool("raw", false, "dump the raw bytes instead of decoding")
		only    = flag.Int("o", 0, "dump only this object number")
		ops     = flag.Bool("ops", false, "print content stream operations instead of a hex dump")
		verbose = flag.Bool("v", false, "log lenient recoveries")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.WithError(err).Fatal("cannot open input")
		}
		defer f.Close()
		in = f
	}

	dec := pdfdecode.New().WithLogger(logger).MaxDecodedSize(*limit)
	if *lenient {
		dec = dec.Lenient()
	}

	objs, parseErr := dec.ParseObjects(in)
	if parseErr != nil {
		logger.WithError(parseErr).Error("stopped parsing")
	}

	failed := false
	for _, o := range objs {
		if *only != 0 && o.Ref.Number != *only {
			continue
		}
		s, ok := o.Object.(*core.Stream)
		if !ok {
			continue
		}
		fmt.Printf("%s %s\n", o.Ref, s.Dict)

		if *ops {
			list, err := dec.Operations(s)
			if err != nil {
				logger.WithFields(logrus.Fields{"object": o.Ref.String()}).WithError(err).Error("content stream failed")
				failed = true
			}
			for _, op := range list {
				fmt.Println(op.Operands, op.Operator)
			}
			continue
		}

		body := s.RawData()
		if !*raw {
			var err error
			body, err = dec.DecodeStream(s)
			if err != nil {
				logger.WithFields(logrus.Fields{"object": o.Ref.String()}).WithError(err).Error("decode failed")
				failed = true
				continue
			}
		}
		fmt.Println(hexdump.Dump(body))
	}
	if failed || parseErr != nil {
		os.Exit(1)
	}
}
