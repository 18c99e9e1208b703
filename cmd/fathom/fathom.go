// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fathom filters dredge ORF features on completeness, reading from stdin.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

var thresh = flag.Float64("thresh", 0, "specify minimum ORF length as a fraction of the expected CDS length")

func main() {
	flag.Parse()

	n, err := filter(gff.NewWriter(os.Stdout, 60, false), os.Stdin, *thresh)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("kept %d features", n)
}

// filter writes the features read from r to w when the ORF length is at
// least thresh of the expected CDS length. It returns the number of
// features written.
func filter(w *gff.Writer, r io.Reader, thresh float64) (int, error) {
	var n int
	sc := featio.NewScanner(gff.NewReader(r))
	for sc.Next() {
		f := sc.Feat().(*gff.Feature)
		c, err := completeness(f)
		if err != nil {
			return n, err
		}
		if c < thresh {
			continue
		}
		_, err = w.Write(f)
		if err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Error(); err != nil {
		return n, fmt.Errorf("error during gff read: %w", err)
	}
	return n, nil
}

// completeness returns the ORF length of f as a fraction of the
// expected length held in its CDS attribute.
func completeness(f *gff.Feature) (float64, error) {
	fields := strings.Fields(f.FeatAttributes.Get("CDS"))
	if len(fields) != 3 {
		return 0, fmt.Errorf("invalid CDS attribute for %s:%d-%d", f.SeqName, f.FeatStart, f.FeatEnd)
	}
	expected, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, fmt.Errorf("failed to parse expected length: %w", err)
	}
	if expected <= 0 {
		return 0, fmt.Errorf("invalid expected length: %d", expected)
	}
	return float64(f.Len()) / float64(expected), nil
}
