// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// grouper reports the genomic extent of groups of dredge ORF features
// read from stdin.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

func main() {
	groups, err := extents(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	for _, g := range groups {
		fmt.Printf("%s\t%d\t%d\t%d\n", g.chrom, g.start, g.end, g.id)
	}
}

type extent struct {
	id         int
	chrom      string
	start, end int
}

// extents returns the extents of the ORF groups read from r in ascending
// group order. Features without a group are ignored.
func extents(r io.Reader) ([]extent, error) {
	groups := make(map[int]extent)
	sc := featio.NewScanner(gff.NewReader(r))
	for sc.Next() {
		f := sc.Feat().(*gff.Feature)
		g := f.FeatAttributes.Get("Group")
		if g == "" {
			continue
		}
		id, err := strconv.Atoi(g)
		if err != nil {
			return nil, fmt.Errorf("failed to parse group id: %w", err)
		}
		grp, ok := groups[id]
		if !ok {
			groups[id] = extent{id: id, chrom: f.SeqName, start: f.FeatStart, end: f.FeatEnd}
			continue
		}
		if f.SeqName != grp.chrom {
			return nil, fmt.Errorf("group %d spans %s and %s", id, grp.chrom, f.SeqName)
		}
		if f.FeatStart < grp.start {
			grp.start = f.FeatStart
		}
		if grp.end < f.FeatEnd {
			grp.end = f.FeatEnd
		}
		groups[id] = grp
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("error during gff read: %w", err)
	}

	exts := make([]extent, 0, len(groups))
	for _, e := range groups {
		exts = append(exts, e)
	}
	sort.Slice(exts, func(i, j int) bool { return exts[i].id < exts[j].id })
	return exts, nil
}
