// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package group clusters ORFs that describe the same genomic locus.
//
// A single transposon copy is often hit by several alignments, by
// related families or by more than one annotated coding region,
// producing redundant ORFs. Groups are the connected components of the
// graph joining ORFs whose genomic extents are sufficiently similar.
package group

import (
	"sort"

	"github.com/biogo/store/interval"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/kortschak/dredge/orf"
)

// Overlapping returns groups of indexes into cds where members are
// joined by a chain of ORFs on the same chromosome and strand with a
// Jaccard similarity of at least thresh. Every ORF appears in exactly
// one group. Groups are ordered by their lowest index and members are
// in ascending order.
func Overlapping(cds []*orf.CDS, thresh float64) [][]int {
	trees := make(map[key]*interval.IntTree)
	for i, c := range cds {
		k := key{chrom: c.Chrom, strand: int8(c.Strand)}
		t, ok := trees[k]
		if !ok {
			t = &interval.IntTree{}
			trees[k] = t
		}
		t.Insert(orfInterval{id: i, start: c.ORF.Min() - 1, end: c.ORF.Max()}, true)
	}
	for _, t := range trees {
		t.AdjustRanges()
	}

	g := simple.NewUndirectedGraph()
	for i := range cds {
		g.AddNode(simple.Node(i))
	}
	for i, c := range cds {
		q := orfInterval{id: i, start: c.ORF.Min() - 1, end: c.ORF.Max()}
		for _, h := range trees[key{chrom: c.Chrom, strand: int8(c.Strand)}].Get(q) {
			o := h.(orfInterval)
			if o.id <= i {
				continue
			}
			if jaccard(q, o) >= thresh {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(o.id)})
			}
		}
	}

	cc := topo.ConnectedComponents(g)
	groups := make([][]int, len(cc))
	for i, c := range cc {
		members := make([]int, len(c))
		for j, n := range c {
			members[j] = int(n.ID())
		}
		sort.Ints(members)
		groups[i] = members
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

type key struct {
	chrom  string
	strand int8
}

// orfInterval is a half-open zero-based genomic interval.
type orfInterval struct {
	id         int
	start, end int
}

func (i orfInterval) ID() uintptr { return uintptr(i.id) }
func (i orfInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}
func (i orfInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.end > b.Start && i.start < b.End
}

func jaccard(a, b orfInterval) float64 {
	n := max(0, min(a.end, b.end)-max(a.start, b.start))
	return float64(n) / float64((a.end-a.start)+(b.end-b.start)-n)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
