// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package orf locates open reading frames within genomic copies of
// coding transposons.
//
// Alignment hits are matched against the coding regions annotated on
// the transposon consensus, the coding regions are projected onto the
// genome, and the corresponding genome sequence is searched in three
// frames for the longest stop-codon delimited segment.
package orf

import (
	"github.com/biogo/biogo/seq"

	"github.com/kortschak/dredge/dfam"
)

// Region is a transposon coding region fully covered by an alignment
// hit, projected into genome coordinates. CDS is always contained
// within Hit, and both are ordered by Strand.
type Region struct {
	Family string
	Chrom  string
	Strand seq.Strand

	// Expected is the length of the
	// coding region in the consensus.
	Expected int

	Hit dfam.Span
	CDS dfam.Span
}

// Match returns the regions of the coding regions of t that are fully
// contained by the consensus interval of h, in the order they are
// annotated on t. Match returns nil if h covers no complete coding
// region.
func Match(t *dfam.Transposon, h *dfam.Hit) []Region {
	var regions []Region
	for _, cds := range t.CDS {
		if !h.Consensus.Contains(cds) {
			continue
		}
		regions = append(regions, Region{
			Family:   h.Family,
			Chrom:    h.Chrom,
			Strand:   h.Strand,
			Expected: cds.Len(),
			Hit:      h.Genome,
			CDS:      project(cds, h),
		})
	}
	return regions
}

// project returns the genome span corresponding to cds in the
// alignment h. The consensus runs in ascending order while the genome
// span runs descending on the minus strand, so the flanking offsets are
// applied to opposite ends.
func project(cds dfam.Interval, h *dfam.Hit) dfam.Span {
	startOffset := cds.Start - h.Consensus.Start
	endOffset := h.Consensus.End - cds.End
	if h.Strand == seq.Minus {
		return dfam.Span{
			Start: h.Genome.Start - endOffset,
			End:   h.Genome.End + startOffset,
		}
	}
	return dfam.Span{
		Start: h.Genome.Start + startOffset,
		End:   h.Genome.End - endOffset,
	}
}

// Regions is a collection of matched regions grouped by chromosome.
// Chromosomes and the regions within them retain insertion order.
type Regions struct {
	chroms  []string
	byChrom map[string][]Region
	n       int
}

// Add adds the given regions to the collection.
func (r *Regions) Add(regions ...Region) {
	if r.byChrom == nil {
		r.byChrom = make(map[string][]Region)
	}
	for _, reg := range regions {
		if _, ok := r.byChrom[reg.Chrom]; !ok {
			r.chroms = append(r.chroms, reg.Chrom)
		}
		r.byChrom[reg.Chrom] = append(r.byChrom[reg.Chrom], reg)
		r.n++
	}
}

// Chromosomes returns the names of chromosomes holding regions in the
// order they were first seen.
func (r *Regions) Chromosomes() []string { return r.chroms }

// On returns the regions on the named chromosome.
func (r *Regions) On(chrom string) []Region { return r.byChrom[chrom] }

// Len returns the total number of regions held.
func (r *Regions) Len() int { return r.n }
