// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package orf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kortschak/dredge/dfam"
)

// ErrMissingReference is returned when a region refers to a chromosome
// with no available sequence.
var ErrMissingReference = errors.New("orf: missing reference sequence")

// DefaultMinFraction is the default minimum fraction of the expected
// coding length an ORF must exceed to be accepted.
const DefaultMinFraction = 0.8

// Config holds ORF extraction parameters.
type Config struct {
	// MinFraction is the fraction of the expected coding length
	// that a candidate must exceed. If zero, DefaultMinFraction
	// is used.
	MinFraction float64

	// Extend searches to the end of the alignment hit rather
	// than to the end of the projected coding region.
	Extend bool
}

// CDS is an open reading frame found in a genomic copy of a coding
// transposon.
type CDS struct {
	Family  string
	Name    string
	Type    string
	Subtype string

	Chrom  string
	Strand seq.Strand

	// Expected is the length of the
	// consensus coding region.
	Expected int

	// Region is the coding region projected
	// onto the genome and ORF is the selected
	// reading frame, both ordered by Strand.
	Region dfam.Span
	ORF    dfam.Span

	// Seq is the ORF sequence written 5' to 3'
	// on the coding strand.
	Seq alphabet.Letters
}

// ToGenome returns the genome coordinates of the window-local
// candidate c found in the window of r.
func ToGenome(c Candidate, r Region) dfam.Span {
	if r.Strand == seq.Minus {
		return dfam.Span{
			Start: r.CDS.Start - c.Start,
			End:   r.CDS.Start - c.End,
		}
	}
	return dfam.Span{
		Start: c.Start + r.CDS.Start - 1,
		End:   c.End + r.CDS.Start - 1,
	}
}

// Extract searches the region r of the chromosome sequence chr for the
// best supported ORF and returns it annotated with the details of the
// transposon t. If no candidate is accepted, Extract returns nil and a
// nil error.
func (cfg Config) Extract(t *dfam.Transposon, r Region, chr alphabet.Letters) (*CDS, error) {
	if chr == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingReference, r.Chrom)
	}
	w, err := Window(chr, r, cfg.Extend)
	if err != nil {
		return nil, fmt.Errorf("%s %s:%d-%d: %w", r.Family, r.Chrom, r.CDS.Start, r.CDS.End, err)
	}
	frac := cfg.MinFraction
	if frac == 0 {
		frac = DefaultMinFraction
	}
	best, ok := Best(Scan(w, r.Expected, frac))
	if !ok {
		return nil, nil
	}
	return &CDS{
		Family:   r.Family,
		Name:     t.Name,
		Type:     t.Type,
		Subtype:  t.Subtype,
		Chrom:    r.Chrom,
		Strand:   r.Strand,
		Expected: r.Expected,
		Region:   r.CDS,
		ORF:      ToGenome(best, r),
		Seq:      w[feat.OneToZero(best.Start):best.End],
	}, nil
}

// Class returns the type/subtype classification of the source
// transposon.
func (c *CDS) Class() string {
	if c.Subtype == "" {
		return c.Type
	}
	return c.Type + "/" + c.Subtype
}

// Sequence returns c as a sequence suitable for FASTA output.
func (c *CDS) Sequence() *linear.Seq {
	s := linear.NewSeq(
		fmt.Sprintf("%s|%s:%d-%d(%v)", c.Family, c.Chrom, c.ORF.Start, c.ORF.End, c.Strand),
		c.Seq,
		alphabet.DNAredundant,
	)
	s.Desc = c.Class()
	if c.Name != "" {
		s.Desc = c.Name + " " + s.Desc
	}
	return s
}

// Feature returns c as a GFF feature. The feature spans the ORF and
// carries the transposon and projected coding region as attributes.
func (c *CDS) Feature() *gff.Feature {
	// Minus strand back-mapping is anchored one base
	// beyond the region start, so the ORF may reach 0.
	start := c.ORF.Min() - 1
	if start < 0 {
		start = 0
	}
	return &gff.Feature{
		SeqName:    c.Chrom,
		Source:     "dredge",
		Feature:    "ORF",
		FeatStart:  start,
		FeatEnd:    c.ORF.Max(),
		FeatStrand: c.Strand,
		FeatFrame:  gff.NoFrame,
		FeatAttributes: gff.Attributes{
			{Tag: "Family", Value: strings.TrimSpace(c.Family + " " + c.Name)},
			{Tag: "Class", Value: c.Class()},
			{Tag: "CDS", Value: fmt.Sprintf("%d %d %d", c.Region.Start, c.Region.End, c.Expected)},
		},
	}
}
