// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package orf

import (
	"bytes"
	"errors"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
)

// ErrOutOfRange is returned when a region extends past the ends of
// its chromosome.
var ErrOutOfRange = errors.New("orf: region outside chromosome")

// Candidate is an open reading frame within a window, in 1-based
// closed window coordinates. The terminating stop codon is not
// included.
type Candidate struct {
	Start, End int
}

// Len returns the length of the candidate.
func (c Candidate) Len() int { return c.End - c.Start + 1 }

// Window returns the sequence of the region r from the chromosome
// sequence chr, upper-cased and written 5' to 3' on the coding strand.
// If extend is true the window runs to the end of the hit rather than
// the end of the coding region. chr is not altered.
func Window(chr alphabet.Letters, r Region, extend bool) (alphabet.Letters, error) {
	span := r.CDS
	if extend {
		span.End = r.Hit.End
	}
	if span.Min() < 1 || span.Max() > len(chr) {
		return nil, ErrOutOfRange
	}
	w := chr[feat.OneToZero(span.Min()):span.Max()]
	w = alphabet.BytesToLetters(bytes.ToUpper(alphabet.LettersToBytes(w)))
	if r.Strand == seq.Minus {
		w = revComp(w)
	}
	return w, nil
}

// RevComp returns the reverse complement of the nucleotide sequence s.
// IUPAC ambiguity codes are complemented; s is not altered.
func RevComp(s alphabet.Letters) alphabet.Letters {
	return revComp(append(alphabet.Letters(nil), s...))
}

// revComp reverse complements s in place.
func revComp(s alphabet.Letters) alphabet.Letters {
	l := linear.NewSeq("", s, alphabet.DNAredundant)
	l.RevComp()
	return l.Seq
}

// Scan returns the stop-codon delimited segments in the three forward
// frames of w that are longer than minFrac of the expected coding
// length. Candidates are returned in scan order, frame by frame.
//
// A segment runs from the base after the preceding in-frame stop codon,
// or from the frame start, to the base before the next stop codon.
// Codons are read while more than four bases remain ahead of the read
// position, so a stop codon at the very end of w does not close a
// segment.
func Scan(w alphabet.Letters, expected int, minFrac float64) []Candidate {
	var orfs []Candidate
	for frame := 0; frame < 3; frame++ {
		start := frame
		for pos := frame; pos < len(w)-4; pos += 3 {
			if !isStop(w[pos], w[pos+1], w[pos+2]) {
				continue
			}
			end := pos - 1
			if float64(end-(start-1))/float64(expected) > minFrac {
				orfs = append(orfs, Candidate{Start: feat.ZeroToOne(start), End: feat.ZeroToOne(end)})
			}
			start = pos + 3
		}
	}
	return orfs
}

// isStop returns whether the codon abc is one of TAA, TAG or TGA.
func isStop(a, b, c alphabet.Letter) bool {
	if a != 'T' {
		return false
	}
	switch b {
	case 'A':
		return c == 'A' || c == 'G'
	case 'G':
		return c == 'A'
	}
	return false
}

// Best returns the longest candidate in orfs. When candidates tie for
// length the last of them is returned. The returned bool is false if
// orfs is empty.
func Best(orfs []Candidate) (Candidate, bool) {
	if len(orfs) == 0 {
		return Candidate{}, false
	}
	best := orfs[0]
	for _, c := range orfs[1:] {
		if c.End-c.Start >= best.End-best.Start {
			best = c
		}
	}
	return best, true
}
