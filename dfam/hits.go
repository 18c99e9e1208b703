// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dfam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/seq"
)

// Fields of a Dfam hits table line.
const (
	seqNameField = iota
	familyAccField
	familyNameField
	bitsField
	eValueField
	biasField
	hmmStartField
	hmmEndField
	strandField
	aliStartField
	aliEndField
	envStartField
	envEndField
	seqLenField
	kimuraDivField

	numFields
)

// minFields is the number of fields needed to describe a hit.
const minFields = aliEndField + 1

var errShortHit = errors.New("too few fields")

// Hit is an alignment of a transposon consensus to a genome.
type Hit struct {
	Chrom  string
	Family string // Versioned accession of the transposon.
	Name   string

	// Consensus is the aligned region of the
	// consensus, always on its positive strand.
	Consensus Interval

	Strand seq.Strand

	// Genome is the aligned region of the
	// chromosome ordered by Strand.
	Genome Span
}

// HitReader reads Dfam hits tables. Lines starting with '#' and blank
// lines are ignored.
type HitReader struct {
	sc   *bufio.Scanner
	line int
}

// NewHitReader returns a new HitReader reading from r.
func NewHitReader(r io.Reader) *HitReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	return &HitReader{sc: sc}
}

// Read returns the next hit from the underlying stream. At the end of
// the stream Read returns io.EOF. A malformed line results in a
// *MalformedRecordError; the reader remains usable after such an error.
func (r *HitReader) Read() (*Hit, error) {
	for r.sc.Scan() {
		r.line++
		text := r.sc.Text()
		if len(strings.TrimSpace(text)) == 0 || strings.HasPrefix(text, "#") {
			continue
		}
		h, err := ParseHit(text)
		if err != nil {
			return nil, &MalformedRecordError{Line: r.line, Text: text, Err: err}
		}
		return h, nil
	}
	err := r.sc.Err()
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

func handlePanic(err *error) {
	r := recover()
	if r != nil {
		switch r := r.(type) {
		case error:
			*err = r
		default:
			panic(r)
		}
	}
}

// ParseHit returns a Hit parsed from a single tab-delimited hits line.
func ParseHit(line string) (h *Hit, err error) {
	defer handlePanic(&err)
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < minFields {
		return nil, errShortHit
	}
	return &Hit{
		Chrom:  fields[seqNameField],
		Family: fields[familyAccField],
		Name:   fields[familyNameField],

		Consensus: Interval{
			Start: mustAtoi(fields[hmmStartField]),
			End:   mustAtoi(fields[hmmEndField]),
		},

		Strand: mustStrand(fields[strandField]),

		Genome: Span{
			Start: mustAtoi(fields[aliStartField]),
			End:   mustAtoi(fields[aliEndField]),
		},
	}, nil
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		panic(err)
	}
	return i
}

func mustStrand(s string) seq.Strand {
	switch strings.TrimSpace(s) {
	case "+":
		return seq.Plus
	case "-":
		return seq.Minus
	default:
		panic(fmt.Errorf("bad strand value: %q", s))
	}
}
