// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dfam provides readers for the Dfam transposable element
// catalogue in EMBL flat-file format and for Dfam genome hit tables.
package dfam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Interval is a 1-based closed interval in consensus coordinates.
// Start is never greater than End.
type Interval struct {
	Start, End int
}

// Len returns the number of bases in the interval.
func (i Interval) Len() int { return i.End - i.Start + 1 }

// Contains returns whether j lies entirely within i.
func (i Interval) Contains(j Interval) bool {
	return i.Start <= j.Start && i.End >= j.End
}

// Span is a 1-based closed interval in genome coordinates. The order
// of Start and End encodes strand: Start <= End on the plus strand and
// Start >= End on the minus strand.
type Span struct {
	Start, End int
}

// Min returns the lower coordinate of the span.
func (s Span) Min() int { return min(s.Start, s.End) }

// Max returns the higher coordinate of the span.
func (s Span) Max() int { return max(s.Start, s.End) }

// Len returns the number of bases in the span.
func (s Span) Len() int { return s.Max() - s.Min() + 1 }

// Transposon is a catalogue entry for a transposable element family
// with annotated coding regions.
type Transposon struct {
	// ID is the Dfam accession including
	// its version, for example DF0000018.4.
	ID string

	Length  int
	Name    string
	Type    string
	Subtype string

	// CDS holds the coding regions of the
	// consensus in file order.
	CDS []Interval
}

// Class returns the type/subtype classification of the transposon.
func (t *Transposon) Class() string {
	if t.Subtype == "" {
		return t.Type
	}
	return t.Type + "/" + t.Subtype
}

// Catalogue is a set of transposons keyed by versioned accession.
type Catalogue map[string]*Transposon

// MalformedRecordError is returned when a catalogue or hit record
// cannot be parsed.
type MalformedRecordError struct {
	Line int
	Text string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("dfam: malformed record at line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Errors is a collection of per-record errors that did not prevent
// reading of other records.
type Errors []error

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "dfam: no errors"
	case 1:
		return e[0].Error()
	default:
		return fmt.Sprintf("%v (and %d more errors)", e[0], len(e)-1)
	}
}

var (
	errShortID   = errors.New("short ID line")
	errCDSFormat = errors.New("invalid CDS location")
	errCDSOrder  = errors.New("CDS start after end")
)

// Line tags of the EMBL flat-file format used by the reader.
const (
	idTag  = "ID"
	nmTag  = "NM"
	kwTag  = "KW"
	cdsTag = "FT   CDS"
	endTag = "//"
)

type state int

const (
	noRecord state = iota
	accumulating
)

// catalogueReader accumulates a single record at a time, adding it to
// the catalogue when the next record starts or the input ends.
type catalogueReader struct {
	state state
	bad   bool
	rec   Transposon

	strict bool
	cat    Catalogue
	errs   Errors
}

// ReadCatalogue reads a Dfam EMBL catalogue from r, retaining only
// transposons with at least one annotated CDS.
//
// If strict is true, the first malformed record terminates reading and
// its *MalformedRecordError is returned. Otherwise malformed records are
// dropped and, if there were any, the returned error is an Errors holding
// each failure; the returned Catalogue is complete for all other records.
func ReadCatalogue(r io.Reader, strict bool) (Catalogue, error) {
	c := catalogueReader{strict: strict, cat: make(Catalogue)}
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	for line := 1; sc.Scan(); line++ {
		err := c.consume(sc.Text())
		if err != nil {
			err = &MalformedRecordError{Line: line, Text: sc.Text(), Err: err}
			if c.strict {
				return nil, err
			}
			c.bad = true
			c.errs = append(c.errs, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	c.flush()
	if len(c.errs) != 0 {
		return c.cat, c.errs
	}
	return c.cat, nil
}

func (c *catalogueReader) consume(line string) error {
	switch {
	case strings.HasPrefix(line, idTag):
		c.flush()
		c.state = accumulating
		return c.parseID(line)
	case c.state == noRecord:
		return nil
	case strings.HasPrefix(line, endTag):
		c.flush()
	case strings.HasPrefix(line, nmTag):
		c.rec.Name = strings.TrimSpace(line[len(nmTag):])
	case strings.HasPrefix(line, kwTag):
		c.rec.Type, c.rec.Subtype = classification(line[len(kwTag):])
	case strings.HasPrefix(line, cdsTag):
		iv, err := parseCDS(line[len(cdsTag):])
		if err != nil {
			return err
		}
		c.rec.CDS = append(c.rec.CDS, iv)
	}
	return nil
}

// flush adds the record being accumulated to the catalogue if it is
// well formed and codes, and resets the reader state.
func (c *catalogueReader) flush() {
	if c.state == accumulating && !c.bad && len(c.rec.CDS) != 0 {
		t := c.rec
		c.cat[t.ID] = &t
	}
	c.state = noRecord
	c.bad = false
	c.rec = Transposon{}
}

// parseID parses an ID line of the form
//  ID   DF0000018; SV 4; linear; DNA; STD; UNC; 2781 BP.
func (c *catalogueReader) parseID(line string) error {
	sections := strings.Split(strings.TrimSpace(line[len(idTag):]), "; ")
	if len(sections) < 3 || !strings.HasPrefix(sections[1], "SV ") {
		return errShortID
	}
	c.rec.ID = sections[0] + "." + strings.TrimPrefix(sections[1], "SV ")
	length := strings.Fields(sections[len(sections)-1])
	if len(length) == 0 {
		return errShortID
	}
	var err error
	c.rec.Length, err = strconv.Atoi(length[0])
	return err
}

// classification returns the type and subtype from a keyword line
// body of the form "DNA/hAT-Charlie.".
func classification(kw string) (typ, subtype string) {
	kw = strings.TrimSuffix(strings.TrimSpace(kw), ".")
	if i := strings.LastIndex(kw, "; "); i >= 0 {
		kw = kw[i+2:]
	}
	i := strings.Index(kw, "/")
	if i < 0 {
		return kw, ""
	}
	return kw[:i], kw[i+1:]
}

// parseCDS parses a feature location of the form "597..2538".
func parseCDS(loc string) (Interval, error) {
	fields := strings.Split(strings.TrimSpace(loc), "..")
	if len(fields) != 2 {
		return Interval{}, errCDSFormat
	}
	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return Interval{}, err
	}
	end, err := strconv.Atoi(fields[1])
	if err != nil {
		return Interval{}, err
	}
	if start < 1 || start > end {
		return Interval{}, errCDSOrder
	}
	return Interval{Start: start, End: end}, nil
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
