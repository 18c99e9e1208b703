// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package orf

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/biogo/biogo/seq"

	"github.com/kortschak/dredge/dfam"
)

// orfRegion is a coding region holding two stop-delimited segments in
// frame 0, of 6 and 9 bases.
const orfRegion = "ATGAAATGATTTCCCGGGTAATTTAAA"

var (
	plusChrom  = "gggg" + strings.ToLower(orfRegion[:9]) + orfRegion[9:] + "GGGG"
	minusChrom = str(RevComp(letters(strings.ToUpper(plusChrom))))
)

func TestWindow(t *testing.T) {
	for _, test := range []struct {
		name   string
		chr    string
		r      Region
		extend bool
		want   string
		err    error
	}{
		{
			name: "plus",
			chr:  plusChrom,
			r:    Region{Strand: seq.Plus, Hit: dfam.Span{Start: 1, End: 33}, CDS: dfam.Span{Start: 5, End: 31}},
			want: orfRegion,
		},
		{
			name: "minus",
			chr:  minusChrom,
			r:    Region{Strand: seq.Minus, Hit: dfam.Span{Start: 35, End: 3}, CDS: dfam.Span{Start: 31, End: 5}},
			want: orfRegion,
		},
		{
			name:   "plus extended",
			chr:    plusChrom,
			r:      Region{Strand: seq.Plus, Hit: dfam.Span{Start: 1, End: 33}, CDS: dfam.Span{Start: 5, End: 31}},
			extend: true,
			want:   orfRegion + "GG",
		},
		{
			name:   "minus extended",
			chr:    minusChrom,
			r:      Region{Strand: seq.Minus, Hit: dfam.Span{Start: 35, End: 3}, CDS: dfam.Span{Start: 31, End: 5}},
			extend: true,
			want:   orfRegion + "GG",
		},
		{
			name: "past end",
			chr:  plusChrom,
			r:    Region{Strand: seq.Plus, Hit: dfam.Span{Start: 30, End: 40}, CDS: dfam.Span{Start: 30, End: 40}},
			err:  ErrOutOfRange,
		},
		{
			name: "before start",
			chr:  plusChrom,
			r:    Region{Strand: seq.Minus, Hit: dfam.Span{Start: 10, End: 0}, CDS: dfam.Span{Start: 10, End: 0}},
			err:  ErrOutOfRange,
		},
	} {
		chr := letters(test.chr)
		got, err := Window(chr, test.r, test.extend)
		if err != test.err {
			t.Errorf("unexpected error for %s: got:%v want:%v", test.name, err, test.err)
			continue
		}
		if str(got) != test.want {
			t.Errorf("unexpected window for %s:\ngot: %q\nwant:%q", test.name, str(got), test.want)
		}
		if str(chr) != test.chr {
			t.Errorf("chromosome altered for %s", test.name)
		}
	}
}

func TestToGenome(t *testing.T) {
	c := Candidate{10, 18}
	plus := ToGenome(c, Region{Strand: seq.Plus, CDS: dfam.Span{Start: 5, End: 31}})
	if want := (dfam.Span{Start: 14, End: 22}); plus != want {
		t.Errorf("unexpected plus strand span: got:%v want:%v", plus, want)
	}
	minus := ToGenome(c, Region{Strand: seq.Minus, CDS: dfam.Span{Start: 31, End: 5}})
	if want := (dfam.Span{Start: 21, End: 13}); minus != want {
		t.Errorf("unexpected minus strand span: got:%v want:%v", minus, want)
	}
}

func TestExtract(t *testing.T) {
	tr := &dfam.Transposon{
		ID: "DF0000018.4", Name: "Charlie1",
		Type: "DNA", Subtype: "hAT-Charlie",
		CDS: []dfam.Interval{{Start: 110, End: 119}},
	}
	for _, test := range []struct {
		name string
		chr  string
		r    Region
		want *CDS
	}{
		{
			name: "plus",
			chr:  plusChrom,
			r: Region{
				Family: "DF0000018.4", Chrom: "chr1", Strand: seq.Plus,
				Expected: 10,
				Hit:      dfam.Span{Start: 1, End: 33},
				CDS:      dfam.Span{Start: 5, End: 31},
			},
			want: &CDS{
				Family: "DF0000018.4", Name: "Charlie1",
				Type: "DNA", Subtype: "hAT-Charlie",
				Chrom: "chr1", Strand: seq.Plus,
				Expected: 10,
				Region:   dfam.Span{Start: 5, End: 31},
				ORF:      dfam.Span{Start: 14, End: 22},
				Seq:      letters("TTTCCCGGG"),
			},
		},
		{
			name: "minus",
			chr:  minusChrom,
			r: Region{
				Family: "DF0000018.4", Chrom: "chr1", Strand: seq.Minus,
				Expected: 10,
				Hit:      dfam.Span{Start: 35, End: 3},
				CDS:      dfam.Span{Start: 31, End: 5},
			},
			want: &CDS{
				Family: "DF0000018.4", Name: "Charlie1",
				Type: "DNA", Subtype: "hAT-Charlie",
				Chrom: "chr1", Strand: seq.Minus,
				Expected: 10,
				Region:   dfam.Span{Start: 31, End: 5},
				ORF:      dfam.Span{Start: 21, End: 13},
				Seq:      letters("TTTCCCGGG"),
			},
		},
		{
			name: "no candidate",
			chr:  plusChrom,
			r: Region{
				Family: "DF0000018.4", Chrom: "chr1", Strand: seq.Plus,
				Expected: 20,
				Hit:      dfam.Span{Start: 1, End: 33},
				CDS:      dfam.Span{Start: 5, End: 31},
			},
		},
	} {
		got, err := Config{}.Extract(tr, test.r, letters(test.chr))
		if err != nil {
			t.Errorf("unexpected error for %s: %v", test.name, err)
			continue
		}
		if (got == nil) != (test.want == nil) {
			t.Errorf("unexpected result for %s: got:%+v want:%+v", test.name, got, test.want)
			continue
		}
		if got == nil {
			continue
		}
		if str(got.Seq) != str(test.want.Seq) {
			t.Errorf("unexpected sequence for %s: got:%q want:%q", test.name, str(got.Seq), str(test.want.Seq))
		}
		got.Seq, test.want.Seq = nil, nil
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("unexpected CDS for %s:\ngot: %+v\nwant:%+v", test.name, got, test.want)
		}
	}
}

func TestExtractMinFraction(t *testing.T) {
	r := Region{
		Family: "DF0000018.4", Chrom: "chr1", Strand: seq.Plus,
		Expected: 20,
		Hit:      dfam.Span{Start: 1, End: 33},
		CDS:      dfam.Span{Start: 5, End: 31},
	}
	got, err := Config{MinFraction: 0.4}.Extract(&dfam.Transposon{}, r, letters(plusChrom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ORF != (dfam.Span{Start: 14, End: 22}) {
		t.Errorf("unexpected ORF with lowered fraction: got:%+v", got)
	}
}

func TestExtractErrors(t *testing.T) {
	r := Region{
		Family: "DF0000018.4", Chrom: "chr9", Strand: seq.Plus,
		Expected: 10,
		Hit:      dfam.Span{Start: 1, End: 100},
		CDS:      dfam.Span{Start: 5, End: 100},
	}
	_, err := Config{}.Extract(&dfam.Transposon{}, r, nil)
	if !errors.Is(err, ErrMissingReference) {
		t.Errorf("expected missing reference error, got: %v", err)
	}
	_, err = Config{}.Extract(&dfam.Transposon{}, r, letters(plusChrom))
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected out of range error, got: %v", err)
	}
}

func TestCDSOutput(t *testing.T) {
	c := &CDS{
		Family: "DF0000018.4", Name: "Charlie1",
		Type: "DNA", Subtype: "hAT-Charlie",
		Chrom: "chr1", Strand: seq.Minus,
		Expected: 10,
		Region:   dfam.Span{Start: 31, End: 5},
		ORF:      dfam.Span{Start: 21, End: 13},
		Seq:      letters("TTTCCCGGG"),
	}

	f := c.Feature()
	if f.SeqName != "chr1" || f.FeatStart != 12 || f.FeatEnd != 21 || f.FeatStrand != seq.Minus {
		t.Errorf("unexpected feature location: %+v", f)
	}
	for tag, want := range map[string]string{
		"Family": "DF0000018.4 Charlie1",
		"Class":  "DNA/hAT-Charlie",
		"CDS":    "31 5 10",
	} {
		if got := f.FeatAttributes.Get(tag); got != want {
			t.Errorf("unexpected %s attribute: got:%q want:%q", tag, got, want)
		}
	}

	got := fmt.Sprintf("%60a", c.Sequence())
	want := ">DF0000018.4|chr1:21-13(-) Charlie1 DNA/hAT-Charlie\nTTTCCCGGG"
	if got != want {
		t.Errorf("unexpected fasta:\ngot: %q\nwant:%q", got, want)
	}
}
