// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// dredge finds open reading frames in genomic copies of coding transposons.
//
// Dfam hits that completely cover a coding region annotated on the
// family consensus are projected onto the genome and the genomic sequence
// of the coding region is searched for the longest stop-codon delimited
// frame that is close to the expected coding length. Selected ORFs are
// written as FASTA and optionally as GFF.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kortschak/dredge/dfam"
	"github.com/kortschak/dredge/group"
	"github.com/kortschak/dredge/orf"
)

var (
	catalogue = flag.String("dfam", "", "input Dfam EMBL catalogue file name, optionally compressed (required)")
	hits      = flag.String("hits", "", "input Dfam hits file name, optionally compressed (required)")
	genome    = flag.String("genome", "", "input genome fasta file name, optionally compressed (required)")
	procs     = flag.Int("procs", 1, "number of BGZF decompression threads")
	frac      = flag.Float64("frac", orf.DefaultMinFraction, "minimum ORF length as a fraction of the expected CDS length")
	extend    = flag.Bool("extend", false, "search to the end of the hit rather than the end of the CDS")
	strict    = flag.Bool("strict", false, "terminate on the first malformed record or missing sequence")
	jaccard   = flag.Float64("group", 0, `annotate GFF features with groups of overlapping ORFs
    	using this minimum Jaccard similarity (0 disables)`,
	)

	outFile = flag.String("out", "", "output fasta file name (default to stdout)")
	gffFile = flag.String("gff", "", "output GFF file name")
	errFile = flag.String("err", "", "output log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *catalogue == "" || *hits == "" || *genome == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have dfam, hits and genome set")
		flag.Usage()
		os.Exit(1)
	}
	if *frac <= 0 || *frac >= 1 {
		fmt.Fprintln(os.Stderr, "invalid argument: frac must be in (0, 1)")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			// Oh, the irony.
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}
	outStream := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Fatalf("failed to create out file: %v", err)
		}
		defer f.Close()
		outStream = f
	}

	log.Printf("reading coding transposons from %q", *catalogue)
	cat, err := readCatalogue(*catalogue, *procs, *strict)
	if err != nil {
		log.Fatalf("failed to read catalogue: %v", err)
	}
	log.Printf("found %d coding transposons", len(cat))

	log.Printf("matching hits in %q", *hits)
	f, err := dfam.Open(*hits, *procs)
	if err != nil {
		log.Fatalf("failed to open hits file: %v", err)
	}
	regions, n, err := matchHits(f, cat, *strict)
	f.Close()
	if err != nil {
		log.Fatalf("failed to match hits: %v", err)
	}
	log.Printf("%d hits cover %d coding regions on %d sequences", n, regions.Len(), len(regions.Chromosomes()))

	log.Printf("searching for ORFs in %q", *genome)
	f, err = dfam.Open(*genome, *procs)
	if err != nil {
		log.Fatalf("failed to open genome file: %v", err)
	}
	cfg := orf.Config{MinFraction: *frac, Extend: *extend}
	cds, err := extractORFs(f, cat, regions, cfg, *strict)
	f.Close()
	if err != nil {
		log.Fatalf("failed to extract ORFs: %v", err)
	}
	log.Printf("found %d ORFs", len(cds))

	err = writeFasta(outStream, cds)
	if err != nil {
		log.Fatalf("failed to write fasta: %v", err)
	}
	if *gffFile != "" {
		f, err := os.Create(*gffFile)
		if err != nil {
			log.Fatalf("failed to create GFF outfile: %q", *gffFile)
		}
		err = writeGFF(f, cds, cfg, *jaccard)
		if err != nil {
			log.Fatalf("failed to write GFF: %v", err)
		}
		err = f.Close()
		if err != nil {
			log.Fatalf("failed to close GFF outfile: %v", err)
		}
	}
}

// readCatalogue returns the coding transposons held in the named Dfam
// catalogue file. Malformed records are logged and skipped unless strict
// is true.
func readCatalogue(path string, procs int, strict bool) (dfam.Catalogue, error) {
	f, err := dfam.Open(path, procs)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cat, err := dfam.ReadCatalogue(f, strict)
	var errs dfam.Errors
	if errors.As(err, &errs) {
		for _, err := range errs {
			log.Printf("skipping record: %v", err)
		}
		return cat, nil
	}
	return cat, err
}

// matchHits returns the coding regions covered by the hits read from r,
// grouped by chromosome, and the number of hits that covered at least one
// coding region. Hits of families not in cat are ignored. Malformed hit
// records are logged and skipped unless strict is true.
func matchHits(r io.Reader, cat dfam.Catalogue, strict bool) (*orf.Regions, int, error) {
	var (
		regions orf.Regions
		n       int
		bad     int
	)
	hr := dfam.NewHitReader(r)
	for {
		h, err := hr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			var rec *dfam.MalformedRecordError
			if !strict && errors.As(err, &rec) {
				log.Printf("skipping hit: %v", err)
				bad++
				continue
			}
			return nil, n, err
		}
		t, ok := cat[h.Family]
		if !ok {
			continue
		}
		m := orf.Match(t, h)
		if len(m) != 0 {
			n++
		}
		regions.Add(m...)
	}
	if bad != 0 {
		log.Printf("skipped %d malformed hits", bad)
	}
	return &regions, n, nil
}

// extractORFs returns the ORFs found in the matched regions using the
// genome sequences read from the fasta stream r. Sequences are read and
// searched one at a time. Regions on sequences absent from r are logged
// unless strict is true, in which case an error wrapping
// orf.ErrMissingReference is returned.
func extractORFs(r io.Reader, cat dfam.Catalogue, regions *orf.Regions, cfg orf.Config, strict bool) ([]*orf.CDS, error) {
	var cds []*orf.CDS
	seen := make(map[string]bool)
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		chr := sc.Seq().(*linear.Seq)
		if seen[chr.ID] {
			log.Printf("ignoring duplicate sequence %q", chr.ID)
			continue
		}
		seen[chr.ID] = true
		for _, reg := range regions.On(chr.ID) {
			c, err := cfg.Extract(cat[reg.Family], reg, chr.Seq)
			if err != nil {
				if strict {
					return nil, err
				}
				log.Printf("skipping region: %v", err)
				continue
			}
			if c != nil {
				cds = append(cds, c)
			}
		}
	}
	err := sc.Error()
	if err != nil {
		return nil, err
	}

	for _, chrom := range regions.Chromosomes() {
		if seen[chrom] {
			continue
		}
		err := fmt.Errorf("%w: %s has %d coding regions", orf.ErrMissingReference, chrom, len(regions.On(chrom)))
		if strict {
			return nil, err
		}
		log.Print(err)
	}
	return cds, nil
}

func writeFasta(w io.Writer, cds []*orf.CDS) error {
	for _, c := range cds {
		_, err := fmt.Fprintf(w, "%60a\n", c.Sequence())
		if err != nil {
			return err
		}
	}
	return nil
}

// writeGFF writes the ORFs in cds as GFF features to w. If thresh is
// positive, features are annotated with a Group attribute identifying
// ORFs with overlapping genomic extent.
func writeGFF(w io.Writer, cds []*orf.CDS, cfg orf.Config, thresh float64) error {
	gw := gff.NewWriter(w, 60, true)
	_, err := gw.WriteComment(fmt.Sprintf("minimum ORF fraction=%v", cfg.MinFraction))
	if err != nil {
		return err
	}
	_, err = gw.WriteComment(fmt.Sprintf("extend to hit end=%t", cfg.Extend))
	if err != nil {
		return err
	}

	features := make([]*gff.Feature, len(cds))
	for i, c := range cds {
		features[i] = c.Feature()
	}
	if thresh > 0 {
		_, err = gw.WriteComment(fmt.Sprintf("group jaccard threshold=%v", thresh))
		if err != nil {
			return err
		}
		for gid, members := range group.Overlapping(cds, thresh) {
			for _, i := range members {
				features[i].FeatAttributes = append(features[i].FeatAttributes, gff.Attribute{Tag: "Group", Value: fmt.Sprint(gid)})
			}
		}
	}
	for _, f := range features {
		_, err = gw.Write(f)
		if err != nil {
			return err
		}
	}
	return nil
}
