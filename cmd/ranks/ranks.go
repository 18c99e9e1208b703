// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ranks reports the transposon classes and counts for each ORF group
// from a dredge GFF on stdin.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

var doGrouping = flag.Bool("group", false, "output grouped counts")

func main() {
	flag.Parse()

	var out io.Writer = os.Stdout
	if *doGrouping {
		out = io.Discard
	}
	grps, err := ranks(out, os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	if !*doGrouping {
		return
	}
	for gid, g := range grps {
		if g == nil {
			continue
		}
		m := sortedMap(g)
		fmt.Printf("%d\t%s\t%s\n", gid, format(m), nameHeuristic(m))
	}
}

// ranks reads grouped ORF features from r and returns the class counts
// for each group, indexed by group id. Each feature's group and class
// are written to w.
func ranks(w io.Writer, r io.Reader) ([]map[string]int, error) {
	var grps []map[string]int
	sc := featio.NewScanner(gff.NewReader(r))
	for sc.Next() {
		f := sc.Feat().(*gff.Feature)
		g := f.FeatAttributes.Get("Group")
		if g == "" {
			continue
		}
		class := f.FeatAttributes.Get("Class")
		if class == "" {
			class = "Unknown"
		}
		_, err := fmt.Fprintf(w, "%s\t%s\n", g, class)
		if err != nil {
			return nil, err
		}
		gid, err := strconv.Atoi(g)
		if err != nil {
			return nil, fmt.Errorf("failed to parse group id: %w", err)
		}
		grps = add(grps, gid, class)
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("error during gff read: %w", err)
	}
	return grps, nil
}

func add(grps []map[string]int, gid int, class string) []map[string]int {
	if gid >= len(grps) {
		t := make([]map[string]int, gid+1)
		copy(t, grps)
		grps = t
	}
	if grps[gid] == nil {
		grps[gid] = make(map[string]int)
	}
	grps[gid][class]++
	return grps
}

type mapElement struct {
	class string
	n     int
}

type byCount []mapElement

func (m byCount) Len() int { return len(m) }
func (m byCount) Less(i, j int) bool {
	if m[i].n != m[j].n {
		return m[i].n < m[j].n
	}
	// Longer classes carry a subtype and are
	// a tighter definition, so use them in preference.
	if len(m[i].class) != len(m[j].class) {
		return len(m[i].class) < len(m[j].class)
	}
	return m[i].class > m[j].class
}
func (m byCount) Swap(i, j int) { m[i], m[j] = m[j], m[i] }

func sortedMap(g map[string]int) []mapElement {
	m := make([]mapElement, 0, len(g))
	for class, n := range g {
		m = append(m, mapElement{class: class, n: n})
	}
	sort.Sort(sort.Reverse(byCount(m)))
	return m
}

func format(m []mapElement) string {
	var buf strings.Builder
	for i, e := range m {
		if i != 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s:%d", e.class, e.n)
	}
	return buf.String()
}

// nameHeuristic returns a name for a group with the given sorted class
// counts.
func nameHeuristic(g []mapElement) string {
	if len(g) == 0 {
		return ""
	}

	// Majority rule.
	var n int
	for _, e := range g {
		n += e.n
	}
	if float64(g[0].n)/float64(n) > 0.5 {
		return g[0].class
	}

	// Shared type.
	typ := classType(g[0].class)
	shared := true
	for _, e := range g[1:] {
		if classType(e.class) != typ {
			shared = false
			break
		}
	}
	if shared {
		return typ
	}

	// Fusion.
	var names []string
	for _, e := range g {
		names = append(names, e.class)
	}
	return strings.Join(names, "+")
}

// classType returns the type part of a Type/Subtype class.
func classType(class string) string {
	if i := strings.Index(class, "/"); i >= 0 {
		return class[:i]
	}
	return class
}
