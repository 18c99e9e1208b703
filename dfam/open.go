// Copyright ©2026 The dredge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dfam

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"

	"github.com/biogo/hts/bgzf"
)

// Open opens the named file for reading, transparently decompressing
// BGZF and gzip streams. BGZF streams, the format Dfam distributes hits
// in, are decompressed with procs concurrent decompressors. If path is
// "-", standard input is read.
func Open(path string, procs int) (io.ReadCloser, error) {
	if path == "-" {
		r, err := NewReader(os.Stdin, procs)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: r, closers: []io.Closer{r}}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, procs)
	if err != nil {
		f.Close()
		return nil, err
	}
	return readCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// NewReader returns a reader that decompresses r if it holds a BGZF
// or gzip stream, and otherwise passes it through unaltered. The
// returned ReadCloser does not close r.
func NewReader(r io.Reader, procs int) (io.ReadCloser, error) {
	if procs < 1 {
		procs = 1
	}
	br := bufio.NewReader(r)
	magic, _ := br.Peek(14)
	switch {
	case isBGZF(magic):
		return bgzf.NewReader(br, procs)
	case isGzip(magic):
		return gzip.NewReader(br)
	default:
		return io.NopCloser(br), nil
	}
}

func isGzip(b []byte) bool {
	return len(b) >= 3 && b[0] == 0x1f && b[1] == 0x8b && b[2] == 8
}

// isBGZF returns whether b starts a gzip member carrying the BGZF
// "BC" extra subfield.
func isBGZF(b []byte) bool {
	const fextra = 1 << 2
	return isGzip(b) && len(b) >= 14 &&
		b[3]&fextra != 0 &&
		b[12] == 'B' && b[13] == 'C'
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
