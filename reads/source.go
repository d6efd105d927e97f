/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Author: Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package reads

import (
	"fmt"
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/wtsi-hgi/gemproc/stats"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

type filePair struct {
	read1, read2 string
}

// Source streams read pairs in lockstep from parallel ordered lists of read1
// and read2 FASTQ files (plain or gzipped), treating the listed files as one
// concatenated virtual stream per side. Each pair it yields has already been
// classified against the whitelist and transformed.
type Source struct {
	pairs      []filePair
	next       int
	r1, r2     *fastx.Reader
	idx        *whitelist.Index
	tracker    *stats.Tracker
	barcodeLen int
	primerLen  int
	count      uint64
}

// NewSource returns a Source over the given file lists, which must have the
// same non-zero length. Classification results for every pair are recorded
// in the given tracker. primerLen bases after the barcode are trimmed from
// read1 along with the barcode itself.
func NewSource(read1, read2 []string, idx *whitelist.Index, tracker *stats.Tracker,
	primerLen int) (*Source, error) {
	if len(read1) != len(read2) {
		return nil, ErrInputListMismatch
	}

	if len(read1) == 0 {
		return nil, ErrNoInputFiles
	}

	pairs := make([]filePair, len(read1))
	for i := range read1 {
		pairs[i] = filePair{read1: read1[i], read2: read2[i]}
	}

	s := &Source{
		pairs:      pairs,
		idx:        idx,
		tracker:    tracker,
		barcodeLen: idx.Length(),
		primerLen:  primerLen,
	}

	if err := s.openNext(); err != nil {
		return nil, err
	}

	return s, nil
}

// openNext opens readers for the next listed file pair, or leaves the
// readers nil when every pair has been consumed.
func (s *Source) openNext() error {
	s.r1, s.r2 = nil, nil

	if s.next >= len(s.pairs) {
		return nil
	}

	pair := s.pairs[s.next]
	s.next++

	r1, err := fastx.NewReader(seq.DNAredundant, pair.read1, fastx.DefaultIDRegexp)
	if err != nil {
		return fmt.Errorf("%s: %w", pair.read1, err)
	}

	r2, err := fastx.NewReader(seq.DNAredundant, pair.read2, fastx.DefaultIDRegexp)
	if err != nil {
		r1.Close()

		return fmt.Errorf("%s: %w", pair.read2, err)
	}

	s.r1, s.r2 = r1, r2

	return nil
}

// Next returns up to n classified and transformed pairs. A returned batch
// smaller than n, possibly empty, means the input is exhausted. n must be
// positive; anything else is a configuration error, not exhaustion.
func (s *Source) Next(n int) ([]*Pair, error) {
	if n <= 0 {
		return nil, ErrInvalidBatchSize
	}

	batch := make([]*Pair, 0, n)

	for len(batch) < n {
		pair, err := s.read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		batch = append(batch, pair)
	}

	return batch, nil
}

// read yields the next pair across the virtual stream, advancing to the next
// file pair as each one ends. It returns io.EOF once everything is consumed.
func (s *Source) read() (*Pair, error) {
	for s.r1 != nil {
		rec1, err1 := s.r1.Read()
		rec2, err2 := s.r2.Read()

		switch {
		case err1 == io.EOF && err2 == io.EOF:
			s.r1.Close()
			s.r2.Close()

			if err := s.openNext(); err != nil {
				return nil, err
			}
		case err1 == io.EOF || err2 == io.EOF:
			return nil, ErrDesyncedStreams
		case err1 != nil:
			return nil, fmt.Errorf("%s: %w", s.pairs[s.next-1].read1, err1)
		case err2 != nil:
			return nil, fmt.Errorf("%s: %w", s.pairs[s.next-1].read2, err2)
		default:
			s.count++

			return s.transform(rec1.Clone(), rec2.Clone()), nil
		}
	}

	return nil, io.EOF
}

// transform classifies the pair's barcode, trims barcode and primer from
// read1, and rewrites both identifiers with the annotation suffix.
func (s *Source) transform(rec1, rec2 *fastx.Record) *Pair {
	res := s.idx.Classify(rec1.Seq.Seq)
	s.tracker.Add(res)

	primerEnd := clamp(s.barcodeLen+s.primerLen, len(rec1.Seq.Seq))
	primerStart := clamp(s.barcodeLen, len(rec1.Seq.Seq))

	ann := Annotation{
		Barcode: res.Barcode,
		Primer:  string(rec1.Seq.Seq[primerStart:primerEnd]),
		Status:  res.Status,
	}

	suffix := ann.Suffix()
	rec1.Name = append([]byte(nil), string(rec1.ID)+suffix...)
	rec2.Name = append([]byte(nil), string(rec2.ID)+suffix...)

	rec1.Seq.Seq = rec1.Seq.Seq[primerEnd:]
	rec1.Seq.Qual = rec1.Seq.Qual[clamp(primerEnd, len(rec1.Seq.Qual)):]

	return &Pair{R1: rec1, R2: rec2, Annotation: ann}
}

func clamp(n, max int) int {
	if n > max {
		return max
	}

	return n
}

// Count returns the cumulative number of pairs consumed so far. It is never
// reset.
func (s *Source) Count() uint64 {
	return s.count
}

// Close releases any still-open input files. It is safe to call after the
// source is exhausted.
func (s *Source) Close() {
	if s.r1 != nil {
		s.r1.Close()
	}

	if s.r2 != nil {
		s.r2.Close()
	}

	s.r1, s.r2 = nil, nil
}
