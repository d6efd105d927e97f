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

// package reads streams paired FASTQ records, classifies the gem barcode on
// read1, trims the barcode and primer region, and rewrites both read
// identifiers to carry the extracted metadata.

package reads

import (
	"strings"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInputListMismatch = Error("read1 and read2 file lists differ in length")
	ErrNoInputFiles      = Error("no input files provided")
	ErrDesyncedStreams   = Error("read1 and read2 streams ended at different points")
	ErrBadSuffix         = Error("read identifier does not carry a gem barcode suffix")
	ErrInvalidBatchSize  = Error("batch size must be a positive integer")

	suffixDelimiter = ":"
	suffixFields    = 3
)

// Annotation is the gem barcode metadata attached to both identifiers of a
// processed pair: the (corrected, where possible) barcode, the primer bases
// removed from read1, and the classification status.
type Annotation struct {
	Barcode string
	Primer  string
	Status  whitelist.Status
}

// Suffix serialises the annotation for appending to a read identifier. The
// ':' delimiter never needs escaping: barcode and primer bases come from
// nucleotide alphabets.
func (a Annotation) Suffix() string {
	return suffixDelimiter + a.Barcode +
		suffixDelimiter + a.Primer +
		suffixDelimiter + a.Status.String()
}

// ParseSuffix splits an annotated read identifier back into the original
// identifier and its Annotation, reversing Suffix().
func ParseSuffix(id string) (string, Annotation, error) {
	parts := strings.Split(id, suffixDelimiter)
	if len(parts) < suffixFields+1 {
		return "", Annotation{}, ErrBadSuffix
	}

	tail := parts[len(parts)-suffixFields:]

	status, err := whitelist.ParseStatus(tail[2])
	if err != nil {
		return "", Annotation{}, ErrBadSuffix
	}

	orig := strings.Join(parts[:len(parts)-suffixFields], suffixDelimiter)

	return orig, Annotation{
		Barcode: tail[0],
		Primer:  tail[1],
		Status:  status,
	}, nil
}

// Pair is a classified, trimmed read pair ready for output. R1 and R2 carry
// the rewritten identifiers; R1's sequence and quality have had the barcode
// and primer region removed.
type Pair struct {
	R1, R2     *fastx.Record
	Annotation Annotation
}

// Status returns the pair's classification status.
func (p *Pair) Status() whitelist.Status {
	return p.Annotation.Status
}
