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

// package output routes processed read pairs to per-status destinations.

package output

import (
	"github.com/shenwei356/xopen"
	"github.com/wtsi-hgi/gemproc/reads"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

const (
	fastqExtension = ".fastq"
	gzipExtension  = ".gz"

	countsSuffix       = "_gem_barcode_counts.txt"
	fallbackCountsPath = "gem_barcode_counts.txt"

	// xopen treats "-" as the process's standard output.
	stdoutPath = "-"
)

// Destination says where routed pairs go: a directory+prefix for per-status
// files, or the process's standard output. The zero value is not valid; use
// FileSet or Stdout.
type Destination struct {
	prefix string
	stdout bool
}

// FileSet is a destination of per-status files named after the given
// directory+prefix.
func FileSet(prefix string) Destination {
	return Destination{prefix: prefix}
}

// Stdout is the destination that sends every enabled status, interleaved and
// uncompressed, to the process's standard output.
func Stdout() Destination {
	return Destination{stdout: true}
}

// IsStdout reports whether this is the standard output destination.
func (d Destination) IsStdout() bool {
	return d.stdout
}

// CountsPath returns where the barcode frequency table belongs for this
// destination: beside the routed files, or a fixed path in the working
// directory when routing to standard output (it must never be interleaved
// into the read stream).
func (d Destination) CountsPath() string {
	if d.stdout {
		return fallbackCountsPath
	}

	return d.prefix + countsSuffix
}

// streamPair holds the writers for one status. For interleaved output both
// fields are the same writer, so reads alternate naturally.
type streamPair struct {
	r1, r2 *xopen.Writer
}

// Router writes processed pairs to the destination streams for their status,
// silently discarding pairs whose status is not enabled. Streams for every
// enabled status are opened eagerly at construction, so the output layout is
// deterministic even for statuses that receive no pairs.
type Router struct {
	streams [whitelist.NumStatuses]*streamPair
	writers []*xopen.Writer
}

// NewRouter opens the destination streams and returns a Router. Match and
// Mismatch1 are always enabled; all additionally enables Ambiguous and
// Unknown. gzip compresses file output; interleaved writes one stream per
// status instead of an R1/R2 pair. For the Stdout destination interleaving
// is forced, gzip is ignored and all enabled statuses share the one stream.
func NewRouter(dest Destination, gzip, interleaved, all bool) (*Router, error) {
	enabled := []whitelist.Status{whitelist.Match, whitelist.Mismatch1}
	if all {
		enabled = append(enabled, whitelist.Ambiguous, whitelist.Unknown)
	}

	r := &Router{}

	if dest.IsStdout() {
		return r, r.openStdout(enabled)
	}

	return r, r.openFiles(dest.prefix, gzip, interleaved, enabled)
}

func (r *Router) openStdout(enabled []whitelist.Status) error {
	w, err := xopen.Wopen(stdoutPath)
	if err != nil {
		return err
	}

	r.writers = append(r.writers, w)

	for _, status := range enabled {
		r.streams[status] = &streamPair{r1: w, r2: w}
	}

	return nil
}

func (r *Router) openFiles(prefix string, gzip, interleaved bool,
	enabled []whitelist.Status) error {
	ext := fastqExtension
	if gzip {
		ext += gzipExtension
	}

	for _, status := range enabled {
		if interleaved {
			w, err := r.open(prefix + "_" + status.String() + ext)
			if err != nil {
				return err
			}

			r.streams[status] = &streamPair{r1: w, r2: w}

			continue
		}

		w1, err := r.open(prefix + "_R1_" + status.String() + ext)
		if err != nil {
			return err
		}

		w2, err := r.open(prefix + "_R2_" + status.String() + ext)
		if err != nil {
			return err
		}

		r.streams[status] = &streamPair{r1: w1, r2: w2}
	}

	return nil
}

// open creates one output stream, remembering it for Close. Compression is
// selected by the filename suffix, the xopen way.
func (r *Router) open(path string) (*xopen.Writer, error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		r.Close()

		return nil, err
	}

	r.writers = append(r.writers, w)

	return w, nil
}

// Write sends the pair to its status's streams, preserving arrival order
// within the status. Pairs with a disabled status are discarded without
// error; their statistics were already counted upstream. Write errors on the
// buffered streams surface from Flush or Close.
func (r *Router) Write(pair *reads.Pair) {
	sp := r.streams[pair.Status()]
	if sp == nil {
		return
	}

	pair.R1.FormatToWriter(sp.r1, 0)
	pair.R2.FormatToWriter(sp.r2, 0)
}

// Flush flushes every opened stream, returning the first accumulated write
// error. Calling it between batches lets a failing destination stop the run
// early instead of only being noticed at Close.
func (r *Router) Flush() error {
	for _, w := range r.writers {
		w.Flush()
	}

	return nil
}

// Close flushes and closes every opened stream exactly once, including
// streams that received no writes. It returns the first error encountered.
func (r *Router) Close() error {
	var firstErr error

	for _, w := range r.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	r.writers = nil

	return firstErr
}
