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

// package stats tracks per-barcode and per-status counts for a single
// processing run.

package stats

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/wtsi-hgi/gemproc/whitelist"
)

// Tracker accumulates classification statistics. It is owned by the pipeline
// and mutated by its single goroutine only, so it needs no locking.
type Tracker struct {
	barcodeCounts map[string]uint64
	statusCounts  [whitelist.NumStatuses]uint64
	total         uint64
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		barcodeCounts: make(map[string]uint64),
	}
}

// Add records a classification result. Every result increments its status
// counter; only Match and Mismatch1 results increment the frequency of their
// corrected barcode.
func (t *Tracker) Add(res whitelist.Result) {
	t.statusCounts[res.Status]++
	t.total++

	if res.Status == whitelist.Match || res.Status == whitelist.Mismatch1 {
		t.barcodeCounts[res.Barcode]++
	}
}

// Total returns how many results have been recorded.
func (t *Tracker) Total() uint64 {
	return t.total
}

// StatusCount returns how many results had the given status.
func (t *Tracker) StatusCount(s whitelist.Status) uint64 {
	return t.statusCounts[s]
}

// StatusPercent returns the given status's share of all recorded results as
// a percentage, or 0 if nothing has been recorded.
func (t *Tracker) StatusPercent(s whitelist.Status) float64 {
	if t.total == 0 {
		return 0
	}

	return float64(t.statusCounts[s]) / float64(t.total) * 100
}

// Barcodes returns the number of distinct corrected barcodes observed.
func (t *Tracker) Barcodes() int {
	return len(t.barcodeCounts)
}

// MedianReadsPerBarcode returns the median of the per-barcode counts, or 0
// if no barcodes have been observed.
func (t *Tracker) MedianReadsPerBarcode() float64 {
	counts := make([]uint64, 0, len(t.barcodeCounts))

	for _, count := range t.barcodeCounts {
		counts = append(counts, count)
	}

	return Median(counts)
}

// Median returns the median of the given values: the middle value for an odd
// number of values, the mean of the two middle values for an even number,
// and 0 for no values at all.
func Median(values []uint64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]uint64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}

	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// PersistCounts writes the corrected-barcode frequency table to the given
// path, one barcode and count per tab-separated line, barcodes in sorted
// order so that identical runs produce identical files.
func (t *Tracker) PersistCounts(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)

	barcodes := make([]string, 0, len(t.barcodeCounts))
	for bc := range t.barcodeCounts {
		barcodes = append(barcodes, bc)
	}

	sort.Strings(barcodes)

	for _, bc := range barcodes {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", bc, t.barcodeCounts[bc]); err != nil {
			file.Close()

			return err
		}
	}

	if err := w.Flush(); err != nil {
		file.Close()

		return err
	}

	return file.Close()
}
