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

// package pipeline drives batches of read pairs from a source through the
// output router, reporting progress and a final per-status summary.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/gemproc/output"
	"github.com/wtsi-hgi/gemproc/reads"
	"github.com/wtsi-hgi/gemproc/stats"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

type Error string

func (e Error) Error() string { return string(e) }

// ErrInterrupted is returned when a signal arrives between batches. No flush
// of buffered output or statistics is guaranteed in that case.
const ErrInterrupted = Error("unexpectedly terminated")

// DefaultBatchSize is how many pairs are pulled from the source at a time
// when no other size is configured.
const DefaultBatchSize = 250000

// Pipeline runs a whole processing run: repeatedly pulls classified,
// transformed batches from Source, routes them through Router, then persists
// the barcode frequency table and reports a summary. All fields must be set.
type Pipeline struct {
	Source     *reads.Source
	Router     *output.Router
	Tracker    *stats.Tracker
	CountsPath string
	BatchSize  int
	Verbose    bool
	Logger     log15.Logger
}

// Run processes every pair from the source. The interrupt channel is checked
// only between batches; a received signal aborts with ErrInterrupted,
// skipping finalisation. Any other error also aborts with no flush
// guarantee.
func (p *Pipeline) Run(interrupt <-chan os.Signal) error {
	start := time.Now()

	for {
		select {
		case <-interrupt:
			return ErrInterrupted
		default:
		}

		batch, err := p.Source.Next(p.BatchSize)
		if err != nil {
			return err
		}

		if len(batch) == 0 {
			break
		}

		for _, pair := range batch {
			p.Router.Write(pair)
		}

		if err := p.Router.Flush(); err != nil {
			return err
		}

		if p.Verbose {
			p.logProgress(start)
		}
	}

	return p.finalise(start)
}

// finalise persists the barcode counts, closes every output stream and
// reports the final summary.
func (p *Pipeline) finalise(start time.Time) error {
	if err := p.Tracker.PersistCounts(p.CountsPath); err != nil {
		return err
	}

	if err := p.Router.Close(); err != nil {
		return err
	}

	if p.Verbose {
		p.logProgress(start)
		p.logSummary()
	}

	return nil
}

// logProgress reports cumulative throughput and barcode statistics after
// each batch. One unit is one read pair.
func (p *Pipeline) logProgress(start time.Time) {
	elapsed := time.Since(start).Seconds()

	perSec := float64(p.Source.Count())
	if elapsed > 0 {
		perSec /= elapsed
	}

	p.Logger.Info("processed read pairs",
		"pairs", p.Source.Count(),
		"pairs/sec", fmt.Sprintf("%.0f", perSec),
		"barcodes", p.Tracker.Barcodes(),
		"median_pairs/barcode", fmt.Sprintf("%.2f", p.Tracker.MedianReadsPerBarcode()),
	)
}

// logSummary reports the count and percentage of every classification
// status, including statuses that were not written to any destination.
func (p *Pipeline) logSummary() {
	for _, status := range whitelist.Statuses {
		p.Logger.Info("barcode status",
			"status", status.String(),
			"count", p.Tracker.StatusCount(status),
			"percent", fmt.Sprintf("%.2f", p.Tracker.StatusPercent(status)),
		)
	}
}
