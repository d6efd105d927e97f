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

package stats

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

func TestMedian(t *testing.T) {
	Convey("Median handles odd, even and empty inputs", t, func() {
		So(Median([]uint64{1, 2, 3, 4}), ShouldEqual, 2.5)
		So(Median([]uint64{1, 2, 3}), ShouldEqual, 2)
		So(Median([]uint64{7}), ShouldEqual, 7)
		So(Median([]uint64{4, 1, 3, 2}), ShouldEqual, 2.5)
		So(Median(nil), ShouldEqual, 0)
	})

	Convey("Median does not reorder its input", t, func() {
		values := []uint64{3, 1, 2}
		So(Median(values), ShouldEqual, 2)
		So(values[0], ShouldEqual, 3)
	})
}

func TestTracker(t *testing.T) {
	Convey("Given a Tracker", t, func() {
		tracker := NewTracker()

		Convey("it counts every status but only valid barcodes", func() {
			tracker.Add(whitelist.Result{Status: whitelist.Match, Barcode: "AAAA"})
			tracker.Add(whitelist.Result{Status: whitelist.Match, Barcode: "AAAA"})
			tracker.Add(whitelist.Result{Status: whitelist.Mismatch1, Barcode: "CCCC"})
			tracker.Add(whitelist.Result{Status: whitelist.Ambiguous, Barcode: "AAAT"})
			tracker.Add(whitelist.Result{Status: whitelist.Unknown, Barcode: "TTTT"})

			So(tracker.Total(), ShouldEqual, 5)
			So(tracker.StatusCount(whitelist.Match), ShouldEqual, 2)
			So(tracker.StatusCount(whitelist.Mismatch1), ShouldEqual, 1)
			So(tracker.StatusCount(whitelist.Ambiguous), ShouldEqual, 1)
			So(tracker.StatusCount(whitelist.Unknown), ShouldEqual, 1)

			Convey("and the status counts sum to the total", func() {
				var sum uint64
				for _, s := range whitelist.Statuses {
					sum += tracker.StatusCount(s)
				}

				So(sum, ShouldEqual, tracker.Total())
			})

			Convey("and barcode frequencies exclude AMBIGUOUS and UNKNOWN", func() {
				So(tracker.Barcodes(), ShouldEqual, 2)
				So(tracker.MedianReadsPerBarcode(), ShouldEqual, 1.5)
			})

			Convey("and percentages are of all pairs", func() {
				So(tracker.StatusPercent(whitelist.Match), ShouldEqual, 40)
				So(tracker.StatusPercent(whitelist.Unknown), ShouldEqual, 20)
			})

			Convey("and PersistCounts writes a sorted barcode table", func() {
				path := filepath.Join(t.TempDir(), "counts.txt")
				So(tracker.PersistCounts(path), ShouldBeNil)

				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "AAAA\t2\nCCCC\t1\n")
			})
		})

		Convey("an empty tracker reports zeroes", func() {
			So(tracker.Total(), ShouldEqual, 0)
			So(tracker.Barcodes(), ShouldEqual, 0)
			So(tracker.MedianReadsPerBarcode(), ShouldEqual, 0)
			So(tracker.StatusPercent(whitelist.Match), ShouldEqual, 0)
		})
	})
}
