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

package whitelist

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIndex(t *testing.T) {
	Convey("Given a whitelist of barcodes", t, func() {
		barcodes := []string{"AAAA", "CCCC"}

		idx, err := New(barcodes, 4)
		So(err, ShouldBeNil)
		So(idx.Size(), ShouldEqual, 2)
		So(idx.Length(), ShouldEqual, 4)

		Convey("every whitelist barcode looks up as a MATCH to itself", func() {
			for _, bc := range barcodes {
				status, corrected := idx.Lookup(bc)
				So(status, ShouldEqual, Match)
				So(corrected, ShouldEqual, bc)
			}
		})

		Convey("a unique single-substitution variant is a MISMATCH1", func() {
			status, corrected := idx.Lookup("AAAT")
			So(status, ShouldEqual, Mismatch1)
			So(corrected, ShouldEqual, "AAAA")

			status, corrected = idx.Lookup("CCGC")
			So(status, ShouldEqual, Mismatch1)
			So(corrected, ShouldEqual, "CCCC")
		})

		Convey("anything further away is UNKNOWN", func() {
			status, corrected := idx.Lookup("TTTT")
			So(status, ShouldEqual, Unknown)
			So(corrected, ShouldEqual, "")

			status, _ = idx.Lookup("AATT")
			So(status, ShouldEqual, Unknown)
		})

		Convey("non-ACGT barcodes fall through to UNKNOWN", func() {
			status, _ := idx.Lookup("AAAN")
			So(status, ShouldEqual, Unknown)
		})
	})

	Convey("Given whitelist barcodes sharing a variant", t, func() {
		idx, err := New([]string{"AAAT", "AAAG"}, 4)
		So(err, ShouldBeNil)

		Convey("the shared variant is AMBIGUOUS", func() {
			// AAAC is one substitution from both entries
			status, corrected := idx.Lookup("AAAC")
			So(status, ShouldEqual, Ambiguous)
			So(corrected, ShouldEqual, "")
		})

		Convey("the entries themselves still MATCH", func() {
			status, corrected := idx.Lookup("AAAT")
			So(status, ShouldEqual, Match)
			So(corrected, ShouldEqual, "AAAT")
		})

		Convey("variant accountancy is visible to info", func() {
			So(idx.Variants(), ShouldBeGreaterThan, 0)
			So(idx.AmbiguousVariants(), ShouldBeGreaterThanOrEqualTo, 1)
			So(idx.Variants(), ShouldBeGreaterThan, idx.AmbiguousVariants())
		})
	})

	Convey("New rejects bad input", t, func() {
		_, err := New([]string{"AAAA", "CCC"}, 4)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, ErrEntryLength.Error())

		_, err = New(nil, 4)
		So(err, ShouldEqual, ErrNoEntries)
	})
}

func TestClassify(t *testing.T) {
	Convey("Given an index", t, func() {
		idx, err := New([]string{"AAAA", "CCCC"}, 4)
		So(err, ShouldBeNil)

		Convey("it classifies read prefixes", func() {
			res := idx.Classify([]byte("AAAATT"))
			So(res.Status, ShouldEqual, Match)
			So(res.Barcode, ShouldEqual, "AAAA")

			res = idx.Classify([]byte("AAATTT"))
			So(res.Status, ShouldEqual, Mismatch1)
			So(res.Barcode, ShouldEqual, "AAAA")

			res = idx.Classify([]byte("TTTTTT"))
			So(res.Status, ShouldEqual, Unknown)
			So(res.Barcode, ShouldEqual, "TTTT")
		})

		Convey("short reads classify on the available prefix without error", func() {
			res := idx.Classify([]byte("AA"))
			So(res.Status, ShouldEqual, Unknown)
			So(res.Barcode, ShouldEqual, "AA")

			res = idx.Classify(nil)
			So(res.Status, ShouldEqual, Unknown)
			So(res.Barcode, ShouldEqual, "")
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a whitelist file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "whitelist.txt")

		err := os.WriteFile(path, []byte("AAAA\nCCCC\n"), 0600)
		So(err, ShouldBeNil)

		Convey("Load builds an index from it", func() {
			idx, err := Load(path, 4)
			So(err, ShouldBeNil)
			So(idx.Size(), ShouldEqual, 2)

			status, _ := idx.Lookup("AAAA")
			So(status, ShouldEqual, Match)
		})

		Convey("Load rejects entries of the wrong width", func() {
			_, err := Load(path, 16)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, ErrEntryLength.Error())
		})
	})

	Convey("Load fails on an unreadable path", t, func() {
		_, err := Load("/nonexistent/whitelist.txt", 4)
		So(err, ShouldNotBeNil)
	})
}

func TestStatus(t *testing.T) {
	Convey("Statuses round-trip through their names", t, func() {
		for _, s := range Statuses {
			parsed, err := ParseStatus(s.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, s)
		}

		_, err := ParseStatus("WOBBLY")
		So(err, ShouldNotBeNil)
	})
}
