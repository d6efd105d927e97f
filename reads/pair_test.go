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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

func TestSuffix(t *testing.T) {
	Convey("Annotations serialise to an identifier suffix and back", t, func() {
		ann := Annotation{
			Barcode: "AAAA",
			Primer:  "TT",
			Status:  whitelist.Match,
		}

		suffix := ann.Suffix()
		So(suffix, ShouldEqual, ":AAAA:TT:MATCH")

		orig, parsed, err := ParseSuffix("p1" + suffix)
		So(err, ShouldBeNil)
		So(orig, ShouldEqual, "p1")
		So(parsed, ShouldResemble, ann)

		Convey("even when the original identifier contains the delimiter", func() {
			orig, parsed, err := ParseSuffix("M00:12:34" + suffix)
			So(err, ShouldBeNil)
			So(orig, ShouldEqual, "M00:12:34")
			So(parsed, ShouldResemble, ann)
		})

		Convey("even when the primer region is empty", func() {
			empty := Annotation{Barcode: "TTTT", Status: whitelist.Unknown}
			So(empty.Suffix(), ShouldEqual, ":TTTT::UNKNOWN")

			orig, parsed, err := ParseSuffix("p2" + empty.Suffix())
			So(err, ShouldBeNil)
			So(orig, ShouldEqual, "p2")
			So(parsed, ShouldResemble, empty)
		})
	})

	Convey("ParseSuffix rejects identifiers without a valid suffix", t, func() {
		_, _, err := ParseSuffix("p1")
		So(err, ShouldEqual, ErrBadSuffix)

		_, _, err = ParseSuffix("p1:AAAA:TT:WOBBLY")
		So(err, ShouldEqual, ErrBadSuffix)
	})
}
