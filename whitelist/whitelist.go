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

// package whitelist indexes a catalog of valid gem barcodes and classifies
// extracted barcodes against it, tolerating a single substitution.

package whitelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEntryLength = Error("whitelist entry length does not match barcode length")
	ErrNoEntries   = Error("whitelist contains no barcodes")
)

// Status classifies how an extracted barcode compared to the whitelist.
type Status uint8

const (
	// Match means the barcode is in the whitelist exactly.
	Match Status = iota

	// Mismatch1 means the barcode is one substitution away from exactly one
	// whitelist barcode.
	Mismatch1

	// Ambiguous means the barcode is one substitution away from more than
	// one whitelist barcode.
	Ambiguous

	// Unknown means the barcode is neither in the whitelist nor within one
	// substitution of any whitelist barcode.
	Unknown

	NumStatuses = 4
)

// Statuses holds all statuses in their canonical reporting order.
var Statuses = [NumStatuses]Status{Match, Mismatch1, Ambiguous, Unknown}

// String returns the status name as used in read identifiers and reports.
func (s Status) String() string {
	switch s {
	case Match:
		return "MATCH"
	case Mismatch1:
		return "MISMATCH1"
	case Ambiguous:
		return "AMBIGUOUS"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus converts a status name back to a Status, reversing String().
func ParseStatus(name string) (Status, error) {
	for _, s := range Statuses {
		if s.String() == name {
			return s, nil
		}
	}

	return Unknown, Error(fmt.Sprintf("invalid status: %s", name))
}

var bases = [4]byte{'A', 'C', 'G', 'T'}

// Index holds a gem barcode whitelist in a form that allows constant-time
// classification of barcodes with up to one substitution of tolerance.
type Index struct {
	length int
	exact  map[string]bool

	// near maps every single-substitution variant of every whitelist barcode
	// to its canonical origin. A variant reachable from more than one origin
	// is stored with an empty origin, marking it inherently ambiguous.
	near map[string]string
}

// New builds an Index from the given barcodes, each of which must have the
// given length.
func New(barcodes []string, length int) (*Index, error) {
	if len(barcodes) == 0 {
		return nil, ErrNoEntries
	}

	idx := &Index{
		length: length,
		exact:  make(map[string]bool, len(barcodes)),
		near:   make(map[string]string, len(barcodes)*length*(len(bases)-1)),
	}

	for _, bc := range barcodes {
		if len(bc) != length {
			return nil, fmt.Errorf("%s: %w", bc, ErrEntryLength)
		}

		idx.exact[bc] = true
		idx.addVariants(bc)
	}

	return idx, nil
}

// addVariants records every single-substitution variant of the given
// barcode, marking variants shared with another barcode as ambiguous.
func (idx *Index) addVariants(bc string) {
	buf := []byte(bc)

	for i := range buf {
		orig := buf[i]

		for _, b := range bases {
			if b == orig {
				continue
			}

			buf[i] = b
			variant := string(buf)

			if existing, seen := idx.near[variant]; seen && existing != bc {
				idx.near[variant] = ""
			} else if !seen {
				idx.near[variant] = bc
			}
		}

		buf[i] = orig
	}
}

// Load reads a whitelist file with one barcode per line and builds an Index.
// Every entry must have the given length.
func Load(path string, length int) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	var barcodes []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		barcodes = append(barcodes, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	idx, err := New(barcodes, length)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return idx, nil
}

// Lookup classifies a barcode. For Match and Mismatch1 it also returns the
// corrected barcode; for Ambiguous and Unknown the returned string is empty.
func (idx *Index) Lookup(bc string) (Status, string) {
	if idx.exact[bc] {
		return Match, bc
	}

	origin, seen := idx.near[bc]
	if !seen {
		return Unknown, ""
	}

	if origin == "" {
		return Ambiguous, ""
	}

	return Mismatch1, origin
}

// Result is the outcome of classifying an extracted barcode. Barcode is the
// corrected barcode for Match and Mismatch1, and the barcode as extracted
// from the read otherwise.
type Result struct {
	Status  Status
	Barcode string
}

// Classify extracts the gem barcode prefix from the given read1 sequence and
// classifies it. Reads shorter than the barcode length still classify on the
// available prefix rather than erroring; they will all but certainly come
// back Unknown.
func (idx *Index) Classify(seq []byte) Result {
	n := idx.length
	if len(seq) < n {
		n = len(seq)
	}

	bc := string(seq[:n])

	status, corrected := idx.Lookup(bc)
	if status == Match || status == Mismatch1 {
		return Result{Status: status, Barcode: corrected}
	}

	return Result{Status: status, Barcode: bc}
}

// Size returns the number of whitelist barcodes.
func (idx *Index) Size() int {
	return len(idx.exact)
}

// Length returns the configured barcode length.
func (idx *Index) Length() int {
	return idx.length
}

// Variants returns the number of distinct single-substitution variants the
// index can correct or flag as ambiguous.
func (idx *Index) Variants() int {
	return len(idx.near)
}

// AmbiguousVariants returns how many variants map to more than one
// whitelist barcode.
func (idx *Index) AmbiguousVariants() int {
	n := 0

	for _, origin := range idx.near {
		if origin == "" {
			n++
		}
	}

	return n
}
