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

package cmd

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/gemproc/config"
	"github.com/wtsi-hgi/gemproc/output"
	"github.com/wtsi-hgi/gemproc/pipeline"
	"github.com/wtsi-hgi/gemproc/reads"
	"github.com/wtsi-hgi/gemproc/stats"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

const (
	ErrWhitelistRequired = Error("supply a whitelist with -w or GEMPROC_WHITELIST")

	// stdoutSentinel is the -o value meaning "write everything to STDOUT".
	stdoutSentinel = "stdout"

	defaultBarcodeLength = 16
	defaultPrimerLength  = 7

	dirPerm = 0755

	batchFlag = "batch"
)

type Error string

func (e Error) Error() string { return string(e) }

// options for this cmd.
var (
	processRead1       []string
	processRead2       []string
	processOutput      string
	processNoGzip      bool
	processInterleaved bool
	processBCTrim      int
	processTrim        int
	processAll         bool
	processWhitelist   string
	processBatchSize   int
	processQuiet       bool
)

// processCmd represents the process command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process 10x gem-barcoded read pairs.",
	Long: `Process 10x gem-barcoded read pairs.

Read pairs are streamed from the given read1 and read2 FASTQ files (plain or
gzipped; the lists must be the same length and are consumed in order). The
first -b bases of each read1 are compared to the whitelist: an exact hit is a
MATCH, a hit after correcting one substitution is a MISMATCH1, a barcode one
substitution away from several whitelist entries is AMBIGUOUS, and anything
else is UNKNOWN.

The barcode and the next -t primer bases are removed from read1, and both
read identifiers gain a :barcode:primer:STATUS suffix. MATCH and MISMATCH1
pairs are written to per-status output files named after the -o
directory+prefix (or all interleaved to STDOUT when -o is "stdout"); pass -a
to also write AMBIGUOUS and UNKNOWN pairs. A corrected-barcode frequency
table is written beside the outputs.

An example command line could look like this:
$ gemproc process -w whitelist.txt -o out/sampleA \
    -1 s_1.r1.fastq.gz -1 s_2.r1.fastq.gz \
    -2 s_1.r2.fastq.gz -2 s_2.r2.fastq.gz
`,
	Run: func(cmd *cobra.Command, _ []string) {
		c, err := config.FromEnv()
		if err != nil {
			die("%s", err.Error())
		}

		whitelistPath := processWhitelist
		if whitelistPath == "" {
			whitelistPath = c.WhitelistPath
		}

		if whitelistPath == "" {
			die("%s", ErrWhitelistRequired.Error())
		}

		batchSize := processBatchSize
		if !cmd.Flags().Changed(batchFlag) && c.BatchSize > 0 {
			batchSize = c.BatchSize
		}

		if batchSize <= 0 {
			die("%s", reads.ErrInvalidBatchSize.Error())
		}

		idx, err := whitelist.Load(whitelistPath, processBCTrim)
		if err != nil {
			die("%s", err.Error())
		}

		tracker := stats.NewTracker()

		src, err := reads.NewSource(processRead1, processRead2, idx, tracker, processTrim)
		if err != nil {
			die("%s", err.Error())
		}

		dest, err := resolveDestination(processOutput)
		if err != nil {
			die("%s", err.Error())
		}

		router, err := output.NewRouter(dest, !processNoGzip, processInterleaved, processAll)
		if err != nil {
			die("%s", err.Error())
		}

		runPipeline(src, router, tracker, dest.CountsPath(), batchSize)
	},
}

// resolveDestination turns the -o value into a Destination once, creating
// the parent directory of a file-set prefix if needed.
func resolveDestination(out string) (output.Destination, error) {
	if out == stdoutSentinel {
		return output.Stdout(), nil
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return output.Destination{}, err
		}
	}

	return output.FileSet(out), nil
}

func runPipeline(src *reads.Source, router *output.Router, tracker *stats.Tracker,
	countsPath string, batchSize int) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	defer signal.Stop(interrupt)
	defer src.Close()

	p := &pipeline.Pipeline{
		Source:     src,
		Router:     router,
		Tracker:    tracker,
		CountsPath: countsPath,
		BatchSize:  batchSize,
		Verbose:    !processQuiet,
		Logger:     appLogger,
	}

	err := p.Run(interrupt)
	if errors.Is(err, pipeline.ErrInterrupted) {
		die("process unexpectedly terminated")
	}

	if err != nil {
		die("a fatal error was encountered: %s", err.Error())
	}
}

func init() {
	RootCmd.AddCommand(processCmd)

	// flags specific to this sub-command
	processCmd.Flags().StringSliceVarP(&processRead1, "read1", "1", nil,
		"read1 of a pair; repeat for multiple files")
	markFlagRequired(processCmd, "read1")
	processCmd.Flags().StringSliceVarP(&processRead2, "read2", "2", nil,
		"read2 of a pair; repeat for multiple files")
	markFlagRequired(processCmd, "read2")

	processCmd.Flags().StringVarP(&processOutput, "output", "o", stdoutSentinel,
		"directory + prefix to output reads, or stdout")
	processCmd.Flags().BoolVarP(&processNoGzip, "nogzip", "g", false,
		"do not gzip the output, ignored if output is stdout")
	processCmd.Flags().BoolVarP(&processInterleaved, "interleaved", "i", false,
		"output in interleaved format, forced if output is stdout")

	processCmd.Flags().IntVarP(&processBCTrim, "bctrim", "b", defaultBarcodeLength,
		"gem barcode length to trim")
	processCmd.Flags().IntVarP(&processTrim, "trim", "t", defaultPrimerLength,
		"additional primer bases to trim after the gem barcode")
	processCmd.Flags().BoolVarP(&processAll, "all", "a", false,
		"also output AMBIGUOUS and UNKNOWN reads, not just those with a valid gem barcode")
	processCmd.Flags().StringVarP(&processWhitelist, "whitelist", "w", "",
		"gem barcode whitelist file to use")
	processCmd.Flags().IntVar(&processBatchSize, batchFlag, pipeline.DefaultBatchSize,
		"number of read pairs to process per batch")
	processCmd.Flags().BoolVarP(&processQuiet, "quiet", "q", false,
		"turn off progress output")
}

func markFlagRequired(cmd *cobra.Command, flagName string) {
	err := cmd.MarkFlagRequired(flagName)
	if err != nil {
		die("%s", err.Error())
	}
}
