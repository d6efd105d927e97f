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
	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/gemproc/config"
	"github.com/wtsi-hgi/gemproc/whitelist"
)

// options for this cmd.
var (
	infoWhitelist string
	infoBCTrim    int
)

// infoCmd represents the info command.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Get whitelist info.",
	Long: `Get whitelist info.

Loads the given gem barcode whitelist and reports how many barcodes it
contains, how many single-substitution variants the index can correct, and
how many variants are ambiguous (reachable from more than one whitelist
barcode, so never correctable).
`,
	Run: func(_ *cobra.Command, _ []string) {
		err := whitelistInfo()
		if err != nil {
			die("%s", err.Error())
		}
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)

	// flags specific to this sub-command
	infoCmd.Flags().StringVarP(&infoWhitelist, "whitelist", "w", "",
		"gem barcode whitelist file to use")
	infoCmd.Flags().IntVarP(&infoBCTrim, "bctrim", "b", defaultBarcodeLength,
		"gem barcode length")
}

func whitelistInfo() error {
	c, err := config.FromEnv()
	if err != nil {
		return err
	}

	path := infoWhitelist
	if path == "" {
		path = c.WhitelistPath
	}

	if path == "" {
		return ErrWhitelistRequired
	}

	info("loading whitelist from %s", path)

	idx, err := whitelist.Load(path, infoBCTrim)
	if err != nil {
		return err
	}

	cliPrint("barcodes: %d\n", idx.Size())
	cliPrint("barcode length: %d\n", idx.Length())
	cliPrint("correctable variants: %d\n", idx.Variants()-idx.AmbiguousVariants())
	cliPrint("ambiguous variants: %d\n", idx.AmbiguousVariants())

	return nil
}
