/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
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

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvVarWhitelist = "GEMPROC_WHITELIST"
	EnvVarBatchSize = "GEMPROC_BATCH_SIZE"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrInvalidBatchSize = Error("GEMPROC_BATCH_SIZE must be a positive integer")

// Config holds environment-sourced defaults for values not given on the
// command line.
type Config struct {
	WhitelistPath string
	BatchSize     int
}

// FromEnv returns a new Config with properties populated from environment
// variables GEMPROC_*, where * is amongst: WHITELIST and BATCH_SIZE.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Both variables are optional; an unset BatchSize is returned as 0.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) (*Config, error) {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env")

	c := &Config{
		WhitelistPath: os.Getenv(EnvVarWhitelist),
	}

	if batch := os.Getenv(EnvVarBatchSize); batch != "" {
		n, err := strconv.Atoi(batch)
		if err != nil || n <= 0 {
			return nil, ErrInvalidBatchSize
		}

		c.BatchSize = n
	}

	return c, nil
}
