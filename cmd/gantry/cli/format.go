// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
)

// Canonicalizer produces the canonical form of one file and reports
// whether the input already matched it.
type Canonicalizer func(path string, source []byte) (formatted []byte, canonical bool, err error)

// FormatFiles runs the shared loop behind the format commands. By
// default the canonical form of every file prints to stdout. With
// write, files whose content changes are rewritten in place. With
// list, the names of non-canonical files print instead, and the
// command exits 1 unless write also ran — so CI can use --list as a
// formatting check.
func FormatFiles(paths []string, canonicalize Canonicalizer, write, list bool) error {
	needFormatting := 0
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted, canonical, err := canonicalize(path, source)
		if err != nil {
			return err
		}
		if !canonical {
			needFormatting++
			if list {
				fmt.Println(path)
			}
			if write {
				if err := os.WriteFile(path, formatted, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}
		}
		if !write && !list {
			if _, err := os.Stdout.Write(formatted); err != nil {
				return err
			}
		}
	}
	if list && !write && needFormatting > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}
