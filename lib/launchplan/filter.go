// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package launchplan

import (
	"fmt"
	"os"
	"strings"
)

// GTestFilter assembles filter patterns into a single gtest filter
// expression: positive patterns joined by ':', then '-' and the
// negated patterns joined by ':'. Returns "" when patterns is empty.
//
//	GTestFilter([]string{"Net.*", "-Net.Slow", "Dns.Lookup"})
//	// "Net.*:Dns.Lookup-Net.Slow"
func GTestFilter(patterns []string) string {
	var positives, negatives []string
	for _, pattern := range patterns {
		if negated, ok := strings.CutPrefix(pattern, "-"); ok {
			negatives = append(negatives, negated)
		} else {
			positives = append(positives, pattern)
		}
	}
	expression := strings.Join(positives, ":")
	if len(negatives) > 0 {
		expression += "-" + strings.Join(negatives, ":")
	}
	return expression
}

// LoadFilterFile reads filter patterns from a file, one per line.
// Blank lines and lines starting with '#' are ignored; a '-' prefix
// negates a pattern. Surrounding whitespace is trimmed.
func LoadFilterFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filter file: %w", err)
	}

	var patterns []string
	for lineNumber, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "-" {
			return nil, fmt.Errorf("%s:%d: negation without a pattern", path, lineNumber+1)
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}
