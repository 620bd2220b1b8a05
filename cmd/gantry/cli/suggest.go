// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still offered as a
// "did you mean" suggestion. Three edits covers transposed, dropped,
// and doubled characters without suggesting unrelated names.
const maxSuggestDistance = 3

// suggestCommand returns the subcommand name closest to the unknown
// input, or "" when nothing is within the suggestion threshold.
func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, len(commands))
	for i, command := range commands {
		names[i] = command.Name
	}
	return closest(unknown, names)
}

// suggestFlag finds the first flag-shaped argument that flagSet does
// not define and returns the closest defined flag, with its -- or -
// prefix restored. Returns "" when every flag is known or nothing is
// close.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	name, ok := firstUnknownFlag(args, flagSet)
	if !ok {
		return ""
	}

	var defined []string
	flagSet.VisitAll(func(f *pflag.Flag) {
		defined = append(defined, f.Name)
	})

	match := closest(name, defined)
	switch {
	case match == "":
		return ""
	case len(match) == 1:
		return "-" + match
	default:
		return "--" + match
	}
}

// firstUnknownFlag scans args for the first --name or -n argument that
// is neither a defined long name nor a defined shorthand. The =value
// suffix is ignored.
func firstUnknownFlag(args []string, flagSet *pflag.FlagSet) (string, bool) {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if index := strings.IndexByte(name, '='); index >= 0 {
			name = name[:index]
		}
		if flagSet.Lookup(name) != nil {
			continue
		}
		if len(name) == 1 && flagSet.ShorthandLookup(name) != nil {
			continue
		}
		return name, true
	}
	return "", false
}

// closest returns the candidate with the smallest edit distance to
// name, or "" when none is within [maxSuggestDistance]. Ties keep the
// earliest candidate so suggestion order follows declaration order.
func closest(name string, candidates []string) string {
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, candidate := range candidates {
		if distance := levenshtein(name, candidate); distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	return best
}

// levenshtein computes the edit distance between two strings using a
// single reused row plus the diagonal cell, so space stays
// O(min(len(a), len(b))).
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diagonal := row[0]
		row[0] = j
		for i := 1; i <= len(a); i++ {
			cost := diagonal
			if a[i-1] != b[j-1] {
				cost = min(diagonal, min(row[i], row[i-1])) + 1
			}
			diagonal = row[i]
			row[i] = cost
		}
	}
	return row[len(a)]
}
