// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graphui

import (
	"slices"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes match fzf's own allocation for its matcher goroutines.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

func init() {
	// Populates the algorithm's character class and bonus tables.
	// Without this, matches still succeed but boundary bonuses are
	// zero and ranking degrades to match length alone.
	algo.Init("default")
}

// FuzzyResult is the outcome of matching a pattern against one text.
// A zero Score means no match.
type FuzzyResult struct {
	// Score is fzf's match quality. Higher is better; contiguous
	// matches at word boundaries score above scattered ones.
	Score int

	// Positions are the matched rune indices into the text, ascending.
	Positions []int
}

// NewSlab allocates a reusable scratch buffer for FuzzyMatch. One slab
// serves any number of sequential matches; allocate one per filter
// pass rather than per candidate.
func NewSlab() *util.Slab {
	return util.MakeSlab(slab16Size, slab32Size)
}

// FuzzyMatch runs fzf's V2 algorithm for pattern against text,
// case-insensitively. The pattern is lowercased here so callers can
// pass raw input; the text is matched as-is so the returned positions
// index into it directly. A nil slab is allowed (the algorithm
// allocates internally) but slower across many candidates.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}

	lowered := make([]rune, len(pattern))
	for index, character := range pattern {
		lowered[index] = unicode.ToLower(character)
	}

	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	match := FuzzyResult{Score: result.Score}
	if positions != nil {
		// The algorithm reports positions in backtrack order.
		match.Positions = *positions
		slices.Sort(match.Positions)
	}
	return match
}
