// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graphui

import (
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/gantry-build/gantry/lib/buildgraph"
)

// FilterModel holds the fuzzy filter state for the target list. The
// query matches target labels first; targets whose label doesn't match
// are still retained when the query matches their kind or fragment
// path, so "rust" narrows to Rust targets and "BUILD" to a fragment.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// FilterResult is one target that survived the filter, with its match
// quality and the label characters that matched (for highlighting).
type FilterResult struct {
	Target *buildgraph.Target

	// Score is zero when the filter is empty (everything passes).
	Score int

	// LabelPositions are matched rune indices into Target.Label's
	// string form. Empty when the match came from kind or fragment.
	LabelPositions []int
}

// Apply filters targets against the current query, best matches first.
// An empty query passes every target through in input order with zero
// scores.
func (filter *FilterModel) Apply(targets []*buildgraph.Target) []FilterResult {
	if filter.Input == "" {
		results := make([]FilterResult, len(targets))
		for index, target := range targets {
			results[index] = FilterResult{Target: target}
		}
		return results
	}

	pattern := []rune(filter.Input)
	slab := NewSlab()

	var results []FilterResult
	for _, target := range targets {
		labelMatch := FuzzyMatch(target.Label.String(), pattern, slab)
		score := labelMatch.Score
		if score == 0 {
			if kindMatch := FuzzyMatch(string(target.Kind), pattern, slab); kindMatch.Score > 0 {
				score = kindMatch.Score
			} else if fragmentMatch := FuzzyMatch(target.Fragment, pattern, slab); fragmentMatch.Score > 0 {
				score = fragmentMatch.Score
			}
		}
		if score == 0 {
			continue
		}
		results = append(results, FilterResult{
			Target:         target,
			Score:          score,
			LabelPositions: labelMatch.Positions,
		})
	}

	slices.SortStableFunc(results, func(a, b FilterResult) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.Target.Label.Compare(b.Target.Label)
	})
	return results
}

// HandleRune processes a character typed while the filter is active.
// Returns true if the input changed.
func (filter *FilterModel) HandleRune(character rune) bool {
	filter.Input += string(character)
	return true
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text dimmed. When
// inactive with no text, returns empty string (hidden).
func (filter *FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width)

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor)
	}

	dimStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width)
	return dimStyle.Render(" filter: " + filter.Input)
}
