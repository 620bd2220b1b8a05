// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graphui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gantry-build/gantry/lib/buildgraph"
)

// kindBadgeWidth is the fixed width of the kind badge column. Badges
// are 3-character codes so even long labels keep most of the row.
const kindBadgeWidth = 3

// kindBadge returns a 3-character code for a target kind, used as the
// leading column of each list row.
func kindBadge(kind buildgraph.Kind) string {
	switch kind {
	case buildgraph.KindSourceSet:
		return "set"
	case buildgraph.KindComponent:
		return "cmp"
	case buildgraph.KindBindgenGenerator:
		return "gen"
	case buildgraph.KindStaticLibrary:
		return "lib"
	case buildgraph.KindExecutable:
		return "bin"
	default:
		return "???"
	}
}

// ListRenderer handles row rendering for the target list within a
// given width.
type ListRenderer struct {
	theme Theme
	width int
}

// NewListRenderer creates a ListRenderer for the given width.
func NewListRenderer(theme Theme, width int) ListRenderer {
	return ListRenderer{theme: theme, width: width}
}

// RenderRow renders one target row: a colored kind badge followed by
// the label. The selected flag switches to highlight styling.
// matchPositions are rune indices into the label that matched the
// fuzzy filter; those characters get emphasis.
//
//	gen //rust/bindings:generator
//	lib //rust/bindings:static_lib
func (renderer ListRenderer) RenderRow(target *buildgraph.Target, selected bool, matchPositions []int) string {
	labelWidth := renderer.width - 1 - kindBadgeWidth - 1
	if labelWidth < 10 {
		labelWidth = 10
	}

	label := target.Label.String()
	if lipgloss.Width(label) > labelWidth {
		label = truncateString(label, labelWidth-1) + "…"
	}

	if selected {
		baseStyle := lipgloss.NewStyle().
			Background(renderer.theme.SelectedBackground).
			Foreground(renderer.theme.SelectedForeground)
		row := " " +
			baseStyle.Bold(true).Render(kindBadge(target.Kind)) +
			" " +
			highlightLabel(label, matchPositions, baseStyle, baseStyle.Bold(true).Underline(true))
		return baseStyle.Width(renderer.width).MaxWidth(renderer.width).Render(row)
	}

	badgeStyle := lipgloss.NewStyle().
		Foreground(renderer.theme.KindColor(target.Kind))
	labelStyle := lipgloss.NewStyle().
		Foreground(renderer.theme.NormalText)
	matchStyle := lipgloss.NewStyle().
		Foreground(renderer.theme.MatchForeground).
		Bold(true)

	row := " " +
		badgeStyle.Render(kindBadge(target.Kind)) +
		" " +
		highlightLabel(label, matchPositions, labelStyle, matchStyle)
	return lipgloss.NewStyle().Width(renderer.width).MaxWidth(renderer.width).Render(row)
}

// highlightLabel renders a label with character-level highlighting at
// the given rune positions. Consecutive runs of same-style characters
// are batched into a single Render call to keep ANSI output compact.
// Positions past the (possibly truncated) label are ignored.
func highlightLabel(label string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(label)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	runes := []rune(label)
	var result strings.Builder
	runStart := 0
	isHighlighted := positionSet[0]

	for index := 1; index <= len(runes); index++ {
		currentHighlighted := index < len(runes) && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(runes) {
			chunk := string(runes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}
	return result.String()
}

// truncateString truncates a string to maxWidth visual characters.
func truncateString(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for length := len(runes) - 1; length >= 0; length-- {
		candidate := string(runes[:length])
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return ""
}
