// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package mdtext

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for rendered markdown. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// NormalText colors body copy; FaintText colors code spans,
	// link targets, and other secondary material.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Heading colors level-1 and level-2 headings (deeper levels use
	// NormalText bold).
	Heading lipgloss.Color

	// Accent colors checked task boxes.
	Accent lipgloss.Color

	// Border colors horizontal rules and table separators.
	Border lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme, tuned for
// 256-color terminals with dark backgrounds.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Heading:    lipgloss.Color("255"),
	Accent:     lipgloss.Color("114"),
	Border:     lipgloss.Color("240"),
}
