// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graphui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gantry-build/gantry/lib/buildgraph"
)

// Theme defines the color palette for the graph browser. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Kind badge colors. Each target kind gets a distinct hue so the
	// list communicates composition at a glance.
	KindSourceSet     lipgloss.Color
	KindComponent     lipgloss.Color
	KindGenerator     lipgloss.Color
	KindStaticLibrary lipgloss.Color
	KindExecutable    lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Foreground for label characters matched by the fuzzy filter.
	MatchForeground lipgloss.Color
}

// KindColor returns the badge color for a target kind. Unknown kinds
// get FaintText.
func (theme Theme) KindColor(kind buildgraph.Kind) lipgloss.Color {
	switch kind {
	case buildgraph.KindSourceSet:
		return theme.KindSourceSet
	case buildgraph.KindComponent:
		return theme.KindComponent
	case buildgraph.KindBindgenGenerator:
		return theme.KindGenerator
	case buildgraph.KindStaticLibrary:
		return theme.KindStaticLibrary
	case buildgraph.KindExecutable:
		return theme.KindExecutable
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	KindSourceSet:     lipgloss.Color("245"), // gray: passive file sets
	KindComponent:     lipgloss.Color("75"),  // blue
	KindGenerator:     lipgloss.Color("208"), // orange: code generation step
	KindStaticLibrary: lipgloss.Color("114"), // green
	KindExecutable:    lipgloss.Color("141"), // purple: final link products

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	MatchForeground: lipgloss.Color("220"), // amber
}
