// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graphui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/gantry-build/gantry/lib/buildgraph"
	"github.com/gantry-build/gantry/lib/mdtext"
)

// detailHeaderLines is the fixed number of lines consumed by the
// detail pane header (label line + separator). Constant so the
// scrollable body never shifts vertically when switching targets.
const detailHeaderLines = 2

// DetailPane wraps a bubbles viewport for scrollable target detail.
// The pane has a fixed header (the target label and kind badge)
// rendered above the viewport, and a scrollable body below with the
// target's declaration site, fields, dependencies, and dependents.
type DetailPane struct {
	viewport viewport.Model
	theme    Theme
	width    int
	height   int

	// Retained for re-rendering on resize so the markdown body
	// rewraps at the new width.
	hasTarget bool
	graph     *buildgraph.Graph
	target    *buildgraph.Target

	// Pre-rendered header string, set by SetContent and rerender.
	header string
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(theme Theme) DetailPane {
	return DetailPane{theme: theme}
}

// bodyHeight returns the number of lines available for the scrollable
// viewport body.
func (pane DetailPane) bodyHeight() int {
	result := pane.height - detailHeaderLines
	if result < 1 {
		result = 1
	}
	return result
}

// contentWidth returns the usable width for text content (total width
// minus the left padding column).
func (pane DetailPane) contentWidth() int {
	result := pane.width - 2
	if result < 10 {
		result = 10
	}
	return result
}

// SetSize updates the detail pane dimensions. If the width changed and
// a target is displayed, the content re-renders at the new width so
// markdown wrapping stays correct.
func (pane *DetailPane) SetSize(width, height int) {
	previousWidth := pane.width
	pane.width = width
	pane.height = height
	pane.viewport.Width = pane.contentWidth()
	pane.viewport.Height = pane.bodyHeight()

	if pane.hasTarget && width != previousWidth {
		pane.rerender()
	}
}

// SetContent renders the given target into the pane and scrolls to
// the top.
func (pane *DetailPane) SetContent(graph *buildgraph.Graph, target *buildgraph.Target) {
	pane.hasTarget = true
	pane.graph = graph
	pane.target = target
	pane.rerender()
	pane.viewport.GotoTop()
}

// Clear empties the pane.
func (pane *DetailPane) Clear() {
	pane.hasTarget = false
	pane.graph = nil
	pane.target = nil
	pane.header = ""
	pane.viewport.SetContent("")
}

// rerender rebuilds the header and body at the current width.
func (pane *DetailPane) rerender() {
	if !pane.hasTarget {
		return
	}

	width := pane.contentWidth()
	labelStyle := lipgloss.NewStyle().
		Foreground(pane.theme.HeaderForeground).
		Bold(true)
	kindStyle := lipgloss.NewStyle().
		Foreground(pane.theme.KindColor(pane.target.Kind))
	separatorStyle := lipgloss.NewStyle().
		Foreground(pane.theme.BorderColor)

	labelLine := labelStyle.Render(pane.target.Label.String()) +
		"  " + kindStyle.Render(string(pane.target.Kind))
	labelLine = lipgloss.NewStyle().Width(width).MaxWidth(width).Render(labelLine)
	pane.header = labelLine + "\n" + separatorStyle.Render(strings.Repeat("─", width))

	body := mdtext.Render(detailMarkdown(pane.graph, pane.target), width)
	pane.viewport.SetContent(body)
}

// View renders the full detail pane: fixed header, then the viewport
// body, left-padded by one column. The focused flag currently has no
// visual effect beyond what the model's help bar shows; it is kept in
// the signature so focus styling can attach here without touching
// call sites.
func (pane DetailPane) View(focused bool) string {
	_ = focused

	if !pane.hasTarget {
		empty := lipgloss.NewStyle().
			Foreground(pane.theme.FaintText).
			Width(pane.width).
			Height(pane.height)
		return empty.Render(" no target selected")
	}

	paddingStyle := lipgloss.NewStyle().
		PaddingLeft(1).
		Width(pane.width).
		MaxWidth(pane.width)

	headerView := paddingStyle.Render(pane.header)
	bodyView := paddingStyle.Height(pane.bodyHeight()).Render(pane.viewport.View())
	return headerView + "\n" + bodyView
}

// detailMarkdown builds the markdown source for a target's detail
// body. Rendering (wrapping, styling) is mdtext's job; this only
// decides content and structure.
func detailMarkdown(graph *buildgraph.Graph, target *buildgraph.Target) string {
	var doc strings.Builder

	fmt.Fprintf(&doc, "- fragment: `%s`\n", target.Fragment)
	fmt.Fprintf(&doc, "- declared at: `%s`\n", target.Pos)
	if target.Header != "" {
		fmt.Fprintf(&doc, "- header: `%s`\n", target.Header)
	}
	if target.WrapStaticFns {
		doc.WriteString("- wrap_static_fns: `true`\n")
	}
	if target.CrateRoot != "" {
		fmt.Fprintf(&doc, "- crate_root: `%s`\n", target.CrateRoot)
	}
	if target.AllowUnsafe {
		doc.WriteString("- allow_unsafe: `true`\n")
	}
	if target.BuildNativeRustUnitTests {
		doc.WriteString("- build_native_rust_unit_tests: `true`\n")
	}
	for _, define := range target.Defines {
		fmt.Fprintf(&doc, "- define: `%s`\n", define)
	}

	if len(target.Sources) > 0 {
		fmt.Fprintf(&doc, "\n## Sources (%d)\n\n", len(target.Sources))
		for _, source := range target.Sources {
			fmt.Fprintf(&doc, "- `%s`\n", source)
		}
	}

	if len(target.Deps) > 0 {
		fmt.Fprintf(&doc, "\n## Dependencies (%d)\n\n", len(target.Deps))
		for _, dep := range target.Deps {
			fmt.Fprintf(&doc, "- `%s`\n", dep)
		}
	}

	dependents := graph.ReverseDeps(target.Label)
	if len(dependents) > 0 {
		fmt.Fprintf(&doc, "\n## Dependents (%d)\n\n", len(dependents))
		for _, dependent := range dependents {
			fmt.Fprintf(&doc, "- `%s`\n", dependent.Label)
		}
	}

	return doc.String()
}
