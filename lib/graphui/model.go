// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graphui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gantry-build/gantry/lib/buildgraph"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusList means navigation keys move the target list cursor.
	FocusList FocusRegion = iota
	// FocusDetail means navigation keys scroll the detail viewport.
	FocusDetail
	// FocusFilter means keystrokes go to the filter input.
	FocusFilter
)

// listRatio is the fraction of the terminal width given to the list
// pane. The split is fixed; labels are compact and the detail pane
// benefits from the extra room.
const listRatio = 0.45

// Model is the top-level bubbletea model for the graph browser.
type Model struct {
	graph *buildgraph.Graph
	theme Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// targets is the label-sorted base set the filter runs over.
	targets []*buildgraph.Target

	// Filter state and the current filtered rows.
	filter  FilterModel
	results []FilterResult

	cursor       int
	scrollOffset int

	// Stable focus: track selection by label so refiltering keeps the
	// same target selected when it survives.
	selectedLabel buildgraph.Label
	hasSelection  bool

	focusRegion FocusRegion
	priorFocus  FocusRegion // Saved focus when entering filter mode.
	detailPane  DetailPane
}

// NewModel creates a Model browsing the given graph. The list starts
// sorted by label with the first target selected.
func NewModel(graph *buildgraph.Graph) Model {
	targets := slices.Clone(graph.Targets)
	slices.SortFunc(targets, func(a, b *buildgraph.Target) int {
		return a.Label.Compare(b.Label)
	})

	model := Model{
		graph:      graph,
		theme:      DefaultTheme,
		keys:       DefaultKeyMap,
		targets:    targets,
		detailPane: NewDetailPane(DefaultTheme),
	}
	model.results = model.filter.Apply(model.targets)
	if len(model.results) > 0 {
		model.selectedLabel = model.results[0].Target.Label
		model.hasSelection = true
	}
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Routes keyboard events based on the
// current focus region and handles layout changes.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		// When filter is active, route all input to the filter first,
		// except for Esc (clear) and Enter (confirm and return to list).
		if model.focusRegion == FocusFilter {
			return model.handleFilterKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.FocusToggle):
			if model.focusRegion == FocusList {
				model.focusRegion = FocusDetail
			} else {
				model.focusRegion = FocusList
			}

		case key.Matches(message, model.keys.FilterActivate):
			model.priorFocus = model.focusRegion
			model.focusRegion = FocusFilter
			model.filter.Active = true
			// Reset list position to the top so the user sees
			// results from the beginning as they type.
			model.cursor = 0
			model.scrollOffset = 0

		case key.Matches(message, model.keys.FilterClear):
			if model.filter.Input != "" {
				model.filter.Clear()
				model.applyFilter()
			}

		case key.Matches(message, model.keys.EnterDep):
			model.jumpToFirstDep()

		default:
			if model.focusRegion == FocusList {
				model.handleListKeys(message)
			} else {
				model.handleDetailKeys(message)
			}
		}

	case tea.MouseMsg:
		model.handleMouse(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()
		model.syncDetailPane()
	}
	return model, nil
}

// handleFilterKeys processes keystrokes when the filter input has focus.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		// ctrl+c always quits, even in filter mode.
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		// 'q' is a regular character in filter mode.
		model.filter.HandleRune('q')
		model.applyFilter()
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		// Esc: if there's filter text, clear it but stay in filter
		// mode; if already empty, exit filter mode.
		if model.filter.Input != "" {
			model.filter.Input = ""
			model.applyFilter()
		} else {
			model.filter.Active = false
			model.focusRegion = model.priorFocus
		}
		return model, nil

	case message.Type == tea.KeyEnter:
		// Confirm filter and return focus to the list.
		model.filter.Active = false
		model.focusRegion = FocusList
		return model, nil

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}
		return model, nil

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.applyFilter()
		return model, nil
	}

	return model, nil
}

// handleListKeys processes navigation keys when the list has focus.
func (model *Model) handleListKeys(message tea.KeyMsg) {
	previousCursor := model.cursor

	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.results)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.PageUp):
		target := model.cursor - model.visibleHeight()
		if target < 0 {
			target = 0
		}
		model.cursor = target

	case key.Matches(message, model.keys.PageDown):
		target := model.cursor + model.visibleHeight()
		if len(model.results) > 0 && target >= len(model.results) {
			target = len(model.results) - 1
		}
		if target < 0 {
			target = 0
		}
		model.cursor = target

	case key.Matches(message, model.keys.Home):
		model.cursor = 0

	case key.Matches(message, model.keys.End):
		if len(model.results) > 0 {
			model.cursor = len(model.results) - 1
		}
	}

	model.ensureCursorVisible()
	if model.cursor != previousCursor {
		model.syncDetailPane()
	}
}

// handleDetailKeys processes navigation keys when the detail pane has
// focus.
func (model *Model) handleDetailKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.detailPane.viewport.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.detailPane.viewport.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.detailPane.viewport.HalfViewUp()
	case key.Matches(message, model.keys.PageDown):
		model.detailPane.viewport.HalfViewDown()
	case key.Matches(message, model.keys.Home):
		model.detailPane.viewport.GotoTop()
	case key.Matches(message, model.keys.End):
		model.detailPane.viewport.GotoBottom()
	}
}

// handleMouse routes mouse events by position: the wheel scrolls
// whichever pane the cursor is over, clicks in the list select the
// clicked row, clicks in the detail pane focus it.
func (model *Model) handleMouse(message tea.MouseMsg) {
	listWidth := model.listWidth()
	contentStart := model.contentStartY()
	inContentArea := message.Y >= contentStart && message.Y < model.height-2
	inListPane := message.X >= 0 && message.X <= listWidth
	inDetailPane := message.X > listWidth

	switch message.Button {
	case tea.MouseButtonWheelUp:
		if !inContentArea {
			return
		}
		if inListPane {
			if model.cursor > 0 {
				model.cursor--
				model.ensureCursorVisible()
				model.syncDetailPane()
			}
		} else {
			model.detailPane.viewport.LineUp(3)
		}

	case tea.MouseButtonWheelDown:
		if !inContentArea {
			return
		}
		if inListPane {
			if model.cursor < len(model.results)-1 {
				model.cursor++
				model.ensureCursorVisible()
				model.syncDetailPane()
			}
		} else {
			model.detailPane.viewport.LineDown(3)
		}

	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress || !inContentArea {
			return
		}
		if inListPane {
			model.focusRegion = FocusList
			index := model.scrollOffset + message.Y - contentStart
			if index >= 0 && index < len(model.results) {
				model.cursor = index
				model.syncDetailPane()
			}
		} else if inDetailPane {
			model.focusRegion = FocusDetail
		}
	}
}

// applyFilter re-runs the filter over the base target set. While a
// query is active the cursor snaps to the top so the best matches are
// visible as the user types; clearing the query restores the previous
// selection when it survives.
func (model *Model) applyFilter() {
	model.results = model.filter.Apply(model.targets)

	if model.filter.Input != "" {
		model.cursor = 0
		model.scrollOffset = 0
		if len(model.results) > 0 {
			model.selectedLabel = model.results[0].Target.Label
			model.hasSelection = true
		}
	} else {
		model.restoreSelection()
	}
	model.ensureCursorVisible()
	model.syncDetailPane()
}

// restoreSelection moves the cursor back to the previously selected
// label if it is present in the current results, clamping otherwise.
func (model *Model) restoreSelection() {
	if model.hasSelection {
		for index, result := range model.results {
			if result.Target.Label == model.selectedLabel {
				model.cursor = index
				return
			}
		}
	}
	if model.cursor >= len(model.results) {
		model.cursor = len(model.results) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

// jumpToFirstDep moves the selection to the current target's first
// dependency. Clears an active filter when the dependency is filtered
// out so the jump always lands.
func (model *Model) jumpToFirstDep() {
	if model.cursor < 0 || model.cursor >= len(model.results) {
		return
	}
	current := model.results[model.cursor].Target
	if len(current.Deps) == 0 {
		return
	}
	dep := current.Deps[0]

	for index, result := range model.results {
		if result.Target.Label == dep {
			model.cursor = index
			model.selectedLabel = dep
			model.hasSelection = true
			model.ensureCursorVisible()
			model.syncDetailPane()
			return
		}
	}

	// The dependency is filtered out. Drop the filter and retry
	// against the full set.
	model.filter.Clear()
	model.selectedLabel = dep
	model.hasSelection = true
	model.applyFilter()
}

// syncDetailPane updates the detail pane content to reflect the
// currently selected target.
func (model *Model) syncDetailPane() {
	if model.cursor < 0 || model.cursor >= len(model.results) {
		model.detailPane.Clear()
		return
	}
	target := model.results[model.cursor].Target
	model.selectedLabel = target.Label
	model.hasSelection = true
	model.detailPane.SetContent(model.graph, target)
}

// contentStartY returns the Y coordinate where the content area
// begins. The top chrome line is always exactly 1 row: either the
// header (normal) or the filter bar (when filter is active).
func (model Model) contentStartY() int {
	return 1
}

// visibleHeight returns the number of list rows that fit between the
// chrome elements: top chrome, bottom separator, and help bar.
func (model Model) visibleHeight() int {
	return model.height - model.contentStartY() - 2
}

// listWidth returns the width of the list pane in columns.
func (model Model) listWidth() int {
	return int(float64(model.width) * listRatio)
}

// updatePaneSizes recomputes the detail pane dimensions from the
// current terminal size and split.
func (model *Model) updatePaneSizes() {
	detailWidth := model.width - model.listWidth() - 1
	if detailWidth < 0 {
		detailWidth = 0
	}
	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}
	model.detailPane.SetSize(detailWidth, visible)
}

// ensureCursorVisible adjusts scrollOffset so the cursor is within
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}

	maxOffset := len(model.results) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if model.scrollOffset > maxOffset {
		model.scrollOffset = maxOffset
	}

	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// View implements tea.Model. Renders the full frame with two panes.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var sections []string

	// Top chrome line: either the header or the filter bar. The
	// filter bar replaces the header so the layout doesn't shift.
	filterView := model.filter.View(model.theme, model.width)
	if filterView != "" {
		sections = append(sections, filterView)
	} else {
		sections = append(sections, model.renderHeader())
	}

	listView := model.renderListPane()
	divider := model.renderDivider()
	detailView := model.detailPane.View(model.focusRegion == FocusDetail)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, listView, divider, detailView))

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	sections = append(sections, separator)

	sections = append(sections, model.renderHelp())

	return strings.Join(sections, "\n")
}

// renderHeader renders the top title line with target counts.
func (model Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)
	countStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)

	count := fmt.Sprintf("%d targets", len(model.targets))
	if len(model.results) != len(model.targets) {
		count = fmt.Sprintf("%d of %d targets", len(model.results), len(model.targets))
	}

	line := " " + titleStyle.Render("target graph") + "  " + countStyle.Render(count)
	return lipgloss.NewStyle().Width(model.width).MaxWidth(model.width).Render(line)
}

// renderListPane renders the visible window of target rows.
func (model Model) renderListPane() string {
	rowWidth := model.listWidth()
	renderer := NewListRenderer(model.theme, rowWidth)

	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	var rows []string
	for index := model.scrollOffset; index < model.scrollOffset+visible && index < len(model.results); index++ {
		result := model.results[index]
		rows = append(rows, renderer.RenderRow(result.Target, index == model.cursor, result.LabelPositions))
	}

	// Pad empty rows so the divider and detail pane keep full height.
	emptyStyle := lipgloss.NewStyle().Width(rowWidth)
	for len(rows) < visible {
		rows = append(rows, emptyStyle.Render(""))
	}

	return lipgloss.NewStyle().
		Width(rowWidth).
		Height(visible).
		Render(strings.Join(rows, "\n"))
}

// renderDivider renders the single-column vertical divider between
// the list and detail panes.
func (model Model) renderDivider() string {
	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}

	return lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Width(1).
		Height(visible).
		Render(strings.Join(lines, "\n"))
}

// renderHelp renders the bottom help bar with key hints and position.
func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	focusIndicator := "LIST"
	switch model.focusRegion {
	case FocusDetail:
		focusIndicator = "DETAIL"
	case FocusFilter:
		focusIndicator = "FILTER"
	}

	help := fmt.Sprintf(" [%s] q quit  ↑↓ navigate  Tab focus  / filter  Enter jump to dep",
		focusIndicator)

	if len(model.results) > 0 {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(model.results))
	}

	return style.Render(help)
}
