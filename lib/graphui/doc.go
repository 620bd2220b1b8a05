// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package graphui is the interactive terminal browser behind "gantry
// graph browse". It presents a loaded target graph as a filterable
// list with a scrollable detail pane: the list shows every target
// label with its kind, the detail pane shows the selected target's
// declaration site, fields, dependencies, and dependents.
//
// Filtering uses fzf's fuzzy matching algorithm over target labels
// (falling back to kind and fragment path), so "rbg" finds
// //rust/bindings:generator. Matched label characters are highlighted
// in the list.
//
// The package exposes a bubbletea Model; the command layer wraps it
// in a tea.Program with alt-screen and mouse support.
package graphui
