// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package mdtext renders markdown as styled ANSI text for terminal
// display. It backs "gantry args docs" and the detail panes of the
// graph browser, where build-argument documentation written as
// markdown needs to read well at whatever width the terminal has.
//
// [Render] parses with goldmark (GFM extensions), walks the AST
// directly, and word-wraps paragraph content to the target width.
// Soft line breaks become spaces, so doc comments hard-wrapped in
// source files reflow cleanly. Fenced code blocks are highlighted
// with chroma and never reflowed. Output uses a forced ANSI256
// profile so rendering is identical with or without a TTY.
package mdtext
