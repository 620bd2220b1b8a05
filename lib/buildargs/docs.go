// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildargs

import (
	"fmt"
	"strings"
)

// Doc is the documentation record for one declared argument, shaped
// for JSON output and markdown rendering.
type Doc struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Default    string `json:"default"`
	Current    string `json:"current"`
	Overridden bool   `json:"overridden"`
	Comment    string `json:"comment,omitempty"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

// Docs returns one Doc per declaration, in declaration order.
func (s *Set) Docs() []Doc {
	docs := make([]Doc, 0, len(s.Declarations))
	for _, declaration := range s.Declarations {
		docs = append(docs, Doc{
			Name:       declaration.Name,
			Type:       declaration.Default.Kind.String(),
			Default:    declaration.Default.Format(),
			Current:    declaration.Value.Format(),
			Overridden: declaration.Overridden,
			Comment:    declaration.DocComment,
			File:       declaration.Pos.File,
			Line:       declaration.Pos.Line,
		})
	}
	return docs
}

// RenderMarkdown renders argument docs as a markdown document, one
// section per argument. The CLI feeds this through the terminal
// markdown renderer; CI links it raw.
func RenderMarkdown(docs []Doc) string {
	var builder strings.Builder
	builder.WriteString("# Build arguments\n")

	for _, doc := range docs {
		fmt.Fprintf(&builder, "\n## `%s`\n\n", doc.Name)
		fmt.Fprintf(&builder, "**Type**: %s  \n", doc.Type)
		fmt.Fprintf(&builder, "**Default**: `%s`\n", doc.Default)
		if doc.Overridden {
			fmt.Fprintf(&builder, "\nCurrently overridden to `%s`.\n", doc.Current)
		}
		if doc.Comment != "" {
			builder.WriteString("\n")
			builder.WriteString(doc.Comment)
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "\nDeclared at %s:%d.\n", doc.File, doc.Line)
	}
	return builder.String()
}
