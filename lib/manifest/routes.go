// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import "strings"

// Route describes one capability the component consumes and where it
// comes from.
type Route struct {
	Capability string `json:"capability"`
	Kind       Kind   `json:"kind"`
	Path       string `json:"path,omitempty"`
	Provider   string `json:"provider"`
}

// Routes flattens the use section into one row per capability name,
// in authored order. The provider is the resolved from reference; a
// child reference that names no declared child reports as unresolved,
// softened when the entry is optional.
func (d *Document) Routes() []Route {
	declared := make(map[string]bool, len(d.Children))
	for _, child := range d.Children {
		declared[child.Name] = true
	}

	var routes []Route
	for _, entry := range d.Use {
		provider := entry.From
		if name, ok := strings.CutPrefix(entry.From, "#"); ok && !declared[name] {
			if entry.Availability == AvailabilityOptional {
				provider = "unresolved (optional)"
			} else {
				provider = entry.From + " (undeclared)"
			}
		}
		for _, name := range entry.Names {
			routes = append(routes, Route{
				Capability: name,
				Kind:       entry.Kind,
				Path:       entry.Path,
				Provider:   provider,
			})
		}
	}
	return routes
}
