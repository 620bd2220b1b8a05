// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// canonicalDocument fixes the top-level key order of serialized
// output. encoding/json emits struct fields in declaration order, so
// the schema order lives here.
type canonicalDocument struct {
	Include  []string          `json:"include,omitempty"`
	Program  map[string]any    `json:"program,omitempty"`
	Children []Child           `json:"children,omitempty"`
	Use      []json.RawMessage `json:"use,omitempty"`
	Offer    []json.RawMessage `json:"offer,omitempty"`
	Facets   map[string]any    `json:"facets,omitempty"`
}

// Serialize renders the canonical form: fixed key order, two-space
// indent, children sorted by name, use and offer entries in authored
// order with defaults omitted, opaque scope keys sorted, trailing
// newline. Serializing the parse of canonical output reproduces it
// byte for byte.
func (d *Document) Serialize() ([]byte, error) {
	canonical := canonicalDocument{
		Include: d.Include,
		Program: d.Program,
		Facets:  d.Facets,
	}

	if len(d.Children) > 0 {
		canonical.Children = slices.Clone(d.Children)
		slices.SortFunc(canonical.Children, func(a, b Child) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	for _, entry := range d.Use {
		canonical.Use = append(canonical.Use, entry.render())
	}
	for _, entry := range d.Offer {
		canonical.Offer = append(canonical.Offer, entry.render())
	}

	encoded, err := json.MarshalIndent(canonical, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing manifest: %w", err)
	}
	return append(encoded, '\n'), nil
}

func (e UseEntry) render() json.RawMessage {
	var object orderedObject
	object.add(string(e.Kind), nameValue(e.Names))
	if e.Path != "" {
		object.add("path", e.Path)
	}
	if len(e.Rights) > 0 {
		object.add("rights", e.Rights)
	}
	if e.From != "" && e.From != "parent" {
		object.add("from", e.From)
	}
	if e.Availability != "" && e.Availability != AvailabilityRequired {
		object.add("availability", string(e.Availability))
	}
	return object.render()
}

func (e OfferEntry) render() json.RawMessage {
	var object orderedObject
	object.add(string(e.Kind), nameValue(e.Names))
	object.add("from", e.From)
	object.add("to", nameValue(e.To))
	if e.Availability != "" && e.Availability != AvailabilityRequired {
		object.add("availability", string(e.Availability))
	}
	return object.render()
}

// nameValue picks the canonical rendering for a name set: a bare
// string for one name, a list for several. An empty set renders as an
// empty list, never null, so the output of formatting a semantically
// invalid document still parses and vet can report the real problem.
func nameValue(names []string) any {
	switch len(names) {
	case 0:
		return []string{}
	case 1:
		return names[0]
	default:
		return names
	}
}

// orderedObject builds a JSON object with explicit key order.
// encoding/json sorts map keys, which is right for the opaque scopes
// but wrong for capability entries, where the discriminator leads.
type orderedObject struct {
	buffer bytes.Buffer
}

func (o *orderedObject) add(key string, value any) {
	if o.buffer.Len() > 0 {
		o.buffer.WriteByte(',')
	}
	// Keys and values here are strings and string slices; Marshal
	// cannot fail on them.
	keyBytes, _ := json.Marshal(key)
	o.buffer.Write(keyBytes)
	o.buffer.WriteByte(':')
	valueBytes, _ := json.Marshal(value)
	o.buffer.Write(valueBytes)
}

func (o *orderedObject) render() json.RawMessage {
	return json.RawMessage("{" + o.buffer.String() + "}")
}
