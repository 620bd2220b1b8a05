// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gantry-build/gantry/lib/bundle"
	"github.com/gantry-build/gantry/lib/codec"
	"github.com/gantry-build/gantry/lib/digest"
)

// compiledDocument is the machine form of a manifest: canonical CBOR
// inside a bundle envelope. Children are sorted, defaults are
// materialized rather than omitted, and the include list is gone
// because compilation requires a merged document.
type compiledDocument struct {
	Program  map[string]any  `cbor:"program,omitempty"`
	Children []Child         `cbor:"children,omitempty"`
	Use      []compiledEntry `cbor:"use,omitempty"`
	Offer    []compiledEntry `cbor:"offer,omitempty"`
	Facets   map[string]any  `cbor:"facets,omitempty"`
}

// compiledEntry covers both use and offer entries; the unused fields
// of each stay empty and drop out of the encoding.
type compiledEntry struct {
	Kind         Kind         `cbor:"kind"`
	Names        []string     `cbor:"names"`
	Path         string       `cbor:"path,omitempty"`
	Rights       []string     `cbor:"rights,omitempty"`
	From         string       `cbor:"from,omitempty"`
	To           []string     `cbor:"to,omitempty"`
	Availability Availability `cbor:"availability,omitempty"`
}

// Compile validates the document and encodes it as a content-addressed
// bundle. The returned digest identifies the compiled form: two
// manifests that differ only in authoring artifacts (comments, key
// order, spelled-out defaults) compile to the same digest.
func (d *Document) Compile() ([]byte, digest.Digest, error) {
	if len(d.Include) > 0 {
		return nil, digest.Digest{}, errors.New("manifest has unresolved includes (merge before compiling)")
	}
	if issues := d.Validate(); len(issues) > 0 {
		return nil, digest.Digest{}, fmt.Errorf("manifest failed validation: %s", strings.Join(issues, "; "))
	}

	compiled := compiledDocument{
		Program: d.Program,
		Facets:  d.Facets,
	}
	if len(d.Children) > 0 {
		compiled.Children = slices.Clone(d.Children)
		slices.SortFunc(compiled.Children, func(a, b Child) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	for _, entry := range d.Use {
		compiled.Use = append(compiled.Use, compiledEntry{
			Kind:         entry.Kind,
			Names:        entry.Names,
			Path:         entry.Path,
			Rights:       entry.Rights,
			From:         entry.From,
			Availability: entry.Availability,
		})
	}
	for _, entry := range d.Offer {
		compiled.Offer = append(compiled.Offer, compiledEntry{
			Kind:         entry.Kind,
			Names:        entry.Names,
			From:         entry.From,
			To:           entry.To,
			Availability: entry.Availability,
		})
	}

	encoded, err := codec.Marshal(compiled)
	if err != nil {
		return nil, digest.Digest{}, fmt.Errorf("encoding manifest: %w", err)
	}
	return bundle.Encode(encoded)
}

// DecodeBundle unpacks a compiled manifest bundle back into a
// document. The digest is the bundle's verified content digest, the
// same value Compile returned.
func DecodeBundle(data []byte) (*Document, digest.Digest, error) {
	payload, dig, err := bundle.Decode(data)
	if err != nil {
		return nil, digest.Digest{}, err
	}
	var compiled compiledDocument
	if err := codec.Unmarshal(payload, &compiled); err != nil {
		return nil, digest.Digest{}, fmt.Errorf("decoding manifest bundle: %w", err)
	}
	return compiled.document(), dig, nil
}

func (c *compiledDocument) document() *Document {
	doc := &Document{
		Program:  c.Program,
		Children: c.Children,
		Facets:   c.Facets,
	}
	for _, entry := range c.Use {
		doc.Use = append(doc.Use, UseEntry{
			Kind:         entry.Kind,
			Names:        entry.Names,
			Path:         entry.Path,
			Rights:       entry.Rights,
			From:         entry.From,
			Availability: entry.Availability,
		})
	}
	for _, entry := range c.Offer {
		doc.Offer = append(doc.Offer, OfferEntry{
			Kind:         entry.Kind,
			Names:        entry.Names,
			From:         entry.From,
			To:           entry.To,
			Availability: entry.Availability,
		})
	}
	return doc
}

// AllowedPackages reads the gantry.test facet's allowed-packages
// list. Manifests without the facet get nil.
func (d *Document) AllowedPackages() []string {
	facet, ok := d.Facets["gantry.test"].(map[string]any)
	if !ok {
		return nil
	}
	values, ok := facet["allowed-packages"].([]any)
	if !ok {
		return nil
	}
	var packages []string
	for _, value := range values {
		if name, ok := value.(string); ok {
			packages = append(packages, name)
		}
	}
	return packages
}
