// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
)

// Loader resolves an include path to manifest bytes. Include paths
// are repository-relative ("//" prefixed) or relative to the loader
// root; the loader decides what that means.
type Loader interface {
	Load(path string) ([]byte, error)
}

// FileLoader loads includes from a directory tree. A leading "//" is
// stripped, so repository-absolute includes resolve against Root.
type FileLoader struct {
	Root string
}

func (l FileLoader) Load(path string) ([]byte, error) {
	trimmed := strings.TrimPrefix(path, "//")
	return os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(trimmed)))
}

// Merge loads the manifest at path and flattens its include chain
// into a single document. Includes merge depth-first in declaration
// order, included content first, so the including manifest's own
// entries land after everything it pulls in. Exact-duplicate children,
// use entries, and offer entries collapse to one; program and facets
// deep-merge, with conflicting scalar values reported as an error
// naming both source files. The result carries no include list.
func Merge(path string, loader Loader) (*Document, error) {
	m := merger{
		loader:  loader,
		loading: make(map[string]bool),
		origins: make(map[string]string),
	}
	result := &Document{}
	if err := m.mergeFile(result, path); err != nil {
		return nil, err
	}
	return result, nil
}

type merger struct {
	loader  Loader
	loading map[string]bool
	stack   []string

	// origins maps a dotted scope key path ("program.args") to the
	// file that first set it, for conflict messages.
	origins map[string]string
}

func (m *merger) mergeFile(result *Document, path string) error {
	if m.loading[path] {
		return fmt.Errorf("include cycle: %s", strings.Join(append(m.stack, path), " -> "))
	}
	m.loading[path] = true
	m.stack = append(m.stack, path)
	defer func() {
		delete(m.loading, path)
		m.stack = m.stack[:len(m.stack)-1]
	}()

	data, err := m.loader.Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %v", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, include := range doc.Include {
		if err := m.mergeFile(result, include); err != nil {
			return err
		}
	}
	return m.mergeInto(result, doc, path)
}

func (m *merger) mergeInto(result *Document, doc *Document, path string) error {
	for _, child := range doc.Children {
		if !slices.Contains(result.Children, child) {
			result.Children = append(result.Children, child)
		}
	}
	for _, entry := range doc.Use {
		if !slices.ContainsFunc(result.Use, entry.equal) {
			result.Use = append(result.Use, entry)
		}
	}
	for _, entry := range doc.Offer {
		if !slices.ContainsFunc(result.Offer, entry.equal) {
			result.Offer = append(result.Offer, entry)
		}
	}

	var err error
	result.Program, err = m.mergeScope(result.Program, doc.Program, "program", path)
	if err != nil {
		return err
	}
	result.Facets, err = m.mergeScope(result.Facets, doc.Facets, "facets", path)
	return err
}

func (m *merger) mergeScope(into, from map[string]any, keyPath, path string) (map[string]any, error) {
	if len(from) == 0 {
		return into, nil
	}
	if into == nil {
		into = make(map[string]any)
	}
	for _, key := range sortedKeys(from) {
		merged, err := m.mergeValues(into[key], from[key], keyPath+"."+key, path)
		if err != nil {
			return nil, err
		}
		into[key] = merged
	}
	return into, nil
}

func (m *merger) mergeValues(into, from any, keyPath, path string) (any, error) {
	if into == nil {
		m.origins[keyPath] = path
		return cloneValue(from), nil
	}
	switch existing := into.(type) {
	case map[string]any:
		incoming, ok := from.(map[string]any)
		if !ok {
			return nil, m.conflict(keyPath, path)
		}
		return m.mergeScope(existing, incoming, keyPath, path)
	case []any:
		incoming, ok := from.([]any)
		if !ok {
			return nil, m.conflict(keyPath, path)
		}
		for _, value := range incoming {
			duplicate := slices.ContainsFunc(existing, func(have any) bool {
				return reflect.DeepEqual(have, value)
			})
			if !duplicate {
				existing = append(existing, cloneValue(value))
			}
		}
		return existing, nil
	default:
		if reflect.DeepEqual(into, from) {
			return into, nil
		}
		return nil, m.conflict(keyPath, path)
	}
}

func (m *merger) conflict(keyPath, path string) error {
	return fmt.Errorf("%s: conflicting values in %s and %s", keyPath, m.originOf(keyPath), path)
}

// originOf walks dotted prefixes outward until it finds the file that
// first contributed the key. Nested keys inherit their scope's origin
// when they were never individually recorded.
func (m *merger) originOf(keyPath string) string {
	for {
		if origin, ok := m.origins[keyPath]; ok {
			return origin
		}
		dot := strings.LastIndex(keyPath, ".")
		if dot < 0 {
			return "an earlier include"
		}
		keyPath = keyPath[:dot]
	}
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for key, nested := range typed {
			clone[key] = cloneValue(nested)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, nested := range typed {
			clone[i] = cloneValue(nested)
		}
		return clone
	default:
		return value
	}
}

func (e UseEntry) equal(other UseEntry) bool {
	return e.Kind == other.Kind &&
		slices.Equal(e.Names, other.Names) &&
		e.Path == other.Path &&
		slices.Equal(e.Rights, other.Rights) &&
		e.From == other.From &&
		e.Availability == other.Availability
}

func (e OfferEntry) equal(other OfferEntry) bool {
	return e.Kind == other.Kind &&
		slices.Equal(e.Names, other.Names) &&
		e.From == other.From &&
		slices.Equal(e.To, other.To) &&
		e.Availability == other.Availability
}
