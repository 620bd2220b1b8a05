// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
)

// Kind discriminates capability entries.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindStorage   Kind = "storage"
	KindProtocol  Kind = "protocol"
)

// Availability states how hard a capability requirement is. Required
// is the default; optional capabilities may be left unrouted;
// transitional marks a requirement being introduced or retired, which
// providers may ignore.
type Availability string

const (
	AvailabilityRequired     Availability = "required"
	AvailabilityOptional     Availability = "optional"
	AvailabilityTransitional Availability = "transitional"
)

// Child declares a component provider: a name other entries reference
// as "#name", and the component URL the runtime launches.
type Child struct {
	Name string `json:"name" cbor:"name"`
	URL  string `json:"url" cbor:"url"`
}

// UseEntry is one capability request. Directory and storage entries
// carry exactly one name; protocol entries may carry several. Parse
// materializes the defaults, so From is never empty ("parent" unless
// written) and Availability is never empty ("required" unless
// written).
type UseEntry struct {
	Kind  Kind
	Names []string

	Path         string
	Rights       []string
	From         string
	Availability Availability
}

// OfferEntry routes a capability from one scope to one or more
// children.
type OfferEntry struct {
	Kind  Kind
	Names []string

	From         string
	To           []string
	Availability Availability
}

// Document is a parsed manifest. Use and Offer preserve authored
// order; Include is present until Merge consumes it. Program and
// Facets are opaque scopes: preserved and merged, never interpreted,
// except for the typed facet accessors.
type Document struct {
	Include  []string
	Program  map[string]any
	Children []Child
	Use      []UseEntry
	Offer    []OfferEntry
	Facets   map[string]any
}

var documentKeys = map[string]bool{
	"include":  true,
	"program":  true,
	"children": true,
	"use":      true,
	"offer":    true,
	"facets":   true,
}

// useFields is the accepted field set per use-entry kind, beyond the
// discriminator itself.
var useFields = map[Kind]map[string]bool{
	KindDirectory: {"path": true, "rights": true, "from": true, "availability": true},
	KindStorage:   {"path": true, "availability": true},
	KindProtocol:  {"from": true, "availability": true},
}

var offerFields = map[string]bool{
	"from":         true,
	"to":           true,
	"availability": true,
}

// Parse decodes a JSONC manifest into a Document. Comments and
// trailing commas are stripped first, so authored files and canonical
// output go through the same path. Unknown keys, wrong value types,
// and malformed entries are errors; semantic problems (unresolved
// references, bad rights) are Validate's job.
func Parse(data []byte) (*Document, error) {
	plain := jsonc.ToJSON(data)

	var top map[string]json.RawMessage
	if err := json.Unmarshal(plain, &top); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	var unknown []string
	for key := range top {
		if !documentKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 1 {
		return nil, fmt.Errorf("unknown manifest key %q", unknown[0])
	}
	if len(unknown) > 1 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("unknown manifest keys %s", quoteJoin(unknown))
	}

	document := &Document{}
	var err error

	if raw, ok := top["include"]; ok {
		if err := json.Unmarshal(raw, &document.Include); err != nil {
			return nil, fmt.Errorf(`manifest key "include" must be a list of paths`)
		}
		if len(document.Include) == 0 {
			document.Include = nil
		}
	}
	if raw, ok := top["program"]; ok {
		document.Program, err = parseScope("program", raw)
		if err != nil {
			return nil, err
		}
	}
	if raw, ok := top["children"]; ok {
		document.Children, err = parseChildren(raw)
		if err != nil {
			return nil, err
		}
	}
	if raw, ok := top["use"]; ok {
		document.Use, err = parseEntryList(raw, "use", parseUseEntry)
		if err != nil {
			return nil, err
		}
	}
	if raw, ok := top["offer"]; ok {
		document.Offer, err = parseEntryList(raw, "offer", parseOfferEntry)
		if err != nil {
			return nil, err
		}
	}
	if raw, ok := top["facets"]; ok {
		document.Facets, err = parseScope("facets", raw)
		if err != nil {
			return nil, err
		}
	}
	return document, nil
}

// parseEntryList decodes a JSON array elementwise so entry errors can
// name the index.
func parseEntryList[T any](raw json.RawMessage, key string, parse func(int, json.RawMessage) (T, error)) ([]T, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("manifest key %q must be a list", key)
	}
	// An empty list and an absent key canonicalize identically.
	var entries []T
	for index, element := range elements {
		entry, err := parse(index, element)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseChildren(raw json.RawMessage) ([]Child, error) {
	return parseEntryList(raw, "children", func(index int, element json.RawMessage) (Child, error) {
		fields, err := objectFields(element)
		if err != nil {
			return Child{}, fmt.Errorf("children[%d]: entry must be an object", index)
		}
		child := Child{}
		for _, key := range sortedKeys(fields) {
			switch key {
			case "name":
				if child.Name, err = stringValue(fields[key]); err != nil {
					return Child{}, fmt.Errorf(`children[%d]: field "name" must be a string`, index)
				}
			case "url":
				if child.URL, err = stringValue(fields[key]); err != nil {
					return Child{}, fmt.Errorf(`children[%d]: field "url" must be a string`, index)
				}
			default:
				return Child{}, fmt.Errorf("children[%d]: unknown field %q (accepted fields: name, url)", index, key)
			}
		}
		return child, nil
	})
}

func parseUseEntry(index int, raw json.RawMessage) (UseEntry, error) {
	fields, err := objectFields(raw)
	if err != nil {
		return UseEntry{}, fmt.Errorf("use[%d]: entry must be an object", index)
	}

	kind, err := entryKind(fields)
	if err != nil {
		return UseEntry{}, fmt.Errorf("use[%d]: %w", index, err)
	}

	entry := UseEntry{
		Kind:         kind,
		From:         "parent",
		Availability: AvailabilityRequired,
	}
	entry.Names, err = capabilityNames(kind, fields[string(kind)])
	if err != nil {
		return UseEntry{}, fmt.Errorf("use[%d]: %w", index, err)
	}

	allowed := useFields[kind]
	for _, key := range sortedKeys(fields) {
		if key == string(kind) {
			continue
		}
		if !allowed[key] {
			return UseEntry{}, fmt.Errorf("use[%d] (%s): unknown field %q (accepted fields: %s)",
				index, kind, key, joinSorted(allowed))
		}
		var parseErr error
		switch key {
		case "path":
			entry.Path, parseErr = stringValue(fields[key])
		case "rights":
			entry.Rights, parseErr = stringListValue(fields[key])
		case "from":
			entry.From, parseErr = stringValue(fields[key])
		case "availability":
			var availability string
			availability, parseErr = stringValue(fields[key])
			entry.Availability = Availability(availability)
		}
		if parseErr != nil {
			return UseEntry{}, fmt.Errorf("use[%d] (%s): field %q: %v", index, kind, key, parseErr)
		}
	}
	return entry, nil
}

func parseOfferEntry(index int, raw json.RawMessage) (OfferEntry, error) {
	fields, err := objectFields(raw)
	if err != nil {
		return OfferEntry{}, fmt.Errorf("offer[%d]: entry must be an object", index)
	}

	kind, err := entryKind(fields)
	if err != nil {
		return OfferEntry{}, fmt.Errorf("offer[%d]: %w", index, err)
	}

	entry := OfferEntry{Kind: kind, Availability: AvailabilityRequired}
	entry.Names, err = capabilityNames(kind, fields[string(kind)])
	if err != nil {
		return OfferEntry{}, fmt.Errorf("offer[%d]: %w", index, err)
	}

	for _, key := range sortedKeys(fields) {
		if key == string(kind) {
			continue
		}
		if !offerFields[key] {
			return OfferEntry{}, fmt.Errorf("offer[%d] (%s): unknown field %q (accepted fields: %s)",
				index, kind, key, joinSorted(offerFields))
		}
		var parseErr error
		switch key {
		case "from":
			entry.From, parseErr = stringValue(fields[key])
		case "to":
			entry.To, _, parseErr = stringOrStrings(fields[key])
		case "availability":
			var availability string
			availability, parseErr = stringValue(fields[key])
			entry.Availability = Availability(availability)
		}
		if parseErr != nil {
			return OfferEntry{}, fmt.Errorf("offer[%d] (%s): field %q: %v", index, kind, key, parseErr)
		}
	}
	return entry, nil
}

// entryKind finds the one discriminator key in an entry.
func entryKind(fields map[string]json.RawMessage) (Kind, error) {
	var present []string
	for _, kind := range []Kind{KindDirectory, KindProtocol, KindStorage} {
		if _, ok := fields[string(kind)]; ok {
			present = append(present, string(kind))
		}
	}
	switch len(present) {
	case 1:
		return Kind(present[0]), nil
	case 0:
		return "", fmt.Errorf(`entry has no capability kind (one of "directory", "storage", "protocol" is required)`)
	default:
		slices.Sort(present)
		return "", fmt.Errorf("entry declares multiple capability kinds (%s)", strings.Join(present, " and "))
	}
}

// capabilityNames decodes a discriminator value. Protocol accepts a
// name or a list of names; directory and storage take exactly one.
func capabilityNames(kind Kind, raw json.RawMessage) ([]string, error) {
	names, wasList, err := stringOrStrings(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must name a capability (a string%s)", kind, listHint(kind))
	}
	if kind != KindProtocol && (wasList || len(names) != 1) {
		return nil, fmt.Errorf("%s takes a single capability name", kind)
	}
	return names, nil
}

func listHint(kind Kind) string {
	if kind == KindProtocol {
		return " or list of strings"
	}
	return ""
}

// parseScope decodes an opaque object scope. Numbers normalize to
// int64 when integral and float64 otherwise, so values survive
// JSON-to-CBOR round trips without precision surprises.
func parseScope(key string, raw json.RawMessage) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("manifest key %q must be an object", key)
	}
	scope, ok := normalizeNumbers(value).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("manifest key %q must be an object", key)
	}
	// An empty scope and an absent key canonicalize identically.
	if len(scope) == 0 {
		return nil, nil
	}
	return scope, nil
}

func normalizeNumbers(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, element := range typed {
			typed[key] = normalizeNumbers(element)
		}
		return typed
	case []any:
		for index, element := range typed {
			typed[index] = normalizeNumbers(element)
		}
		return typed
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return integer
		}
		floating, _ := typed.Float64()
		return floating
	default:
		return value
	}
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func stringValue(raw json.RawMessage) (string, error) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("must be a string")
	}
	return value, nil
}

func stringListValue(raw json.RawMessage) ([]string, error) {
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("must be a list of strings")
	}
	return values, nil
}

// stringOrStrings accepts "name" or ["name", ...]; wasList reports
// which form was written.
func stringOrStrings(raw json.RawMessage) ([]string, bool, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, false, nil
	}
	var several []string
	if err := json.Unmarshal(raw, &several); err == nil {
		return several, true, nil
	}
	return nil, false, fmt.Errorf("must be a string or list of strings")
}

func sortedKeys[V any](fields map[string]V) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func joinSorted(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, value := range values {
		quoted[i] = fmt.Sprintf("%q", value)
	}
	return strings.Join(quoted, ", ")
}
