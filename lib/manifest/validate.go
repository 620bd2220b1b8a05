// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"path"
	"strings"
)

// directoryRights is the fixed rights vocabulary for directory
// capabilities: the aggregate aliases plus the granular tokens they
// expand to.
var directoryRights = map[string]bool{
	"r*":  true,
	"w*":  true,
	"x*":  true,
	"rw*": true,
	"rx*": true,

	"connect":           true,
	"enumerate":         true,
	"traverse":          true,
	"read_bytes":        true,
	"write_bytes":       true,
	"get_attributes":    true,
	"update_attributes": true,
	"modify_directory":  true,
	"execute":           true,
}

var availabilityValues = map[Availability]bool{
	AvailabilityRequired:     true,
	AvailabilityOptional:     true,
	AvailabilityTransitional: true,
}

// Validate checks a Document for semantic issues. Returns a list of
// human-readable issue descriptions; an empty list means the manifest
// is valid.
//
// Checks include:
//   - Child names are non-empty and unique; URLs are non-empty and
//     either absolute (scheme://) or fragment references (#...)
//   - Every use "from" of "#name" form names a declared child, unless
//     the entry's availability is optional
//   - "from" values are "parent", "self", or "#name"
//   - Directory entries carry an absolute, normalized path and at
//     least one right from the fixed vocabulary; storage entries carry
//     an absolute, normalized path
//   - No two use entries claim the same path
//   - Offer "from" and every "to" child reference resolve; "to" is
//     never "self" and never routes back to the offer's source
//   - Availability values come from the fixed vocabulary
func (d *Document) Validate() []string {
	var issues []string

	childIndex := make(map[string]int, len(d.Children))
	for index, child := range d.Children {
		prefix := fmt.Sprintf("children[%d]", index)
		if child.Name == "" {
			issues = append(issues, prefix+": name is required")
		} else if firstIndex, exists := childIndex[child.Name]; exists {
			issues = append(issues, fmt.Sprintf(
				"%s %q: duplicate child name (first declared at children[%d])",
				prefix, child.Name, firstIndex,
			))
		} else {
			childIndex[child.Name] = index
		}

		switch {
		case child.URL == "":
			issues = append(issues, fmt.Sprintf("%s %q: url is required", prefix, child.Name))
		case !strings.Contains(child.URL, "://") && !strings.HasPrefix(child.URL, "#"):
			issues = append(issues, fmt.Sprintf(
				"%s %q: url %q is neither absolute (scheme://) nor a fragment reference (#...)",
				prefix, child.Name, child.URL,
			))
		}
	}

	usedPaths := make(map[string]int, len(d.Use))
	for index, entry := range d.Use {
		prefix := fmt.Sprintf("use[%d] (%s %q)", index, entry.Kind, entry.firstName())
		issues = append(issues, d.validateUse(entry, prefix, childIndex)...)

		if entry.Path != "" {
			if firstIndex, exists := usedPaths[entry.Path]; exists {
				issues = append(issues, fmt.Sprintf(
					"%s: path %q already used by use[%d]", prefix, entry.Path, firstIndex,
				))
			} else {
				usedPaths[entry.Path] = index
			}
		}
	}

	for index, entry := range d.Offer {
		prefix := fmt.Sprintf("offer[%d] (%s %q)", index, entry.Kind, entry.firstName())
		issues = append(issues, d.validateOffer(entry, prefix, childIndex)...)
	}

	return issues
}

func (d *Document) validateUse(entry UseEntry, prefix string, children map[string]int) []string {
	var issues []string

	if len(entry.Names) == 0 {
		issues = append(issues, prefix+": at least one capability name is required")
	}
	for _, name := range entry.Names {
		if name == "" {
			issues = append(issues, prefix+": capability names may not be empty")
		}
	}

	if !availabilityValues[entry.Availability] {
		issues = append(issues, fmt.Sprintf(
			"%s: availability %q is not one of required, optional, transitional",
			prefix, entry.Availability,
		))
	}

	issues = append(issues, validateFromReference(entry.From, prefix, children,
		entry.Availability == AvailabilityOptional)...)

	switch entry.Kind {
	case KindDirectory:
		issues = append(issues, validatePath(entry.Path, prefix)...)
		if len(entry.Rights) == 0 {
			issues = append(issues, prefix+": at least one right is required")
		}
		for _, right := range entry.Rights {
			if !directoryRights[right] {
				issues = append(issues, fmt.Sprintf(
					"%s: unknown right %q (valid rights: %s)", prefix, right, joinSorted(directoryRights),
				))
			}
		}
	case KindStorage:
		issues = append(issues, validatePath(entry.Path, prefix)...)
	}

	return issues
}

func (d *Document) validateOffer(entry OfferEntry, prefix string, children map[string]int) []string {
	var issues []string

	if len(entry.Names) == 0 {
		issues = append(issues, prefix+": at least one capability name is required")
	}
	if !availabilityValues[entry.Availability] {
		issues = append(issues, fmt.Sprintf(
			"%s: availability %q is not one of required, optional, transitional",
			prefix, entry.Availability,
		))
	}

	if entry.From == "" {
		issues = append(issues, prefix+": from is required")
	} else {
		// Offer sources must resolve regardless of availability: an
		// offer is a routing statement, not a requirement.
		issues = append(issues, validateFromReference(entry.From, prefix, children, false)...)
	}

	if len(entry.To) == 0 {
		issues = append(issues, prefix+": at least one to target is required")
	}
	for _, to := range entry.To {
		switch {
		case to == "self":
			issues = append(issues, prefix+`: to may not be "self"`)
		case !strings.HasPrefix(to, "#"):
			issues = append(issues, fmt.Sprintf(
				"%s: to %q must reference a child (#name)", prefix, to,
			))
		case to == entry.From:
			issues = append(issues, fmt.Sprintf(
				"%s: routes back to its source %q", prefix, to,
			))
		default:
			if _, declared := children[strings.TrimPrefix(to, "#")]; !declared {
				issues = append(issues, fmt.Sprintf(
					"%s: to %q does not name a declared child", prefix, to,
				))
			}
		}
	}

	return issues
}

// validateFromReference checks a "from" value. Child references may be
// left dangling when the entry is optional; everything else must
// resolve.
func validateFromReference(from, prefix string, children map[string]int, optional bool) []string {
	switch {
	case from == "parent" || from == "self":
		return nil
	case strings.HasPrefix(from, "#"):
		if _, declared := children[strings.TrimPrefix(from, "#")]; !declared && !optional {
			return []string{fmt.Sprintf("%s: from %q does not name a declared child", prefix, from)}
		}
		return nil
	default:
		return []string{fmt.Sprintf(
			`%s: from %q must be "parent", "self", or a child reference (#name)`, prefix, from,
		)}
	}
}

func validatePath(target, prefix string) []string {
	switch {
	case target == "":
		return []string{prefix + ": path is required"}
	case !strings.HasPrefix(target, "/"):
		return []string{fmt.Sprintf("%s: path %q is not absolute", prefix, target)}
	case path.Clean(target) != target:
		return []string{fmt.Sprintf("%s: path %q is not normalized (want %q)", prefix, target, path.Clean(target))}
	}
	return nil
}

func (e UseEntry) firstName() string {
	if len(e.Names) == 0 {
		return ""
	}
	return e.Names[0]
}

func (e OfferEntry) firstName() string {
	if len(e.Names) == 0 {
		return ""
	}
	return e.Names[0]
}
