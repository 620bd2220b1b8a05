// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"fmt"
	"strings"
)

// Label identifies a target within a fragment tree: the directory of
// the fragment that declares it plus the target name. The canonical
// text form is "//dir/path:name"; a target in the tree root renders
// as "//:name".
type Label struct {
	// Dir is the slash-separated fragment directory relative to the
	// tree root, with no leading "//" and no trailing slash. Empty for
	// the root directory.
	Dir string

	// Name is the target name, unique within Dir.
	Name string
}

// ParseLabel parses a label reference as written in a fragment. Three
// forms are accepted:
//
//	//dir/path:name   absolute
//	//dir/path        absolute, name defaults to the last path element
//	:name             relative to fromDir, the referencing fragment's
//	                  directory
//
// Bare names without a ":" or "//" prefix are rejected rather than
// guessed at: a reference must say whether it is file-relative or
// absolute.
func ParseLabel(text, fromDir string) (Label, error) {
	if strings.Contains(text, "(") {
		return Label{}, fmt.Errorf("label %q: toolchain-qualified labels are not supported", text)
	}
	switch {
	case strings.HasPrefix(text, "//"):
		return parseAbsolute(text)
	case strings.HasPrefix(text, ":"):
		name := text[1:]
		if name == "" {
			return Label{}, fmt.Errorf("label %q has no target name", text)
		}
		if strings.ContainsAny(name, ":/") {
			return Label{}, fmt.Errorf("label %q has a malformed target name", text)
		}
		return Label{Dir: fromDir, Name: name}, nil
	case text == "":
		return Label{}, fmt.Errorf("empty label")
	default:
		return Label{}, fmt.Errorf("bare label %q: write \":%s\" for a target in this fragment or \"//dir:%s\" for an absolute reference", text, text, text)
	}
}

func parseAbsolute(text string) (Label, error) {
	rest := strings.TrimPrefix(text, "//")
	dir, name, explicit := strings.Cut(rest, ":")
	if !explicit {
		// //dir/path means //dir/path:path.
		if dir == "" {
			return Label{}, fmt.Errorf("label %q has no target name", text)
		}
		name = dir[strings.LastIndex(dir, "/")+1:]
	}
	if name == "" {
		return Label{}, fmt.Errorf("label %q has no target name", text)
	}
	if strings.ContainsAny(name, ":/") {
		return Label{}, fmt.Errorf("label %q has a malformed target name", text)
	}
	if strings.HasPrefix(dir, "/") || strings.HasSuffix(dir, "/") || strings.Contains(dir, "//") {
		return Label{}, fmt.Errorf("label %q has a malformed directory", text)
	}
	return Label{Dir: dir, Name: name}, nil
}

// String returns the canonical absolute form, "//dir:name".
func (l Label) String() string {
	return "//" + l.Dir + ":" + l.Name
}

// Compare orders labels by their canonical text form. Plans, reverse
// dependency listings, and error joins all sort with this so output
// is stable across runs.
func (l Label) Compare(other Label) int {
	if c := strings.Compare(l.Dir, other.Dir); c != 0 {
		return c
	}
	return strings.Compare(l.Name, other.Name)
}

// MarshalText encodes the canonical form for JSON and CBOR.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label from its canonical form. Only the
// absolute form is accepted: serialized graphs and plans never contain
// relative references, which only mean something next to the fragment
// that wrote them.
func (l *Label) UnmarshalText(text []byte) error {
	if !strings.HasPrefix(string(text), "//") {
		return fmt.Errorf("label %q is not absolute", text)
	}
	parsed, err := ParseLabel(string(text), "")
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
