// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gantry-build/gantry/lib/gn"
)

// Kind names a target-defining call. The kind decides which fields a
// target block accepts and how the plan treats the target.
type Kind string

const (
	// KindSourceSet is a set of source files with no compile step of
	// its own. The header-set form carries only headers and exists so
	// other targets can depend on them.
	KindSourceSet Kind = "source_set"

	// KindComponent is a compiled native library or module.
	KindComponent Kind = "component"

	// KindBindgenGenerator runs the bindings generator over one native
	// header and emits a Rust source file named after the target.
	KindBindgenGenerator Kind = "rust_bindgen_generator"

	// KindStaticLibrary is a Rust static library. When it depends on a
	// KindBindgenGenerator, its compile step must receive the
	// generator's output path via BINDGEN_RS_FILE (see BindgenEnv).
	KindStaticLibrary Kind = "rust_static_library"

	// KindExecutable is a linked Rust binary.
	KindExecutable Kind = "executable"
)

// fieldType is the enforced type of one target field.
type fieldType int

const (
	fieldStringList fieldType = iota
	fieldString
	fieldBool
)

func (t fieldType) String() string {
	switch t {
	case fieldStringList:
		return "list of strings"
	case fieldString:
		return "string"
	case fieldBool:
		return "bool"
	default:
		return fmt.Sprintf("fieldType(%d)", int(t))
	}
}

// targetFields is the accepted field set per kind. A field absent from
// the kind's map is an error on that kind, and a present field must
// evaluate to the mapped type.
var targetFields = map[Kind]map[string]fieldType{
	KindSourceSet: {
		"sources": fieldStringList,
	},
	KindComponent: {
		"sources": fieldStringList,
		"deps":    fieldStringList,
		"defines": fieldStringList,
	},
	KindBindgenGenerator: {
		"header":          fieldString,
		"deps":            fieldStringList,
		"wrap_static_fns": fieldBool,
	},
	KindStaticLibrary: {
		"sources":                      fieldStringList,
		"deps":                         fieldStringList,
		"crate_root":                   fieldString,
		"allow_unsafe":                 fieldBool,
		"build_native_rust_unit_tests": fieldBool,
	},
	KindExecutable: {
		"sources":    fieldStringList,
		"deps":       fieldStringList,
		"crate_root": fieldString,
	},
}

// Kinds returns every accepted target kind, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(targetFields))
	for kind := range targetFields {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Target is one interpreted target definition. Field population
// depends on Kind; unset fields keep their zero values and are omitted
// from serialized output.
type Target struct {
	Label    Label  `json:"label" cbor:"label"`
	Kind     Kind   `json:"kind" cbor:"kind"`
	Fragment string `json:"fragment,omitempty" cbor:"fragment,omitempty"`

	Sources []string `json:"sources,omitempty" cbor:"sources,omitempty"`
	Deps    []Label  `json:"deps,omitempty" cbor:"deps,omitempty"`
	Defines []string `json:"defines,omitempty" cbor:"defines,omitempty"`

	// KindBindgenGenerator only.
	Header        string `json:"header,omitempty" cbor:"header,omitempty"`
	WrapStaticFns bool   `json:"wrap_static_fns,omitempty" cbor:"wrap_static_fns,omitempty"`

	// KindStaticLibrary and KindExecutable.
	CrateRoot                string `json:"crate_root,omitempty" cbor:"crate_root,omitempty"`
	AllowUnsafe              bool   `json:"allow_unsafe,omitempty" cbor:"allow_unsafe,omitempty"`
	BuildNativeRustUnitTests bool   `json:"build_native_rust_unit_tests,omitempty" cbor:"build_native_rust_unit_tests,omitempty"`

	// Pos is the declaration site, for error reporting. Not part of
	// the target's identity and never serialized.
	Pos gn.Position `json:"-" cbor:"-"`
}

// interpretTarget checks one target-defining call against the field
// schema for its kind and builds the typed record. fragmentPath and
// fragmentDir locate the declaring fragment; relative dependency
// labels resolve against fragmentDir.
func interpretTarget(kind, name string, call *gn.CallStatement, properties *gn.Scope, fragmentPath, fragmentDir string) (*Target, error) {
	schema, known := targetFields[Kind(kind)]
	if !known {
		return nil, fmt.Errorf("%s: unknown target kind %q (accepted kinds: %s)", call.NamePos, kind, joinKinds())
	}

	target := &Target{
		Label:    Label{Dir: fragmentDir, Name: name},
		Kind:     Kind(kind),
		Fragment: fragmentPath,
		Pos:      call.NamePos,
	}

	for _, field := range properties.Names() {
		if strings.HasPrefix(field, "_") {
			// Underscore names are block-local scratch, same rule as
			// the import merge.
			continue
		}
		value, _ := properties.GetLocal(field)
		expected, accepted := schema[field]
		if !accepted {
			return nil, fmt.Errorf("%s: target %s (%s) does not accept field %q (accepted fields: %s)",
				call.NamePos, target.Label, kind, field, joinFields(schema))
		}
		if err := target.setField(field, expected, value); err != nil {
			return nil, fmt.Errorf("%s: target %s: %w", call.NamePos, target.Label, err)
		}
	}

	if target.Kind == KindBindgenGenerator && target.Header == "" {
		return nil, fmt.Errorf("%s: target %s must name exactly one header", call.NamePos, target.Label)
	}
	return target, nil
}

func (t *Target) setField(field string, expected fieldType, value gn.Value) error {
	switch expected {
	case fieldStringList:
		list, err := stringList(field, value)
		if err != nil {
			return err
		}
		switch field {
		case "sources":
			t.Sources = list
		case "deps":
			deps, err := t.parseDeps(list)
			if err != nil {
				return err
			}
			t.Deps = deps
		case "defines":
			t.Defines = list
		}
	case fieldString:
		if value.Kind != gn.ValueString {
			return fmt.Errorf("field %q must be a string, got %s", field, value.Kind)
		}
		switch field {
		case "header":
			t.Header = value.Str
		case "crate_root":
			t.CrateRoot = value.Str
		}
	case fieldBool:
		if value.Kind != gn.ValueBool {
			return fmt.Errorf("field %q must be a bool, got %s", field, value.Kind)
		}
		switch field {
		case "wrap_static_fns":
			t.WrapStaticFns = value.Bool
		case "allow_unsafe":
			t.AllowUnsafe = value.Bool
		case "build_native_rust_unit_tests":
			t.BuildNativeRustUnitTests = value.Bool
		}
	}
	return nil
}

func (t *Target) parseDeps(references []string) ([]Label, error) {
	deps := make([]Label, 0, len(references))
	for _, reference := range references {
		label, err := ParseLabel(reference, t.Label.Dir)
		if err != nil {
			return nil, fmt.Errorf("field \"deps\": %w", err)
		}
		deps = append(deps, label)
	}
	return deps, nil
}

func stringList(field string, value gn.Value) ([]string, error) {
	if value.Kind != gn.ValueList {
		return nil, fmt.Errorf("field %q must be a list of strings, got %s", field, value.Kind)
	}
	list := make([]string, 0, len(value.List))
	for i, element := range value.List {
		if element.Kind != gn.ValueString {
			return nil, fmt.Errorf("field %q element %d must be a string, got %s", field, i, element.Kind)
		}
		list = append(list, element.Str)
	}
	return list, nil
}

func joinFields(schema map[string]fieldType) string {
	fields := make([]string, 0, len(schema))
	for field := range schema {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return strings.Join(fields, ", ")
}

func joinKinds() string {
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}
