// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildargs resolves a workspace's build arguments: the
// overridable flags declared in declare_args() blocks that steer
// which targets exist and how they are configured.
//
// Resolution follows the generator contract. Declaration files
// evaluate their defaults first, in file order; an overrides file
// (args.gn style) and --set literals are applied on top, with --set
// winning. An override naming an argument no file declares is an
// error, as is an override whose value changes the argument's type.
// After resolution the flag implication table is checked, so an
// inconsistent flag combination fails before any build-rule fragment
// is looked at.
package buildargs

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gantry-build/gantry/lib/gn"
)

// NamedSource is one declaration file: its workspace-relative name
// (used in diagnostics) and raw content.
type NamedSource struct {
	Name   string
	Source []byte
}

// Options configures argument resolution.
type Options struct {
	// Loader resolves import() paths inside declaration files. Nil
	// disables imports.
	Loader gn.Loader

	// Overrides is the content of the overrides file, or nil when the
	// workspace has none. The file contains assignments evaluated in
	// isolation: it cannot import and it cannot read declared
	// defaults.
	Overrides []byte

	// OverridesName names the overrides file in diagnostics.
	// Defaults to "args.gn".
	OverridesName string

	// Sets are --set name=value literals, applied after the overrides
	// file. The value is a full expression, so --set max_jobs=16 and
	// --set goma_dir="/opt/goma" both work.
	Sets []string
}

// Set is a resolved argument set: every declaration in declaration
// order, with defaults, final values, and override provenance.
type Set struct {
	Declarations []*gn.ArgDeclaration

	byName map[string]*gn.ArgDeclaration
}

// Declaration returns the named declaration, if any file declared it.
func (s *Set) Declaration(name string) (*gn.ArgDeclaration, bool) {
	declaration, ok := s.byName[name]
	return declaration, ok
}

// Value returns the resolved value of the named argument.
func (s *Set) Value(name string) (gn.Value, bool) {
	declaration, ok := s.byName[name]
	if !ok {
		return gn.Value{}, false
	}
	return declaration.Value, true
}

// Scope materializes the resolved values as a scope, for evaluating
// build-rule fragments against this argument set.
func (s *Set) Scope() *gn.Scope {
	scope := gn.NewScope(nil)
	for _, declaration := range s.Declarations {
		scope.Set(declaration.Name, declaration.Value)
	}
	return scope
}

// flagImplication is one row of the implication table: when the
// antecedent flag resolves true, the consequent flag must too.
type flagImplication struct {
	when   string
	then   string
	reason string
}

// The implication table. Declaration files express the same
// constraints as assert() calls; the table is the backstop that holds
// even when a workspace's declaration files predate the asserts.
var flagImplications = []flagImplication{
	{
		when:   "is_cronet_for_aosp_build",
		then:   "is_cronet_build",
		reason: "the AOSP flavor is a variant of the embedded network stack build",
	},
}

// Evaluate resolves build arguments from the given declaration files.
// Files evaluate in order and share one evaluator, so later files see
// arguments declared by earlier ones.
func Evaluate(files []NamedSource, options Options) (*Set, error) {
	overrides, err := collectOverrides(options)
	if err != nil {
		return nil, err
	}

	evaluator := gn.NewEvaluator(gn.EvalOptions{
		Loader:    options.Loader,
		Overrides: overrides,
	})
	for _, file := range files {
		parsed, err := gn.Parse(file.Name, file.Source)
		if err != nil {
			return nil, err
		}
		if _, err := evaluator.Run(parsed); err != nil {
			return nil, err
		}
	}

	set := setFromEvaluator(evaluator)

	if err := checkUnknownOverrides(set, overrides, options); err != nil {
		return nil, err
	}
	if err := checkFlagImplications(set); err != nil {
		return nil, err
	}
	return set, nil
}

func setFromEvaluator(evaluator *gn.Evaluator) *Set {
	set := &Set{
		Declarations: evaluator.Declarations(),
		byName:       make(map[string]*gn.ArgDeclaration),
	}
	for _, declaration := range set.Declarations {
		set.byName[declaration.Name] = declaration
	}
	return set
}

// collectOverrides evaluates the overrides file and then the --set
// literals into a single name to value map, --set winning.
func collectOverrides(options Options) (map[string]gn.Value, error) {
	overrides := make(map[string]gn.Value)

	if len(options.Overrides) > 0 {
		file, err := gn.Parse(overridesName(options), options.Overrides)
		if err != nil {
			return nil, err
		}
		scope, _, err := gn.Evaluate(file, gn.EvalOptions{})
		if err != nil {
			return nil, err
		}
		for name, value := range scope.Bindings() {
			overrides[name] = value
		}
	}

	for _, literal := range options.Sets {
		name, value, err := evalSetLiteral(literal)
		if err != nil {
			return nil, err
		}
		overrides[name] = value
	}
	return overrides, nil
}

// evalSetLiteral evaluates one --set name=value literal. The value
// side is parsed as an expression by evaluating a one-line synthetic
// assignment, so quoting, lists, and arithmetic all behave exactly as
// they would in an overrides file.
func evalSetLiteral(literal string) (string, gn.Value, error) {
	name, expression, ok := strings.Cut(literal, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(expression) == "" {
		return "", gn.Value{}, fmt.Errorf("--set requires name=value, got %q", literal)
	}

	source := fmt.Sprintf("%s = %s\n", name, expression)
	file, err := gn.Parse("--set "+name, []byte(source))
	if err != nil {
		return "", gn.Value{}, err
	}
	scope, _, err := gn.Evaluate(file, gn.EvalOptions{})
	if err != nil {
		return "", gn.Value{}, err
	}
	value, bound := scope.GetLocal(name)
	if !bound {
		return "", gn.Value{}, fmt.Errorf("--set %q did not produce an assignment", literal)
	}
	return name, value, nil
}

// checkUnknownOverrides rejects override names that no declaration
// file declares. All unknown names are reported together so a stale
// overrides file is fixed in one pass.
func checkUnknownOverrides(set *Set, overrides map[string]gn.Value, options Options) error {
	var unknown []error
	for _, name := range sortedNames(overrides) {
		if _, ok := set.byName[name]; !ok {
			unknown = append(unknown, fmt.Errorf(
				"unknown build argument %q in %s: no declare_args block declares it",
				name, overridesName(options)))
		}
	}
	return errors.Join(unknown...)
}

func overridesName(options Options) string {
	if options.OverridesName != "" {
		return options.OverridesName
	}
	return "args.gn"
}

// checkFlagImplications enforces the implication table against the
// resolved values. An antecedent that is not declared, or declared
// with a non-bool value, does not trigger its row.
func checkFlagImplications(set *Set) error {
	for _, implication := range flagImplications {
		when, ok := set.Value(implication.when)
		if !ok || when.Kind != gn.ValueBool || !when.Bool {
			continue
		}
		then, ok := set.Value(implication.then)
		if ok && then.Kind == gn.ValueBool && then.Bool {
			continue
		}
		return fmt.Errorf(
			"build argument constraint violated: %s=true requires %s=true (%s)",
			implication.when, implication.then, implication.reason)
	}
	return nil
}

func sortedNames(values map[string]gn.Value) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
