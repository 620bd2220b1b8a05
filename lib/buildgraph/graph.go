// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"errors"
	"fmt"
	"path"
	"runtime"
	"slices"
	"sync"

	"github.com/gantry-build/gantry/lib/gn"
)

// Fragment is one build-rule file to load: its tree-relative path and
// its raw source bytes. The path's directory part scopes relative
// labels declared inside the fragment.
type Fragment struct {
	// Path is slash-separated and relative to the fragment tree root,
	// for example "rust/bindings/BUILD.gn".
	Path   string
	Source []byte
}

// Dir returns the fragment's directory: "rust/bindings" for
// "rust/bindings/BUILD.gn", empty for a root fragment.
func (f *Fragment) Dir() string {
	dir := path.Dir(f.Path)
	if dir == "." {
		return ""
	}
	return dir
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Arguments provides resolved build-argument bindings visible to
	// every fragment, typically the scope of an evaluated argument
	// set. May be nil when fragments reference no arguments.
	Arguments *gn.Scope

	// Loader resolves import() calls inside fragments. May be nil when
	// fragments do not import.
	Loader gn.Loader

	// Parallelism bounds how many fragments parse and evaluate at
	// once. Zero or negative means one worker per CPU.
	Parallelism int
}

// Graph is a loaded, structurally checked target set: labels are
// unique and every dependency edge resolves. Acyclicity is checked
// when a Plan is derived, not at load time, so reverse-dependency
// queries still work on a cyclic graph under repair.
type Graph struct {
	// Targets in declaration order: fragment input order, then
	// declaration order within each fragment.
	Targets []*Target

	byLabel map[Label]*Target
}

// Load parses and evaluates the given fragments into a Graph.
// Fragments are independent of each other at the language level (a
// fragment sees the shared argument scope, never another fragment's
// bindings), so they load concurrently; results merge in input order
// so every error and every ordering is independent of scheduling.
func Load(fragments []*Fragment, options LoadOptions) (*Graph, error) {
	results := make([][]*Target, len(fragments))
	loadErrors := make([]error, len(fragments))

	workers := options.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(fragments) {
		workers = len(fragments)
	}

	// Workers pull fragment indexes and write to per-index slots. The
	// shared argument scope is read-only here: evaluator writes land
	// in per-run file scopes, never in options.Arguments.
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				results[index], loadErrors[index] = loadFragment(fragments[index], options)
			}
		}()
	}
	for index := range fragments {
		jobs <- index
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(loadErrors...); err != nil {
		return nil, err
	}

	graph := &Graph{byLabel: make(map[Label]*Target)}
	for _, targets := range results {
		for _, target := range targets {
			if existing, ok := graph.byLabel[target.Label]; ok {
				return nil, fmt.Errorf("duplicate target %s: declared at %s and %s",
					target.Label, existing.Pos, target.Pos)
			}
			graph.byLabel[target.Label] = target
			graph.Targets = append(graph.Targets, target)
		}
	}

	if err := graph.resolveDeps(); err != nil {
		return nil, err
	}
	return graph, nil
}

func loadFragment(fragment *Fragment, options LoadOptions) ([]*Target, error) {
	file, err := gn.Parse(fragment.Path, fragment.Source)
	if err != nil {
		return nil, err
	}

	var targets []*Target
	handler := func(kind, name string, call *gn.CallStatement, properties *gn.Scope) error {
		target, err := interpretTarget(kind, name, call, properties, fragment.Path, fragment.Dir())
		if err != nil {
			return err
		}
		targets = append(targets, target)
		return nil
	}

	_, _, err = gn.Evaluate(file, gn.EvalOptions{
		Loader:        options.Loader,
		RootScope:     options.Arguments,
		TargetHandler: handler,
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// VetFragment checks one fragment in isolation: syntax, target field
// schemas, label syntax. The result depends only on the fragment's
// own bytes (plus the shared argument scope), so callers may cache it
// per file. Cross-fragment properties — dependency resolution,
// duplicate labels, cycles — need the whole set and are checked by
// Load and Plan.
func VetFragment(fragment *Fragment, options LoadOptions) []string {
	if _, err := loadFragment(fragment, options); err != nil {
		// Evaluation stops at the first error, so one issue per call.
		return []string{err.Error()}
	}
	return nil
}

// resolveDeps checks that every dependency edge points at a loaded
// target. All unresolved edges are reported together, in declaration
// order.
func (g *Graph) resolveDeps() error {
	var unresolved []error
	for _, target := range g.Targets {
		for _, dep := range target.Deps {
			if _, ok := g.byLabel[dep]; !ok {
				unresolved = append(unresolved, fmt.Errorf("%s: target %s depends on undefined target %s",
					target.Pos, target.Label, dep))
			}
		}
	}
	return errors.Join(unresolved...)
}

// Target returns the target with the given label.
func (g *Graph) Target(label Label) (*Target, bool) {
	target, ok := g.byLabel[label]
	return target, ok
}

// Labels returns every target label, sorted.
func (g *Graph) Labels() []Label {
	labels := make([]Label, 0, len(g.byLabel))
	for label := range g.byLabel {
		labels = append(labels, label)
	}
	slices.SortFunc(labels, Label.Compare)
	return labels
}

// ReverseDeps returns the targets that depend on label, sorted by
// label. Nil when nothing does.
func (g *Graph) ReverseDeps(label Label) []*Target {
	var dependents []*Target
	for _, target := range g.Targets {
		if slices.Contains(target.Deps, label) {
			dependents = append(dependents, target)
		}
	}
	slices.SortFunc(dependents, func(a, b *Target) int {
		return a.Label.Compare(b.Label)
	})
	return dependents
}
