// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gantry-build/gantry/lib/codec"
	"github.com/gantry-build/gantry/lib/digest"
)

// PlanEntry is one scheduled target in evaluation order.
type PlanEntry struct {
	Label Label `json:"label" cbor:"label"`
	Kind  Kind  `json:"kind" cbor:"kind"`

	// Depth is the longest dependency chain under the target: zero for
	// targets with no dependencies, one more than the deepest
	// dependency otherwise. Entries of equal depth never depend on one
	// another, so an executor may run a whole depth level at once.
	Depth int `json:"depth" cbor:"depth"`
}

// Plan is a deterministic evaluation order for a graph: dependencies
// always precede dependents, and ties break by label, so the same
// graph yields the same plan on every machine.
type Plan struct {
	Entries []PlanEntry `json:"entries" cbor:"entries"`

	// Digest identifies the plan: a Merkle root over the encoded
	// target records in plan order. Formatting and comment changes in
	// fragments do not move it; any change to a target's fields, kind,
	// or dependencies does. Zero for an empty plan.
	Digest digest.Digest `json:"digest" cbor:"digest"`
}

// Plan derives the evaluation order. It fails if the dependency
// relation has a cycle; the error reports the full label path.
func (g *Graph) Plan() (*Plan, error) {
	if cycle := g.findCycle(); cycle != nil {
		return nil, fmt.Errorf("dependency cycle: %s", joinLabels(cycle, " -> "))
	}

	pending := make(map[Label]int, len(g.Targets))
	dependents := make(map[Label][]Label, len(g.Targets))
	for _, target := range g.Targets {
		pending[target.Label] = len(target.Deps)
		for _, dep := range target.Deps {
			dependents[dep] = append(dependents[dep], target.Label)
		}
	}

	var ready []Label
	for _, target := range g.Targets {
		if pending[target.Label] == 0 {
			ready = append(ready, target.Label)
		}
	}
	slices.SortFunc(ready, Label.Compare)

	depth := make(map[Label]int, len(g.Targets))
	entries := make([]PlanEntry, 0, len(g.Targets))
	for len(ready) > 0 {
		label := ready[0]
		ready = ready[1:]
		target := g.byLabel[label]

		targetDepth := 0
		for _, dep := range target.Deps {
			if below := depth[dep] + 1; below > targetDepth {
				targetDepth = below
			}
		}
		depth[label] = targetDepth
		entries = append(entries, PlanEntry{Label: label, Kind: target.Kind, Depth: targetDepth})

		for _, dependent := range dependents[label] {
			pending[dependent]--
			if pending[dependent] == 0 {
				// Sorted insertion keeps the pop order a function of
				// the graph alone, not of map iteration.
				at, _ := slices.BinarySearchFunc(ready, dependent, Label.Compare)
				ready = slices.Insert(ready, at, dependent)
			}
		}
	}

	plan := &Plan{Entries: entries}
	planDigest, err := g.planDigest(entries)
	if err != nil {
		return nil, err
	}
	plan.Digest = planDigest
	return plan, nil
}

// findCycle runs a depth-first three-color walk over the dependency
// relation. White targets are unvisited, gray targets are on the
// current walk stack, black targets are fully explored. A dependency
// edge into a gray target closes a cycle; the returned path starts
// and ends at the same label. Nil when the graph is acyclic.
func (g *Graph) findCycle() []Label {
	const (
		white = iota
		gray
		black
	)
	colors := make(map[Label]int, len(g.Targets))

	var stack []Label
	var cycle []Label

	var visit func(label Label) bool
	visit = func(label Label) bool {
		colors[label] = gray
		stack = append(stack, label)
		for _, dep := range g.byLabel[label].Deps {
			switch colors[dep] {
			case gray:
				start := slices.Index(stack, dep)
				cycle = append(slices.Clone(stack[start:]), dep)
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		colors[label] = black
		return false
	}

	for _, label := range g.Labels() {
		if colors[label] == white && visit(label) {
			return cycle
		}
	}
	return nil
}

// planDigest hashes each target record in plan order and folds the
// digests into a Merkle root. The records encode with the
// deterministic codec, so the digest is a pure function of the graph.
func (g *Graph) planDigest(entries []PlanEntry) (digest.Digest, error) {
	if len(entries) == 0 {
		return digest.Digest{}, nil
	}
	leaves := make([]digest.Digest, len(entries))
	for i, entry := range entries {
		encoded, err := codec.Marshal(g.byLabel[entry.Label])
		if err != nil {
			return digest.Digest{}, fmt.Errorf("encoding target %s: %w", entry.Label, err)
		}
		leaves[i] = digest.HashTarget(encoded)
	}
	return digest.PlanRoot(leaves), nil
}

func joinLabels(labels []Label, separator string) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = label.String()
	}
	return strings.Join(parts, separator)
}
