// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"path"
	"slices"
	"strings"
)

// BindgenEnvName is the environment variable a Rust compile step reads
// to find its generated bindings source.
const BindgenEnvName = "BINDGEN_RS_FILE"

// EnvEntry is one environment variable the external build system must
// inject when compiling a target.
type EnvEntry struct {
	Target Label  `json:"target" cbor:"target"`
	Name   string `json:"name" cbor:"name"`
	Value  string `json:"value" cbor:"value"`
}

// BindgenEnv computes the bindings-generator environment contract.
// For every Rust static library or executable with a generator among
// its dependencies, the compile step must see BINDGEN_RS_FILE naming
// the generator's output file, which lands under genRoot at the
// generator's fragment directory as "<generator-name>.rs". Nothing is
// written here; this is the value the external build injects.
//
// Entries sort by target label, then by value, so a target with
// several generator dependencies lists them stably.
func (g *Graph) BindgenEnv(genRoot string) []EnvEntry {
	var entries []EnvEntry
	for _, target := range g.Targets {
		if target.Kind != KindStaticLibrary && target.Kind != KindExecutable {
			continue
		}
		for _, dep := range target.Deps {
			generator, ok := g.byLabel[dep]
			if !ok || generator.Kind != KindBindgenGenerator {
				continue
			}
			entries = append(entries, EnvEntry{
				Target: target.Label,
				Name:   BindgenEnvName,
				Value:  path.Join(genRoot, generator.Label.Dir, generator.Label.Name+".rs"),
			})
		}
	}
	slices.SortFunc(entries, func(a, b EnvEntry) int {
		if c := a.Target.Compare(b.Target); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	return entries
}
