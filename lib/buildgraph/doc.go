// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildgraph interprets build-rule fragments into a typed
// target graph and derives evaluation plans from it.
//
// Fragments are files in the lib/gn dialect. The gn evaluator owns the
// language (assignments, conditionals, imports, asserts); this package
// owns the build-rule semantics layered on top: which target kinds
// exist, which fields each kind accepts, how labels resolve, and what
// a well-formed graph looks like. The split matches the runtime
// boundary: gn hands every target-defining call to a handler, and the
// handler here checks the call against a per-kind field schema before
// admitting it to the graph.
//
// A loaded Graph guarantees three structural properties: every target
// label is unique, every dependency edge resolves to a target in the
// loaded set, and (once a Plan is derived) the dependency relation is
// acyclic. Plans list targets in a deterministic topological order
// with per-target depth, and carry a digest over the target records so
// two identical graphs always produce the same plan identity.
//
// Nothing in this package executes a build. The graph describes work
// for an external build system; the one piece of build knowledge
// encoded here is the bindings-generator environment contract, which
// computes the BINDGEN_RS_FILE value a Rust target's compile step must
// receive (see BindgenEnv).
package buildgraph
