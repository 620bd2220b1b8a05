// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package gn implements the declarative configuration language used by
// gantry's build-argument files and build-rule fragments: a small GN
// dialect with assignments, conditionals, list and string literals, and
// a fixed set of builtin calls.
//
// The package provides four layers, each usable on its own:
//
//   - Lex: source bytes to a positioned token stream.
//   - Parse: tokens to a comment-preserving syntax tree.
//   - Evaluate: a syntax tree to final values, with declare_args
//     collection, import resolution, and assert enforcement.
//   - Format: a syntax tree back to canonical source text.
//
// The language is deliberately small. Supported builtins are
// declare_args, import, assert, and defined. Target-defining calls
// (static_library and friends) are not interpreted here; the evaluator
// hands them to a caller-provided handler so that build-rule semantics
// stay out of the language core. Template definitions, toolchain
// declarations, and the wider GN function library are not part of the
// dialect.
//
// Formatting is canonical and idempotent: formatting already-formatted
// output is a no-op. Comments survive parsing and formatting, which is
// load-bearing for build-argument documentation: the comment block
// directly above a declaration is that argument's doc comment.
package gn
