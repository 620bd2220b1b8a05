// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the gantry CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], flag binding, and a Run
// function. Commands are assembled into a tree in
// cmd/gantry/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// Flags bind in one of two ways: a [Command.Flags] factory returning
// a hand-built pflag set, or a [Command.Params] factory returning a
// pointer to a tagged params struct that [BindFlags] reflects over.
// Most commands use Params; Flags exists for the rare set that pflag
// tags cannot express.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// Vet-family commands distinguish two failure classes: an [ExitError]
// with code 2 means the inputs were read and issues were found (the
// command printed them); any other error is an internal or usage
// failure reported with exit code 1.
package cli
