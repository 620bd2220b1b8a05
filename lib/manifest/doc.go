// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest parses, validates, merges, and serializes component
// capability manifests: the declarative documents that tell a
// sandboxing runtime which directories, storage, and protocols a
// component may use, which child components provide them, and how
// capabilities route between them.
//
// Manifests are authored as JSONC (JSON with // and /* */ comments and
// trailing commas) and canonicalized to plain JSON. The authored form
// uses one discriminator key per capability entry (the key is the
// kind, its value the capability name); the parsed Document carries an
// explicit Kind so callers never re-derive it.
//
// The package follows a parse / validate split: Parse rejects only
// structural problems (unknown keys, wrong types, missing
// discriminators) with positional errors, while Validate returns the
// full list of semantic issues (unresolved references, bad rights,
// duplicate paths) as human-readable strings, so a vet run can report
// everything at once instead of stopping at the first finding.
//
// Merge resolves include chains through a pluggable Loader,
// suppressing exact duplicates and deep-merging the opaque program and
// facets scopes. A merged, validated document compiles to a
// digest-carrying binary bundle (lib/bundle) for handoff to the
// component runtime.
package manifest
