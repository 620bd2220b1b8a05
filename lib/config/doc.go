// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML workspace configuration for gantry.
//
// Configuration lives in a single gantry.yaml at the workspace root,
// found by the GANTRY_CONFIG environment variable, a --config flag
// (via [LoadFile]), or by walking up from the working directory (via
// [Discover]). Decoding is strict: unknown keys are errors, so typos
// surface instead of silently configuring nothing.
//
// The file supports environment-specific sections (local, ci) that
// override base values. The active environment comes from GANTRY_ENV
// when set, otherwise from the file's environment field, defaulting
// to local.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${GANTRY_CHECKOUT}, ${GANTRY_OUT}, and ${VAR:-default}
// patterns are expanded. No other environment variables override
// config values.
//
// Key exports:
//
//   - [Config] -- master struct with Paths, Test, Vet, Credential
//   - [Default] -- returns a Config with local-development defaults
//   - [Load], [LoadFile], [Discover] -- the entry points for loading
//
// This package depends on no other gantry packages.
package config
