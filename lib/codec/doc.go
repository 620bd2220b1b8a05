// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Gantry's standard CBOR encoding configuration.
//
// Gantry uses two serialization formats with a clear boundary:
//
//   - JSON for authored and external surfaces: component manifests
//     (JSONC), route tables, workspace config, and CLI --json output.
//   - CBOR for compiled outputs: manifest bundles, build-plan records,
//     and vet-cache entries.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every Gantry package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes. Determinism is load-bearing, not cosmetic: bundle and plan
// digests are computed over the encoded bytes, so two machines
// compiling the same inputs must produce byte-identical output or
// digest comparison is worthless.
//
// For buffer-oriented operations (bundles, cache entries):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (bundle files read incrementally):
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR. It will
//     never be marshaled to JSON or interact with CLI tooling.
//     Examples: bundle section framing, vet-cache records.
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats. Examples: manifest documents
//     (authored as JSONC, compiled into CBOR bundles), route tables,
//     and types used in CLI --json output.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract, and doubling up obscures whether a
// type participates in JSON serialization.
package codec
