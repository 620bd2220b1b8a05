// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package vetcache stores per-file vet results in a SQLite database so
// that repeated tree-wide vet runs skip files that have not changed.
//
// Results are keyed by (kind, digest): kind names the surface being
// vetted ("args", "manifest", "graph") and digest is the BLAKE3 hash
// of the file contents. A hit replays the recorded issue list without
// re-parsing the file; any edit changes the digest and misses. The
// file path stored alongside each entry is informational only — moving
// a file does not invalidate its result.
//
// Issue lists are stored as deterministic CBOR (lib/codec). The
// database uses WAL mode with a busy timeout and NORMAL synchronous
// level, so concurrent vet runs against the same cache are safe.
//
// [Cache.Issues] is the main entry point for callers: it computes the
// digest, checks the cache, and records the computed issues on a miss.
// A nil *Cache is valid and always computes, which is how --no-cache
// is implemented.
package vetcache
