// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the BLAKE3 content digests that identify
// Gantry's inputs and outputs: source files feed the vet cache,
// compiled manifest bundles carry their payload digest in the frame,
// and build plans are identified by a Merkle root over their target
// records. All digests are keyed BLAKE3 with per-context domain keys,
// so bytes hashed as a source file can never collide with the same
// bytes hashed as a bundle payload.
package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest. All Gantry digests (source,
// bundle, target, plan) are this size.
type Digest [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures that the same input bytes produce different
// digests in different contexts, preventing cross-domain collisions.
type domainKey [32]byte

// Domain separation keys. These are fixed constants — changing them
// invalidates every existing digest in that domain, including all
// vet-cache entries and recorded bundle digests. The byte values are
// the ASCII encoding of the domain name, zero-padded to 32 bytes.
// Using readable ASCII makes the keys inspectable in hex dumps and
// debuggers without sacrificing any cryptographic property (BLAKE3
// keyed mode treats the key as an opaque 32-byte value).
var (
	sourceDomainKey = domainKey{
		'g', 'a', 'n', 't', 'r', 'y', '.', 's', 'o', 'u', 'r', 'c', 'e',
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	bundleDomainKey = domainKey{
		'g', 'a', 'n', 't', 'r', 'y', '.', 'b', 'u', 'n', 'd', 'l', 'e',
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	targetDomainKey = domainKey{
		'g', 'a', 'n', 't', 'r', 'y', '.', 't', 'a', 'r', 'g', 'e', 't',
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	planDomainKey = domainKey{
		'g', 'a', 'n', 't', 'r', 'y', '.', 'p', 'l', 'a', 'n',
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// HashSource computes the source-domain digest of raw file bytes.
// This is the digest the vet cache keys on, always computed over the
// bytes as stored, before any parsing or formatting.
func HashSource(data []byte) Digest {
	return keyedHash(sourceDomainKey, data)
}

// HashBundle computes the bundle-domain digest of a compiled manifest
// bundle payload. The digest covers the uncompressed CBOR bytes so it
// is stable across compression algorithm changes.
func HashBundle(data []byte) Digest {
	return keyedHash(bundleDomainKey, data)
}

// HashTarget computes the target-domain digest of one encoded target
// record. Plan digests are Merkle roots over these.
func HashTarget(data []byte) Digest {
	return keyedHash(targetDomainKey, data)
}

// PlanRoot computes the plan digest for an ordered list of target
// digests: the Merkle root over the targets, wrapped in the plan
// domain. The order is significant, so callers pass targets in plan
// order and identical plans produce identical digests.
//
// Panics if targets is empty; an empty plan has no digest.
func PlanRoot(targets []Digest) Digest {
	root := merkleRoot(targetDomainKey, targets)
	return keyedHash(planDomainKey, root[:])
}

// merkleRoot computes a binary Merkle tree over the given digests and
// returns the root. The tree is constructed bottom-up: adjacent pairs
// are concatenated and hashed with the domain key. If a level has an
// odd number of nodes, the last node is promoted to the next level
// without hashing (it is NOT duplicated — duplicating would mean two
// different inputs produce the same root when one is a prefix of the
// other).
//
// Panics if digests is empty.
func merkleRoot(key domainKey, digests []Digest) Digest {
	if len(digests) == 0 {
		panic("digest.merkleRoot: empty digest list")
	}
	if len(digests) == 1 {
		return digests[0]
	}

	// One keyed hasher reused via Reset() for every pair. Allocating a
	// hasher per pair is the dominant cost for large trees; Reset()
	// preserves the key and returns the hasher to its initial state.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var combined [64]byte

	hashPairWith := func(left, right Digest) Digest {
		copy(combined[:32], left[:])
		copy(combined[32:], right[:])
		hasher.Reset()
		hasher.Write(combined[:])
		var result Digest
		copy(result[:], hasher.Sum(nil))
		return result
	}

	// Work on a copy to avoid mutating the caller's slice.
	level := make([]Digest, len(digests))
	copy(level, digests)

	for len(level) > 1 {
		nextLength := (len(level) + 1) / 2
		next := make([]Digest, nextLength)

		for i := 0; i < len(level)-1; i += 2 {
			next[i/2] = hashPairWith(level[i], level[i+1])
		}

		// Odd node: promote without hashing.
		if len(level)%2 == 1 {
			next[nextLength-1] = level[len(level)-1]
		}

		level = next
	}

	return level[0]
}

// keyedHash computes the BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Digest {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	// The error is only returned for wrong key length, so this cannot
	// fail with our fixed-size type.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var result Digest
	copy(result[:], hasher.Sum(nil))
	return result
}

// hashPair concatenates two digests and computes a keyed hash of the
// result. Mirrors one Merkle tree step; tests use it to verify tree
// shape.
func hashPair(key domainKey, left, right Digest) Digest {
	var combined [64]byte
	copy(combined[:32], left[:])
	copy(combined[32:], right[:])
	return keyedHash(key, combined[:])
}

// String returns the 64-character hex encoding. This is the canonical
// form used in bundle frames, cache keys, logs, and CLI output.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the "gd-" prefixed short reference: the first 12 hex
// characters of the digest. Short references appear in human-facing
// output (plan summaries, vet-cache stats) where 64 characters would
// drown the table.
func (d Digest) Short() string {
	return "gd-" + hex.EncodeToString(d[:6])
}

// IsZero reports whether d is the all-zero digest. The zero digest is
// never a valid content digest and marks an absent value.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// MarshalText encodes the digest as hex for JSON and CBOR.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a 64-character hex digest.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != 32 {
		return d, fmt.Errorf("digest is %d bytes, want 32", len(decoded))
	}
	copy(d[:], decoded)
	return d, nil
}
