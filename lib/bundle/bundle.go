// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundle reads and writes compiled manifest bundles: the
// binary form a merged component manifest is distributed in. A bundle
// is a 4-byte magic ("gmb1") followed by a deterministic CBOR frame
// carrying the compression tag, the uncompressed payload size, the
// payload digest, and the compressed payload itself.
//
// The digest always covers the uncompressed payload, so the same
// logical manifest has the same digest regardless of which algorithm
// won the compression probe. Decode verifies the digest and the size
// before returning bytes, so a caller holding a decoded payload holds
// exactly what was encoded.
package bundle

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gantry-build/gantry/lib/codec"
	"github.com/gantry-build/gantry/lib/digest"
)

// Magic identifies a bundle file. The trailing '1' is the format
// generation, bumped together with FrameVersion on breaking changes.
var Magic = [4]byte{'g', 'm', 'b', '1'}

// FrameVersion is the current frame layout version.
const FrameVersion = 1

var (
	// ErrNotBundle is returned when the input does not start with the
	// bundle magic.
	ErrNotBundle = errors.New("not a manifest bundle")

	// ErrDigestMismatch is returned when the decompressed payload does
	// not hash to the digest recorded in the frame.
	ErrDigestMismatch = errors.New("bundle digest mismatch")
)

// frame is the CBOR structure following the magic. Purely internal:
// bundles are written and read only through Encode and Decode.
type frame struct {
	Version     uint8         `cbor:"version"`
	Compression Compression   `cbor:"compression"`
	PayloadSize uint64        `cbor:"payload_size"`
	Digest      digest.Digest `cbor:"digest"`
	Payload     []byte        `cbor:"payload"`
}

// Info describes a bundle frame without exposing the payload. CLI
// listings print this.
type Info struct {
	Version        int           `json:"version"`
	Compression    string        `json:"compression"`
	PayloadSize    int           `json:"payload_size"`
	CompressedSize int           `json:"compressed_size"`
	Digest         digest.Digest `json:"digest"`
}

// Encode wraps payload in a bundle using the probed best compression.
// Returns the bundle bytes and the payload digest recorded in it.
func Encode(payload []byte) ([]byte, digest.Digest, error) {
	compressed, compression, err := CompressAuto(payload)
	if err != nil {
		return nil, digest.Digest{}, err
	}
	return encodeFrame(payload, compressed, compression)
}

// EncodeWith wraps payload using an explicitly chosen algorithm,
// falling back to CompressionNone when the payload is incompressible
// under it.
func EncodeWith(payload []byte, compression Compression) ([]byte, digest.Digest, error) {
	compressed, err := Compress(payload, compression)
	if err != nil {
		if !IsIncompressible(err) {
			return nil, digest.Digest{}, err
		}
		compressed, compression = payload, CompressionNone
	}
	return encodeFrame(payload, compressed, compression)
}

func encodeFrame(payload, compressed []byte, compression Compression) ([]byte, digest.Digest, error) {
	payloadDigest := digest.HashBundle(payload)

	encoded, err := codec.Marshal(frame{
		Version:     FrameVersion,
		Compression: compression,
		PayloadSize: uint64(len(payload)),
		Digest:      payloadDigest,
		Payload:     compressed,
	})
	if err != nil {
		return nil, digest.Digest{}, fmt.Errorf("encoding bundle frame: %w", err)
	}

	out := make([]byte, 0, len(Magic)+len(encoded))
	out = append(out, Magic[:]...)
	out = append(out, encoded...)
	return out, payloadDigest, nil
}

// Decode unwraps a bundle and returns the verified payload and its
// digest. The payload is decompressed, size-checked against the
// frame, and hashed; any disagreement is an error, not a warning.
func Decode(data []byte) ([]byte, digest.Digest, error) {
	f, err := decodeFrame(data)
	if err != nil {
		return nil, digest.Digest{}, err
	}

	payload, err := Decompress(f.Payload, f.Compression, int(f.PayloadSize))
	if err != nil {
		return nil, digest.Digest{}, fmt.Errorf("decoding bundle payload: %w", err)
	}

	actual := digest.HashBundle(payload)
	if actual != f.Digest {
		return nil, digest.Digest{}, fmt.Errorf("%w: frame says %s, payload hashes to %s",
			ErrDigestMismatch, f.Digest.Short(), actual.Short())
	}
	return payload, actual, nil
}

// Stat returns the frame metadata without verifying the payload.
// Sizes and the digest are as recorded; use Decode when the payload
// itself is needed.
func Stat(data []byte) (Info, error) {
	f, err := decodeFrame(data)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Version:        int(f.Version),
		Compression:    f.Compression.String(),
		PayloadSize:    int(f.PayloadSize),
		CompressedSize: len(f.Payload),
		Digest:         f.Digest,
	}, nil
}

func decodeFrame(data []byte) (frame, error) {
	if len(data) < len(Magic) || !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return frame{}, ErrNotBundle
	}

	var f frame
	if err := codec.Unmarshal(data[len(Magic):], &f); err != nil {
		return frame{}, fmt.Errorf("decoding bundle frame: %w", err)
	}
	if f.Version != FrameVersion {
		return frame{}, fmt.Errorf("unsupported bundle version %d (this tool reads version %d)",
			f.Version, FrameVersion)
	}
	return f, nil
}
