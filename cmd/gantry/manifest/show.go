// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/bundle"
	"github.com/gantry-build/gantry/lib/digest"
	libmanifest "github.com/gantry-build/gantry/lib/manifest"
)

// showParams holds the parameters for manifest show. No workspace
// configuration: show reads exactly the file it is given.
type showParams struct {
	Stat bool `flag:"stat" desc:"print bundle frame details instead of the document"`
}

// bundleStat is the --stat output: the frame info plus the file.
type bundleStat struct {
	Path           string        `json:"path"`
	Version        int           `json:"version"`
	Compression    string        `json:"compression"`
	PayloadSize    int           `json:"payload_size"`
	CompressedSize int           `json:"compressed_size"`
	Digest         digest.Digest `json:"digest"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print a manifest or compiled bundle",
		Description: `Print a manifest document in canonical form.

Source manifests print their parsed form; compiled bundles decode,
verify their content digest, and print the document they carry. The
input kind is detected from the file content, so build scripts can
point show at either.

--stat prints the bundle frame instead: format version, compression,
payload and compressed sizes, and the content digest.`,
		Usage: "gantry manifest show <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Inspect what a bundle contains",
				Command:     "gantry manifest show out/audio.bundle",
			},
			{
				Description: "Check how well a bundle compressed",
				Command:     "gantry manifest show out/audio.bundle --stat",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one file is required")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if params.Stat {
				info, err := bundle.Stat(data)
				if err != nil {
					return fmt.Errorf("%s is not a bundle: %w", args[0], err)
				}
				return cli.WriteJSON(bundleStat{
					Path:           args[0],
					Version:        info.Version,
					Compression:    info.Compression,
					PayloadSize:    info.PayloadSize,
					CompressedSize: info.CompressedSize,
					Digest:         info.Digest,
				})
			}

			doc, err := parseAny(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			formatted, err := doc.Serialize()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(formatted)
			return err
		},
	}
}

// parseAny decodes either input form: the bundle magic selects bundle
// decoding (with digest verification), anything else parses as a
// source manifest. Unlike [LoadDocument] this never merges includes —
// show displays the document as written.
func parseAny(data []byte) (*libmanifest.Document, error) {
	if isBundle(data) {
		doc, _, err := libmanifest.DecodeBundle(data)
		return doc, err
	}
	return libmanifest.Parse(data)
}
