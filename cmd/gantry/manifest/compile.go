// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/digest"
)

// compileParams holds the parameters for manifest compile.
type compileParams struct {
	cli.WorkspaceConfig
	cli.JSONOutput
	Out string `flag:"out,o" desc:"output bundle path (default: input with .bundle extension)"`
}

// compileResult is the JSON output for manifest compile.
type compileResult struct {
	Path      string        `json:"path"`
	SizeBytes int           `json:"size_bytes"`
	Digest    digest.Digest `json:"digest"`
}

func compileCommand() *cli.Command {
	var params compileParams

	return &cli.Command{
		Name:    "compile",
		Summary: "Compile a manifest to a bundle",
		Description: `Merge a manifest's include chain, validate the result, and compile
it to a content-addressed binary bundle.

The bundle payload is the deterministic encoding of the semantic
document: two manifests that differ only in authoring artifacts
(comments, key order, spelled-out defaults) compile to the same
digest. Validation issues print like vet and exit 2; nothing is
written unless the document is clean.`,
		Usage: "gantry manifest compile <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Compile next to the source",
				Command:     "gantry manifest compile manifests/audio.gantry",
			},
			{
				Description: "Compile into the build output tree",
				Command:     "gantry manifest compile manifests/audio.gantry --out out/audio.bundle",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one manifest file is required")
			}
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}

			doc, err := mergeManifest(cfg, args[0])
			if err != nil {
				return err
			}

			issues := doc.Validate()
			for index, issue := range issues {
				issues[index] = fmt.Sprintf("%s: %s", args[0], issue)
			}
			if err := cli.ReportIssues(issues); err != nil {
				return err
			}

			encoded, dig, err := doc.Compile()
			if err != nil {
				return err
			}

			outPath := params.Out
			if outPath == "" {
				base := args[0]
				base = strings.TrimSuffix(base, filepath.Ext(base))
				outPath = base + ".bundle"
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
				return err
			}

			if done, err := params.EmitJSON(compileResult{
				Path:      outPath,
				SizeBytes: len(encoded),
				Digest:    dig,
			}); done {
				return err
			}
			fmt.Printf("wrote %s (%d bytes, %s)\n", outPath, len(encoded), dig.Short())
			return nil
		},
	}
}
