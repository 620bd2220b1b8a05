// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	libmanifest "github.com/gantry-build/gantry/lib/manifest"
)

// vetParams holds the parameters for manifest vet.
type vetParams struct {
	cli.WorkspaceConfig
	cli.JSONOutput
	NoCache bool `flag:"no-cache" desc:"recheck every file, bypassing the vet result cache"`
}

// vetResult is the JSON output for manifest vet.
type vetResult struct {
	Checked int      `json:"checked"`
	Cached  int      `json:"cached"`
	Issues  []string `json:"issues"`
}

func vetCommand() *cli.Command {
	var params vetParams

	return &cli.Command{
		Name:    "vet",
		Summary: "Check manifest files",
		Description: `Parse and validate each manifest file independently.

Reported issues: malformed JSONC, unknown keys or entry fields,
unresolved child references, invalid directory rights, missing or
relative paths, duplicate use paths, duplicate child names, and
malformed child URLs. Includes are not resolved; run vet on fragment
files directly.

Checks the given files; without arguments, every .gantry file under
the workspace manifest roots.

Results cache by content digest in the workspace vet database, so an
unchanged file rechecks for free. Exit code 2 when issues are found.`,
		Usage: "gantry manifest vet [files...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Check every manifest in the workspace",
				Command:     "gantry manifest vet",
			},
			{
				Description: "Force a full recheck of one file",
				Command:     "gantry manifest vet manifests/audio.gantry --no-cache",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files, err = cli.FindWorkspaceFiles(cfg, cfg.Paths.ManifestRoots, func(name string) bool {
					return strings.HasSuffix(name, ".gantry")
				})
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no manifest files found (pass files or configure manifest roots)")
			}

			ctx := context.Background()
			logger := cli.NewCommandLogger().With("command", "manifest/vet")
			cache := cli.OpenVetCache(ctx, cfg, params.NoCache, logger)
			defer cache.Close()

			var issues []string
			cached := 0
			for _, file := range files {
				source, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				fileIssues, hit, err := cache.Issues(ctx, "manifest", file, source, func() []string {
					return vetManifest(source)
				})
				if err != nil {
					return err
				}
				if hit {
					cached++
				}
				for _, issue := range fileIssues {
					issues = append(issues, fmt.Sprintf("%s: %s", file, issue))
				}
			}

			if done, err := params.EmitJSON(vetResult{Checked: len(files), Cached: cached, Issues: issues}); done {
				if err != nil {
					return err
				}
				if len(issues) > 0 {
					return &cli.ExitError{Code: 2}
				}
				return nil
			}
			return cli.ReportIssues(issues)
		},
	}
}

// vetManifest returns every issue in one manifest source: a parse
// failure is the single issue, otherwise the validation list. Issue
// strings carry no file name; the caller prefixes (and the cache
// stores them position-independent, so a renamed file still hits).
func vetManifest(source []byte) []string {
	doc, err := libmanifest.Parse(source)
	if err != nil {
		return []string{err.Error()}
	}
	return doc.Validate()
}
