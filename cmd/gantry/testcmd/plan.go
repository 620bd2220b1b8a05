// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package testcmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	manifestcli "github.com/gantry-build/gantry/cmd/gantry/manifest"
	"github.com/gantry-build/gantry/lib/launchplan"
	libmanifest "github.com/gantry-build/gantry/lib/manifest"
)

// planParams holds the parameters for test plan.
type planParams struct {
	cli.WorkspaceConfig
	URL         string   `flag:"url" desc:"component URL to launch"`
	Manifest    string   `flag:"manifest,m" desc:"component manifest (source or compiled bundle) for capability checks"`
	Realm       string   `flag:"realm" desc:"realm to launch into (default: the workspace test realm)"`
	Runner      string   `flag:"runner" desc:"runner binary the argv targets (default: the workspace test runner)"`
	Filters     []string `flag:"filter,f" desc:"test filter pattern, '-' prefix negates (repeatable)"`
	FilterFile  string   `flag:"filter-file" desc:"file of filter patterns, one per line"`
	Repeat      int      `flag:"repeat" desc:"repeat every selected test this many times"`
	Artifacts   bool     `flag:"artifacts" desc:"collect custom artifacts from the component"`
	ArtifactDir string   `flag:"artifact-dir" desc:"artifact output directory (default: under the workspace artifact root)"`
	Coverage    bool     `flag:"coverage" desc:"collect coverage profiles"`
	CoverageDir string   `flag:"coverage-dir" desc:"coverage output directory (default: under the workspace coverage root)"`
}

func planCommand() *cli.Command {
	var params planParams

	return &cli.Command{
		Name:    "plan",
		Summary: "Compute a test launch plan",
		Description: `Compute the launch plan for one packaged component test and print
it as JSON.

The plan carries the runner argv (including the assembled filter
expression and repeat arguments), the artifact and coverage
directories, and the environment the runner must set. Artifact
collection requires the component manifest to use the
custom_artifacts storage; coverage requires the profile-publisher
protocol — pass --manifest so the plan can check.

Arguments after "--" pass to the component verbatim.`,
		Usage: "gantry test plan --url <component-url> [flags] [-- <component args...>]",
		Examples: []cli.Example{
			{
				Description: "Plan a filtered run",
				Command:     "gantry test plan --url gantry-pkg://media/audio-tests#meta/audio_tests.gantry --filter 'Mixer.*' --filter '-Mixer.Slow'",
			},
			{
				Description: "Stress a flaky suite",
				Command:     "gantry test plan --url gantry-pkg://media/audio-tests#meta/audio_tests.gantry --repeat 100 -- --verbose",
			},
			{
				Description: "Collect artifacts and coverage",
				Command:     "gantry test plan --url gantry-pkg://media/audio-tests#meta/audio_tests.gantry --manifest out/audio_tests.bundle --artifacts --coverage",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if params.URL == "" {
				return fmt.Errorf("--url is required")
			}
			cfg, err := params.WorkspaceConfig.Load()
			if err != nil {
				return err
			}

			var doc *libmanifest.Document
			if params.Manifest != "" {
				doc, err = manifestcli.LoadDocument(cfg, params.Manifest)
				if err != nil {
					return err
				}
			}

			filters := params.Filters
			if params.FilterFile != "" {
				filePatterns, err := launchplan.LoadFilterFile(params.FilterFile)
				if err != nil {
					return err
				}
				filters = append(filters, filePatterns...)
			}

			options := launchplan.Options{
				ComponentURL: params.URL,
				Realm:        params.Realm,
				Runner:       params.Runner,
				Filters:      filters,
				Repeat:       params.Repeat,
				ExtraArgs:    args,
				Artifacts:    params.Artifacts,
				Coverage:     params.Coverage,
			}
			if options.Realm == "" {
				options.Realm = cfg.Test.Realm
			}
			if options.Runner == "" {
				options.Runner = cfg.Test.Runner
			}
			if options.Artifacts {
				options.ArtifactDir = params.ArtifactDir
				if options.ArtifactDir == "" {
					options.ArtifactDir = filepath.Join(cfg.Resolve(cfg.Test.ArtifactRoot), componentName(params.URL))
				}
			}
			if options.Coverage {
				options.CoverageDir = params.CoverageDir
				if options.CoverageDir == "" {
					options.CoverageDir = filepath.Join(cfg.Resolve(cfg.Test.CoverageRoot), componentName(params.URL))
				}
			}

			plan, err := launchplan.Compute(doc, options)
			if err != nil {
				return err
			}
			return cli.WriteJSON(plan)
		},
	}
}

// componentName derives a directory-friendly name from a component
// URL: the fragment's basename without the meta/ prefix or manifest
// extension, falling back to the package path's basename.
func componentName(url string) string {
	name := url
	if _, fragment, ok := strings.Cut(url, "#"); ok {
		name = fragment
	}
	name = strings.TrimPrefix(name, "meta/")
	name = path.Base(name)
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "component"
	}
	return name
}
