// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package launchplan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gantry-build/gantry/lib/manifest"
)

const (
	// DefaultRunner is the external runner binary used when Options
	// leaves Runner empty.
	DefaultRunner = "gantry-run"

	// ArtifactStorageName and ArtifactStoragePath identify the storage
	// capability a component must use before the runner can collect
	// artifacts from it.
	ArtifactStorageName = "custom_artifacts"
	ArtifactStoragePath = "/custom_artifacts"

	// CoverageProtocol is the protocol capability a component must use
	// before profile data can be collected.
	CoverageProtocol = "debugdata.Publisher"

	// CoverageProfileDir is the component-relative directory where
	// instrumented binaries write raw profiles.
	CoverageProfileDir = "llvm-profile"

	// SummaryFile is the result summary the test launcher writes into
	// artifact storage.
	SummaryFile = "test_summary.json"
)

// Options selects what the computed plan should do. ComponentURL and
// Realm are required; everything else is optional.
type Options struct {
	// ComponentURL is the packaged component to launch.
	ComponentURL string

	// Realm is the collection the component runs in. Commands default
	// this from workspace configuration.
	Realm string

	// Runner overrides the external runner binary. Empty means
	// [DefaultRunner].
	Runner string

	// Filters are test filter patterns. A "-" prefix negates. Patterns
	// from filter files (see [LoadFilterFile]) are appended here by the
	// caller before Compute.
	Filters []string

	// Repeat > 1 repeats every selected test and disables the launcher
	// timeout, since N repetitions of a slow suite would otherwise trip
	// it.
	Repeat int

	// ExtraArgs are appended to the component arguments verbatim.
	ExtraArgs []string

	// Artifacts enables artifact collection into ArtifactDir. Requires
	// the manifest to use the custom_artifacts storage.
	Artifacts   bool
	ArtifactDir string

	// Coverage enables profile collection into CoverageDir. Requires
	// the manifest to use the debugdata.Publisher protocol.
	Coverage    bool
	CoverageDir string
}

// EnvEntry is one environment variable the runner must set for the
// component.
type EnvEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Plan is a computed launch plan. It serializes to JSON for review and
// for handoff to the runner wrapper.
type Plan struct {
	ComponentURL string     `json:"component_url"`
	Realm        string     `json:"realm"`
	Runner       string     `json:"runner"`
	Argv         []string   `json:"argv"`
	ArtifactDir  string     `json:"artifact_dir,omitempty"`
	CoverageDir  string     `json:"coverage_dir,omitempty"`
	Filters      []string   `json:"filters,omitempty"`
	Env          []EnvEntry `json:"env,omitempty"`
}

// Compute builds the launch plan for one component. doc is the
// component's merged capability manifest; it may be nil when neither
// artifact nor coverage collection is requested, since those are the
// only checks that consult it.
func Compute(doc *manifest.Document, options Options) (*Plan, error) {
	if options.ComponentURL == "" {
		return nil, fmt.Errorf("component URL is required")
	}
	if options.Realm == "" {
		return nil, fmt.Errorf("realm is required")
	}
	if options.Repeat < 0 {
		return nil, fmt.Errorf("repeat count must not be negative, got %d", options.Repeat)
	}
	for _, pattern := range options.Filters {
		trimmed := strings.TrimPrefix(pattern, "-")
		if trimmed == "" {
			return nil, fmt.Errorf("empty filter pattern %q", pattern)
		}
		if strings.Contains(trimmed, ":") {
			return nil, fmt.Errorf("filter pattern %q must not contain ':'", pattern)
		}
	}

	if options.Artifacts {
		if options.ArtifactDir == "" {
			return nil, fmt.Errorf("artifact collection requires an artifact directory")
		}
		if doc == nil {
			return nil, fmt.Errorf("artifact collection requires the component manifest")
		}
		if !usesStorage(doc, ArtifactStorageName, ArtifactStoragePath) {
			return nil, fmt.Errorf("artifact collection requires the manifest to use storage %q at %s",
				ArtifactStorageName, ArtifactStoragePath)
		}
	}
	if options.Coverage {
		if options.CoverageDir == "" {
			return nil, fmt.Errorf("coverage collection requires a coverage directory")
		}
		if doc == nil {
			return nil, fmt.Errorf("coverage collection requires the component manifest")
		}
		if !usesProtocol(doc, CoverageProtocol) {
			return nil, fmt.Errorf("coverage collection requires the manifest to use protocol %q",
				CoverageProtocol)
		}
	}

	runner := options.Runner
	if runner == "" {
		runner = DefaultRunner
	}

	argv := []string{"test", "run", options.ComponentURL, "--realm", options.Realm}
	if options.Artifacts {
		argv = append(argv, "--output-directory", options.ArtifactDir)
	}

	var childArgs []string
	if filter := GTestFilter(options.Filters); filter != "" {
		childArgs = append(childArgs, "--gtest_filter="+filter)
	}
	if options.Repeat > 1 {
		childArgs = append(childArgs, "--gtest_repeat="+strconv.Itoa(options.Repeat))
		childArgs = append(childArgs, "--test-launcher-timeout=-1")
	}
	childArgs = append(childArgs, options.ExtraArgs...)
	if options.Artifacts {
		childArgs = append(childArgs, "--test-launcher-summary-output="+ArtifactStoragePath+"/"+SummaryFile)
	}
	if len(childArgs) > 0 {
		argv = append(argv, "--")
		argv = append(argv, childArgs...)
	}

	plan := &Plan{
		ComponentURL: options.ComponentURL,
		Realm:        options.Realm,
		Runner:       runner,
		Argv:         argv,
		Filters:      options.Filters,
	}
	if options.Artifacts {
		plan.ArtifactDir = options.ArtifactDir
	}
	if options.Coverage {
		plan.CoverageDir = options.CoverageDir
		plan.Env = append(plan.Env, EnvEntry{
			Name:  "LLVM_PROFILE_FILE",
			Value: CoverageProfileDir + "/%m.profraw",
		})
	}
	return plan, nil
}

// usesStorage reports whether the manifest uses the named storage
// capability mounted at the given path.
func usesStorage(doc *manifest.Document, name, path string) bool {
	for _, entry := range doc.Use {
		if entry.Kind != manifest.KindStorage {
			continue
		}
		for _, entryName := range entry.Names {
			if entryName == name && entry.Path == path {
				return true
			}
		}
	}
	return false
}

// usesProtocol reports whether the manifest uses the named protocol.
func usesProtocol(doc *manifest.Document, name string) bool {
	for _, entry := range doc.Use {
		if entry.Kind != manifest.KindProtocol {
			continue
		}
		for _, entryName := range entry.Names {
			if entryName == name {
				return true
			}
		}
	}
	return false
}
