// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package testcmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gantry-build/gantry/lib/testutil"
)

const testURL = "gantry-pkg://tests/net#meta/net_tests.gantry"

// collectingManifest uses both capabilities the collection modes
// require.
const collectingManifest = `{
	"program": {
		"binary": "bin/net_tests",
	},
	"use": [
		{ "storage": "custom_artifacts", "path": "/custom_artifacts" },
		{ "protocol": "debugdata.Publisher" },
	],
}
`

// planWorkspace writes a minimal workspace plus the given files and
// returns the workspace dir and config path.
func planWorkspace(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, files)
	configPath := filepath.Join(dir, "gantry.yaml")
	if err := os.WriteFile(configPath, []byte("environment: local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, configPath
}

func TestComponentName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"gantry-pkg://tests/net#meta/net_tests.gantry", "net_tests"},
		{"gantry-pkg://tests/net#net_tests.gantry", "net_tests"},
		{"gantry-pkg://tests/net_unittests", "net_unittests"},
		{"#meta/mixer.bundle", "mixer"},
		{"", "component"},
	}
	for _, test := range tests {
		if got := componentName(test.url); got != test.want {
			t.Errorf("componentName(%q) = %q, want %q", test.url, got, test.want)
		}
	}
}

func TestPlanCommandMinimal(t *testing.T) {
	t.Parallel()

	_, configPath := planWorkspace(t, nil)

	// The command writes the plan JSON to stdout; we verify it
	// doesn't error.
	err := planCommand().Execute([]string{"--config", configPath, "--url", testURL})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
}

func TestPlanCommandRequiresURL(t *testing.T) {
	t.Parallel()

	_, configPath := planWorkspace(t, nil)

	err := planCommand().Execute([]string{"--config", configPath})
	if err == nil || !strings.Contains(err.Error(), "--url is required") {
		t.Fatalf("err = %v, want missing-url error", err)
	}
}

func TestPlanCommandCollectionModes(t *testing.T) {
	t.Parallel()

	_, configPath := planWorkspace(t, map[string]string{
		"manifests/net_tests.gantry": collectingManifest,
	})
	manifestPath := filepath.Join(filepath.Dir(configPath), "manifests", "net_tests.gantry")

	err := planCommand().Execute([]string{
		"--config", configPath,
		"--url", testURL,
		"--manifest", manifestPath,
		"--artifacts", "--coverage",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
}

func TestPlanCommandRefusesArtifactsWithoutStorage(t *testing.T) {
	t.Parallel()

	_, configPath := planWorkspace(t, map[string]string{
		"manifests/bare.gantry": "{ \"program\": { \"binary\": \"bin/t\" } }\n",
	})
	manifestPath := filepath.Join(filepath.Dir(configPath), "manifests", "bare.gantry")

	err := planCommand().Execute([]string{
		"--config", configPath,
		"--url", testURL,
		"--manifest", manifestPath,
		"--artifacts",
	})
	if err == nil || !strings.Contains(err.Error(), "custom_artifacts") {
		t.Fatalf("err = %v, want a storage-capability error", err)
	}
}

func TestPlanCommandFilterFile(t *testing.T) {
	t.Parallel()

	dir, configPath := planWorkspace(t, map[string]string{
		"filters.txt": "# slow tests excluded\nNet.*\n-Net.Slow\n",
	})

	err := planCommand().Execute([]string{
		"--config", configPath,
		"--url", testURL,
		"--filter-file", filepath.Join(dir, "filters.txt"),
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
}

func TestPlanCommandExtraArgs(t *testing.T) {
	t.Parallel()

	_, configPath := planWorkspace(t, nil)

	err := planCommand().Execute([]string{
		"--config", configPath,
		"--url", testURL,
		"--", "--gtest_shuffle",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
}
