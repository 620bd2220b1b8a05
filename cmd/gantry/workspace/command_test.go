// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gantry-build/gantry/lib/config"
)

// TestTemplateMatchesDefaults pins the starter file to the built-in
// defaults: loading an unedited template must change nothing.
func TestTemplateMatchesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gantry.yaml")
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("template does not validate: %v", err)
	}

	defaults := config.Default()
	if cfg.Environment != defaults.Environment {
		t.Errorf("Environment = %q, want %q", cfg.Environment, defaults.Environment)
	}
	if !reflect.DeepEqual(cfg.Paths, defaults.Paths) {
		t.Errorf("Paths = %+v, want %+v", cfg.Paths, defaults.Paths)
	}
	if cfg.Test != defaults.Test {
		t.Errorf("Test = %+v, want %+v", cfg.Test, defaults.Test)
	}
	if cfg.Vet != defaults.Vet {
		t.Errorf("Vet = %+v, want %+v", cfg.Vet, defaults.Vet)
	}
	if cfg.Credential.Store != defaults.Credential.Store {
		t.Errorf("Credential.Store = %q, want %q", cfg.Credential.Store, defaults.Credential.Store)
	}
	if len(cfg.Credential.Recipients) != 0 {
		t.Errorf("Recipients = %v, want none", cfg.Credential.Recipients)
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := initCommand().Execute([]string{dir}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "gantry.yaml")); err != nil {
		t.Fatalf("no configuration written: %v", err)
	}
	for _, created := range []string{"out", "out/gen", "out/test-artifacts", "out/coverage", ".gantry/credentials"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(created))); err != nil {
			t.Errorf("missing %s: %v", created, err)
		}
	}

	// A second init must refuse unless forced.
	err := initCommand().Execute([]string{dir})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("err = %v, want an already-exists error", err)
	}
	if err := initCommand().Execute([]string{"--force", dir}); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
}

func TestInfoCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := initCommand().Execute([]string{dir}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	configPath := filepath.Join(dir, "gantry.yaml")

	// The command writes to stdout; we verify it doesn't error in
	// either output mode.
	if err := infoCommand().Execute([]string{"--config", configPath}); err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if err := infoCommand().Execute([]string{"--config", configPath, "--json"}); err != nil {
		t.Fatalf("info --json failed: %v", err)
	}
}
