// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the workspace configuration file [Discover] looks
// for.
const ConfigFileName = "gantry.yaml"

// Environment selects which override section applies.
type Environment string

const (
	// Local is for developer machines.
	Local Environment = "local"
	// CI is for continuous-integration runs.
	CI Environment = "ci"
)

// Config is the workspace configuration for gantry.
type Config struct {
	// Environment identifies the run environment (local, ci). The
	// GANTRY_ENV variable, when set, takes precedence over this field.
	Environment Environment `yaml:"environment"`

	// Paths configures workspace directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Test configures test launch plans.
	Test TestConfig `yaml:"test"`

	// Vet configures the vet result cache.
	Vet VetConfig `yaml:"vet"`

	// Credential configures sealed credential storage.
	Credential CredentialConfig `yaml:"credential"`

	// Per-environment overrides, applied after the base config loads.
	Local *ConfigOverrides `yaml:"local,omitempty"`
	CI    *ConfigOverrides `yaml:"ci,omitempty"`

	// Root is the directory holding the loaded config file. Relative
	// paths in the config resolve against it. Empty for Default().
	Root string `yaml:"-"`
}

// ConfigOverrides contains the sections an environment may override.
type ConfigOverrides struct {
	Paths      *PathsConfig      `yaml:"paths,omitempty"`
	Test       *TestConfig       `yaml:"test,omitempty"`
	Vet        *VetConfig        `yaml:"vet,omitempty"`
	Credential *CredentialConfig `yaml:"credential,omitempty"`
}

// PathsConfig configures workspace directory locations.
type PathsConfig struct {
	// Checkout is the source checkout root that //-prefixed fragment
	// and manifest paths resolve against.
	Checkout string `yaml:"checkout"`

	// Out is the build output root.
	Out string `yaml:"out"`

	// Gen is the generated-source root. Bindings generator output
	// lands under it, mirroring the fragment directory layout.
	Gen string `yaml:"gen"`

	// FragmentRoots are the directories scanned for build fragments
	// when a command is not given explicit files.
	FragmentRoots []string `yaml:"fragment_roots"`

	// ManifestRoots are the directories manifest includes resolve
	// against, tried in order.
	ManifestRoots []string `yaml:"manifest_roots"`
}

// TestConfig configures test launch plans.
type TestConfig struct {
	// Runner is the external runner binary the plan's argv targets.
	Runner string `yaml:"runner"`

	// Realm is the default realm tests launch into.
	Realm string `yaml:"realm"`

	// ArtifactRoot receives per-test custom artifact directories.
	ArtifactRoot string `yaml:"artifact_root"`

	// CoverageRoot receives per-test coverage output.
	CoverageRoot string `yaml:"coverage_root"`
}

// VetConfig configures the vet result cache.
type VetConfig struct {
	// CachePath is the SQLite database caching per-file vet results.
	CachePath string `yaml:"cache_path"`
}

// CredentialConfig configures sealed credential storage.
type CredentialConfig struct {
	// Recipients are age X25519 recipients credentials are sealed to.
	Recipients []string `yaml:"recipients"`

	// Store is the directory holding sealed credential files.
	Store string `yaml:"store"`
}

// Default returns the default configuration: everything rooted in the
// workspace, local environment. These defaults are the base the
// config file merges onto.
func Default() *Config {
	return &Config{
		Environment: Local,
		Paths: PathsConfig{
			Checkout:      ".",
			Out:           "out",
			Gen:           "out/gen",
			FragmentRoots: []string{"."},
			ManifestRoots: []string{"."},
		},
		Test: TestConfig{
			Runner:       "gantry-run",
			Realm:        "testing",
			ArtifactRoot: "out/test-artifacts",
			CoverageRoot: "out/coverage",
		},
		Vet: VetConfig{
			CachePath: "out/.gantry/vet.db",
		},
		Credential: CredentialConfig{
			Store: ".gantry/credentials",
		},
	}
}

// Load loads configuration from GANTRY_CONFIG when set, otherwise by
// walking up from the working directory looking for gantry.yaml.
func Load() (*Config, error) {
	if configPath := os.Getenv("GANTRY_CONFIG"); configPath != "" {
		return LoadFile(configPath)
	}
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	configPath, err := Discover(workingDir)
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// Discover walks up from dir looking for gantry.yaml and returns its
// path.
func Discover(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(current, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no %s found (searched from %s upward); "+
				"run gantry workspace init or set GANTRY_CONFIG", ConfigFileName, dir)
		}
		current = parent
	}
}

// LoadFile loads configuration from a specific file path.
//
// The file is the single source of truth. Environment variables do
// not override values; GANTRY_ENV only selects which override section
// applies, and ${VAR} expansion in path fields is the one place the
// environment is read.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Root = filepath.Dir(absPath)

	if err := cfg.selectEnvironment(); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	// Unknown keys are errors: a typo'd section must not silently
	// configure nothing.
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// selectEnvironment resolves the active environment: GANTRY_ENV wins
// over the file's environment field.
func (c *Config) selectEnvironment() error {
	if env := os.Getenv("GANTRY_ENV"); env != "" {
		switch Environment(env) {
		case Local, CI:
			c.Environment = Environment(env)
		default:
			return fmt.Errorf("GANTRY_ENV %q is not one of local, ci", env)
		}
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides
	switch c.Environment {
	case Local:
		overrides = c.Local
	case CI:
		overrides = c.CI
	}
	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Checkout != "" {
			c.Paths.Checkout = overrides.Paths.Checkout
		}
		if overrides.Paths.Out != "" {
			c.Paths.Out = overrides.Paths.Out
		}
		if overrides.Paths.Gen != "" {
			c.Paths.Gen = overrides.Paths.Gen
		}
		if overrides.Paths.FragmentRoots != nil {
			c.Paths.FragmentRoots = overrides.Paths.FragmentRoots
		}
		if overrides.Paths.ManifestRoots != nil {
			c.Paths.ManifestRoots = overrides.Paths.ManifestRoots
		}
	}

	if overrides.Test != nil {
		if overrides.Test.Runner != "" {
			c.Test.Runner = overrides.Test.Runner
		}
		if overrides.Test.Realm != "" {
			c.Test.Realm = overrides.Test.Realm
		}
		if overrides.Test.ArtifactRoot != "" {
			c.Test.ArtifactRoot = overrides.Test.ArtifactRoot
		}
		if overrides.Test.CoverageRoot != "" {
			c.Test.CoverageRoot = overrides.Test.CoverageRoot
		}
	}

	if overrides.Vet != nil {
		if overrides.Vet.CachePath != "" {
			c.Vet.CachePath = overrides.Vet.CachePath
		}
	}

	if overrides.Credential != nil {
		if overrides.Credential.Recipients != nil {
			c.Credential.Recipients = overrides.Credential.Recipients
		}
		if overrides.Credential.Store != "" {
			c.Credential.Store = overrides.Credential.Store
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields. Checkout and Out expand first so later fields can reference
// them as ${GANTRY_CHECKOUT} and ${GANTRY_OUT}.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Checkout = expandVars(c.Paths.Checkout, vars)
	vars["GANTRY_CHECKOUT"] = c.Paths.Checkout
	c.Paths.Out = expandVars(c.Paths.Out, vars)
	vars["GANTRY_OUT"] = c.Paths.Out

	c.Paths.Gen = expandVars(c.Paths.Gen, vars)
	for i, root := range c.Paths.FragmentRoots {
		c.Paths.FragmentRoots[i] = expandVars(root, vars)
	}
	for i, root := range c.Paths.ManifestRoots {
		c.Paths.ManifestRoots[i] = expandVars(root, vars)
	}
	c.Test.ArtifactRoot = expandVars(c.Test.ArtifactRoot, vars)
	c.Test.CoverageRoot = expandVars(c.Test.CoverageRoot, vars)
	c.Vet.CachePath = expandVars(c.Vet.CachePath, vars)
	c.Credential.Store = expandVars(c.Credential.Store, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Local && c.Environment != CI {
		errs = append(errs, fmt.Errorf("environment %q is not one of local, ci", c.Environment))
	}
	if c.Paths.Checkout == "" {
		errs = append(errs, fmt.Errorf("paths.checkout is required"))
	}
	if c.Paths.Out == "" {
		errs = append(errs, fmt.Errorf("paths.out is required"))
	}
	if c.Paths.Gen == "" {
		errs = append(errs, fmt.Errorf("paths.gen is required"))
	}
	if c.Test.Realm == "" {
		errs = append(errs, fmt.Errorf("test.realm is required"))
	}
	if c.Test.Runner == "" {
		errs = append(errs, fmt.Errorf("test.runner is required"))
	}
	if c.Vet.CachePath == "" {
		errs = append(errs, fmt.Errorf("vet.cache_path is required"))
	}
	if len(c.Credential.Recipients) > 0 && c.Credential.Store == "" {
		errs = append(errs, fmt.Errorf("credential.store is required when recipients are configured"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Resolve turns a workspace-relative path into an absolute one.
// Absolute paths pass through; without a loaded Root, relative paths
// do too.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Root == "" {
		return path
	}
	return filepath.Join(c.Root, path)
}

// EnsurePaths creates the output directories the configuration names.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Resolve(c.Paths.Out),
		c.Resolve(c.Paths.Gen),
		c.Resolve(c.Test.ArtifactRoot),
		c.Resolve(c.Test.CoverageRoot),
		filepath.Dir(c.Resolve(c.Vet.CachePath)),
	}
	if c.Credential.Store != "" {
		paths = append(paths, c.Resolve(c.Credential.Store))
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
