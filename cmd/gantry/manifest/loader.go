// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gantry-build/gantry/lib/bundle"
	"github.com/gantry-build/gantry/lib/config"
	libmanifest "github.com/gantry-build/gantry/lib/manifest"
)

// workspaceLoader resolves manifest include paths against the
// configured manifest roots. Repository-absolute paths ("//" prefix)
// and bare relative paths both try each root in order; the entry
// manifest named on the command line loads as given first, so
// commands work on files outside any root too.
type workspaceLoader struct {
	roots []string
}

// newLoader builds the include loader for a workspace. Without a
// workspace the current directory is the only root.
func newLoader(cfg *config.Config) libmanifest.Loader {
	var roots []string
	for _, root := range cfg.Paths.ManifestRoots {
		roots = append(roots, cfg.Resolve(root))
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}
	return workspaceLoader{roots: roots}
}

func (l workspaceLoader) Load(path string) ([]byte, error) {
	trimmed, repoAbsolute := strings.CutPrefix(path, "//")
	if !repoAbsolute {
		if data, err := os.ReadFile(filepath.FromSlash(path)); err == nil {
			return data, nil
		}
	}
	for _, root := range l.roots {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(trimmed)))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s not found under manifest roots %s",
		path, strings.Join(l.roots, ", "))
}

// mergeManifest loads path and flattens its include chain through the
// workspace loader.
func mergeManifest(cfg *config.Config, path string) (*libmanifest.Document, error) {
	return libmanifest.Merge(path, newLoader(cfg))
}

// isBundle reports whether data starts with the compiled-bundle magic.
func isBundle(data []byte) bool {
	return len(data) >= len(bundle.Magic) && bytes.Equal(data[:len(bundle.Magic)], bundle.Magic[:])
}

// LoadDocument reads a manifest in either form: a compiled bundle
// decodes directly, manifest source merges its include chain through
// the workspace manifest roots. Other command groups that take a
// --manifest argument load through this.
func LoadDocument(cfg *config.Config, path string) (*libmanifest.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isBundle(data) {
		doc, _, err := libmanifest.DecodeBundle(data)
		return doc, err
	}
	return libmanifest.Merge(path, newLoader(cfg))
}
