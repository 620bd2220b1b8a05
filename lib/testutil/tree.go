// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
)

// WriteTree writes each entry of files under root, where keys are
// slash-separated paths relative to root and values are file contents.
// Parent directories are created as needed. Files are written with mode
// 0o644.
//
//	dir := t.TempDir()
//	testutil.WriteTree(t, dir, map[string]string{
//		"build/args.gni":      "declare_args() {\n  use_goma = false\n}\n",
//		"net/BUILD.gantry":    `source_set("net") { sources = [ "net.cc" ] }`,
//	})
func WriteTree(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}
