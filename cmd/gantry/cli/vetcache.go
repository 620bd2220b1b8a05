// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gantry-build/gantry/lib/config"
	"github.com/gantry-build/gantry/lib/vetcache"
)

// vetCachePruneAge is how long unused vet results survive. Every
// cache-using command prunes on open, so the database never needs
// separate maintenance.
const vetCachePruneAge = 30 * 24 * time.Hour

// OpenVetCache opens the workspace vet result cache and prunes stale
// entries. The cache is an optimization, never a gate: when disabled,
// unconfigured, or unopenable the result is nil, which every vetcache
// method accepts as "compute without caching". The caller should
// defer Close on the result either way.
func OpenVetCache(ctx context.Context, cfg *config.Config, disabled bool, logger *slog.Logger) *vetcache.Cache {
	if disabled || cfg.Vet.CachePath == "" {
		return nil
	}

	path := cfg.Resolve(cfg.Vet.CachePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("vet cache unavailable", "path", path, "error", err)
		return nil
	}
	cache, err := vetcache.Open(path, logger)
	if err != nil {
		logger.Warn("vet cache unavailable", "path", path, "error", err)
		return nil
	}
	if _, err := cache.Prune(ctx, vetCachePruneAge); err != nil {
		logger.Warn("vet cache prune failed", "path", path, "error", err)
	}
	return cache
}
