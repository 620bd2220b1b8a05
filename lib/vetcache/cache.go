// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package vetcache

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gantry-build/gantry/lib/codec"
	"github.com/gantry-build/gantry/lib/digest"
)

// Cache is a connection pool over the vet result database. Safe for
// concurrent use; vet workers share one Cache.
//
// Construct with [Open]. A nil *Cache is valid: Get always misses,
// Put is a no-op, and Issues always computes.
type Cache struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
}

const schema = `
	CREATE TABLE IF NOT EXISTS vet_results (
		kind       TEXT NOT NULL,
		digest     TEXT NOT NULL,
		path       TEXT NOT NULL,
		issues     BLOB NOT NULL,
		checked_at INTEGER NOT NULL,
		PRIMARY KEY (kind, digest)
	);
	CREATE INDEX IF NOT EXISTS idx_vet_results_checked ON vet_results(checked_at);
`

// Open opens (creating if needed) the vet result database at path. The
// parent directory must exist. Every connection gets WAL journaling, a
// busy timeout, and NORMAL synchronous level, so concurrent vet runs
// sharing one cache file do not fail on lock contention.
//
// The caller must call Close when done. If logger is nil, a no-op
// logger is used.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("vetcache: path is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := runtime.NumCPU()
	if poolSize < 4 {
		poolSize = 4
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("vetcache: opening %s: %w", path, err)
	}

	logger.Debug("vet cache opened", "path", path, "pool_size", poolSize)

	return &Cache{
		pool:   pool,
		logger: logger,
		path:   path,
	}, nil
}

// prepareConnection applies the standard pragmas and ensures the
// schema exists. Runs once per connection in the pool, on first use.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("vetcache: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("vetcache: creating schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool. Blocks until all
// borrowed connections are returned. Safe on a nil Cache.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	if err := c.pool.Close(); err != nil {
		return fmt.Errorf("vetcache: closing %s: %w", c.path, err)
	}
	return nil
}

// Get returns the recorded issue list for (kind, contentDigest).
// The second result reports whether an entry was found; a clean file
// is a hit with an empty issue list. A nil Cache always misses.
func (c *Cache) Get(ctx context.Context, kind string, contentDigest digest.Digest) ([]string, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	conn, err := c.pool.Take(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("vetcache: get: %w", err)
	}
	defer c.pool.Put(conn)

	var blob []byte
	found := false
	err = sqlitex.Execute(conn,
		"SELECT issues FROM vet_results WHERE kind = ? AND digest = ?",
		&sqlitex.ExecOptions{
			Args: []any{kind, contentDigest.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				blob = make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, blob)
				found = true
				return nil
			},
		})
	if err != nil {
		return nil, false, fmt.Errorf("vetcache: get %s/%s: %w", kind, contentDigest.Short(), err)
	}
	if !found {
		return nil, false, nil
	}

	var issues []string
	if err := codec.Unmarshal(blob, &issues); err != nil {
		// A corrupt entry is treated as a miss so the caller recomputes
		// and overwrites it.
		c.logger.Warn("vet cache entry corrupt, recomputing",
			"kind", kind,
			"digest", contentDigest.Short(),
			"error", err,
		)
		return nil, false, nil
	}
	return issues, true, nil
}

// Put records the issue list for (kind, contentDigest), replacing any
// existing entry. path is stored for inspection only. A nil Cache
// discards the write.
func (c *Cache) Put(ctx context.Context, kind string, contentDigest digest.Digest, path string, issues []string) error {
	if c == nil {
		return nil
	}

	blob, err := codec.Marshal(issues)
	if err != nil {
		return fmt.Errorf("vetcache: encoding issues: %w", err)
	}

	conn, err := c.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("vetcache: put: %w", err)
	}
	defer c.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO vet_results (kind, digest, path, issues, checked_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (kind, digest) DO UPDATE SET
		   path = excluded.path,
		   issues = excluded.issues,
		   checked_at = excluded.checked_at`,
		&sqlitex.ExecOptions{
			Args: []any{kind, contentDigest.String(), path, blob, time.Now().Unix()},
		})
	if err != nil {
		return fmt.Errorf("vetcache: put %s/%s: %w", kind, contentDigest.Short(), err)
	}
	return nil
}

// Issues returns the issue list for source, consulting the cache
// first. On a miss it calls compute, records the result, and returns
// it. The second result reports whether the cache was hit. A nil
// Cache always computes and never records.
//
// Put failures are logged but do not fail the vet run — the computed
// issues are still returned.
func (c *Cache) Issues(ctx context.Context, kind string, path string, source []byte, compute func() []string) ([]string, bool, error) {
	if c == nil {
		return compute(), false, nil
	}

	contentDigest := digest.HashSource(source)
	issues, hit, err := c.Get(ctx, kind, contentDigest)
	if err != nil {
		return nil, false, err
	}
	if hit {
		return issues, true, nil
	}

	issues = compute()
	if err := c.Put(ctx, kind, contentDigest, path, issues); err != nil {
		c.logger.Warn("vet cache write failed", "path", path, "error", err)
	}
	return issues, false, nil
}

// Prune deletes entries whose last check is older than maxAge and
// returns the number of rows removed. Safe on a nil Cache (no-op).
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if c == nil {
		return 0, nil
	}

	conn, err := c.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("vetcache: prune: %w", err)
	}
	defer c.pool.Put(conn)

	cutoff := time.Now().Add(-maxAge).Unix()
	err = sqlitex.Execute(conn,
		"DELETE FROM vet_results WHERE checked_at < ?",
		&sqlitex.ExecOptions{Args: []any{cutoff}})
	if err != nil {
		return 0, fmt.Errorf("vetcache: prune: %w", err)
	}

	removed := int64(conn.Changes())
	if removed > 0 {
		c.logger.Info("vet cache pruned", "removed", removed, "max_age", maxAge)
	}
	return removed, nil
}

// Stats describes the current cache contents, for status output.
type Stats struct {
	// Entries is the number of recorded vet results.
	Entries int64 `json:"entries"`

	// SizeBytes is the database size (page_count * page_size).
	SizeBytes int64 `json:"size_bytes"`
}

// Stats returns entry count and database size. A nil Cache reports
// zeros.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	if c == nil {
		return Stats{}, nil
	}

	conn, err := c.pool.Take(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("vetcache: stats: %w", err)
	}
	defer c.pool.Put(conn)

	var stats Stats
	err = sqlitex.Execute(conn, "SELECT COUNT(*) FROM vet_results", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			stats.Entries = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return Stats{}, fmt.Errorf("vetcache: counting entries: %w", err)
	}

	err = sqlitex.Execute(conn,
		"SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				stats.SizeBytes = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return Stats{}, fmt.Errorf("vetcache: database size: %w", err)
	}

	return stats, nil
}
