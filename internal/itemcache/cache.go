// Package itemcache is a local sqlite cache of fetched reference items.
//
// Item metadata changes rarely, so repeated cites of the same key should
// not pay a network round trip. Entries expire by age; a schema version
// bump drops and recreates the cache, which is always safe to lose.
package itemcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"citedeck/internal/reference"
)

const schemaVersion = 1

// DefaultTTL is how long a cached item stays fresh.
const DefaultTTL = 24 * time.Hour

// Cache stores items in a single sqlite file.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache at path, creating parent directories as
// needed. A cache with an unknown schema version is dropped and rebuilt.
func Open(ctx context.Context, path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("itemcache: path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("itemcache: create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("itemcache: open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("itemcache: ping sqlite: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Cache{db: db}, nil
}

// applyPragmas trades durability for speed; the cache is disposable.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("itemcache: apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	version, err := userVersion(ctx, db)
	if err != nil {
		return err
	}

	if version == schemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("itemcache: begin schema txn: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS items"); err != nil {
		return fmt.Errorf("itemcache: drop stale schema: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE items (
			key        TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL,
			payload    TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("itemcache: create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("itemcache: set user_version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("itemcache: commit schema txn: %w", err)
	}

	committed = true

	return nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int

	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("itemcache: read user_version: %w", err)
	}

	return version, nil
}

// Get returns the cached item for key when it exists and is younger than
// ttl. A stale or missing entry is a miss, not an error.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration) (reference.Item, bool, error) {
	var (
		fetchedAt int64
		payload   string
	)

	err := c.db.QueryRowContext(ctx,
		"SELECT fetched_at, payload FROM items WHERE key = ?", key).
		Scan(&fetchedAt, &payload)

	if errors.Is(err, sql.ErrNoRows) {
		return reference.Item{}, false, nil
	}

	if err != nil {
		return reference.Item{}, false, fmt.Errorf("itemcache: read %q: %w", key, err)
	}

	if time.Since(time.Unix(fetchedAt, 0)) > ttl {
		return reference.Item{}, false, nil
	}

	var item reference.Item

	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		// A corrupt row is a miss; the next Put overwrites it.
		return reference.Item{}, false, nil
	}

	return item, true, nil
}

// Put stores an item, replacing any previous entry for its key.
func (c *Cache) Put(ctx context.Context, item reference.Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("itemcache: encode %q: %w", item.Key, err)
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO items (key, fetched_at, payload) VALUES (?, ?, ?)",
		item.Key, time.Now().Unix(), string(payload))
	if err != nil {
		return fmt.Errorf("itemcache: write %q: %w", item.Key, err)
	}

	return nil
}

// Purge deletes entries older than ttl and reports how many went.
func (c *Cache) Purge(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl).Unix()

	res, err := c.db.ExecContext(ctx, "DELETE FROM items WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("itemcache: purge: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("itemcache: purge count: %w", err)
	}

	return int(n), nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
