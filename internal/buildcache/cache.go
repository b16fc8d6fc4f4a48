// Package buildcache is a content-addressed cache of emitted C translation
// units, stored in a sqlite database under .lolc/ in the project
// directory. The key hashes the source bytes together with every option
// that influences emission, so a hit can skip lexing, parsing and lowering
// entirely.
package buildcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	key        TEXT PRIMARY KEY,
	code       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`

type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache for a project directory.
func Open(projectDir string) (*Cache, error) {
	dir := filepath.Join(projectDir, ".lolc")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key derives the cache key for a source buffer and the emission options
// that shape the output.
func Key(source []byte, target string, stackSize, heapSize int32, frameVariant int) string {
	h := sha256.New()
	h.Write(source)
	fmt.Fprintf(h, "|%s|%d|%d|%d", target, stackSize, heapSize, frameVariant)
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached translation unit for a key, if present.
func (c *Cache) Lookup(key string) (string, bool, error) {
	var code string
	err := c.db.QueryRow(`SELECT code FROM artifacts WHERE key = ?`, key).Scan(&code)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache lookup: %w", err)
	}
	return code, true, nil
}

// Store saves a translation unit under a key, replacing any previous
// entry.
func (c *Cache) Store(key, code string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO artifacts (key, code, created_at) VALUES (?, ?, ?)`,
		key, code, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}
