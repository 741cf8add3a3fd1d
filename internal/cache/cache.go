// Package cache stores generated WorldMaps keyed by (width, height, seed),
// so repeated requests for the same parameters skip regeneration. It mirrors
// the reference project's world-map cache with two tiers: an in-process LRU
// for the hot path and a SQLite-backed tier so the cache survives restarts.
package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/brindlefield/territorial/internal/worldmap"
)

// Key identifies a cached WorldMap by its generation parameters.
type Key uint64

// NewKey hashes (width, height, seed) into a cache key, grounded on the
// reference's cache key derivation for generated world rasters (§4.1).
func NewKey(width, height int, seed int64) Key {
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(width))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(height))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(seed))
	h := xxhash.New()
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[0:8], uint64(seed>>32))
	h.Write(buf[0:8])
	return Key(h.Sum64())
}

// Cache fronts a SQLite-backed on-disk tier with an in-process LRU tier.
type Cache struct {
	mem *lru.Cache[Key, *worldmap.Map]
	db  *sqlx.DB
}

// Open opens (creating if necessary) the on-disk tier at path and wraps it
// with an in-process LRU of the given size.
func Open(path string, memSize int) (*Cache, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cache: open db: %w", err)
	}
	c := &Cache{db: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: migrate: %w", err)
	}
	mem, err := lru.New[Key, *worldmap.Map](memSize)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: new lru: %w", err)
	}
	c.mem = mem
	return c, nil
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`
	CREATE TABLE IF NOT EXISTS world_cache (
		cache_key INTEGER PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		blob BLOB NOT NULL
	)`)
	return err
}

// Close closes the on-disk tier. The in-process tier needs no cleanup.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached WorldMap for (width, height, seed), checking the
// in-process tier before falling back to the disk tier.
func (c *Cache) Get(width, height int, seed int64) (*worldmap.Map, bool, error) {
	key := NewKey(width, height, seed)
	if m, ok := c.mem.Get(key); ok {
		return m, true, nil
	}

	var blob []byte
	err := c.db.Get(&blob, "SELECT blob FROM world_cache WHERE cache_key = ?", int64(key))
	if err != nil {
		return nil, false, nil
	}

	var m worldmap.Map
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&m); err != nil {
		return nil, false, fmt.Errorf("cache: decode blob for key %d: %w", key, err)
	}
	c.mem.Add(key, &m)
	return &m, true, nil
}

// Put stores m under (width, height, seed) in both tiers.
func (c *Cache) Put(width, height int, seed int64, m *worldmap.Map) error {
	key := NewKey(width, height, seed)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("cache: encode worldmap: %w", err)
	}

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO world_cache (cache_key, width, height, seed, blob) VALUES (?, ?, ?, ?, ?)`,
		int64(key), width, height, seed, buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("cache: write blob for key %d: %w", key, err)
	}

	c.mem.Add(key, m)
	return nil
}
