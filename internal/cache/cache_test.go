package cache

import (
	"path/filepath"
	"testing"

	"github.com/brindlefield/territorial/internal/worldmap"
)

func TestNewKeyStableAndDistinct(t *testing.T) {
	a := NewKey(100, 100, 42)
	b := NewKey(100, 100, 42)
	if a != b {
		t.Fatalf("NewKey not stable: %v != %v", a, b)
	}
	if NewKey(100, 100, 43) == a {
		t.Fatal("different seeds produced the same key")
	}
	if NewKey(101, 100, 42) == a {
		t.Fatal("different widths produced the same key")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "worldmap_cache.db")
	c, err := Open(dbPath, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	m := worldmap.Generate(worldmap.DefaultGenConfig(6, 6, 7))
	if err := c.Put(6, 6, 7, m); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(6, 6, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false after Put")
	}
	if got.Width != m.Width || got.Height != m.Height {
		t.Fatalf("round-tripped dims = %dx%d, want %dx%d", got.Width, got.Height, m.Width, m.Height)
	}
	for i := range m.Elevation {
		if got.Elevation[i] != m.Elevation[i] {
			t.Fatalf("round-tripped elevation mismatch at cell %d", i)
		}
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "worldmap_cache.db")
	c, err := Open(dbPath, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	_, ok, err := c.Get(99, 99, 99)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("Get returned ok=true for an absent key")
	}
}

func TestDiskTierServesAfterMemEviction(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "worldmap_cache.db")
	c, err := Open(dbPath, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	a := worldmap.Generate(worldmap.DefaultGenConfig(4, 4, 1))
	b := worldmap.Generate(worldmap.DefaultGenConfig(4, 4, 2))
	if err := c.Put(4, 4, 1, a); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := c.Put(4, 4, 2, b); err != nil {
		t.Fatalf("Put b: %v", err)
	}

	// mem size 1: storing b evicted a from the in-process tier, but the disk
	// tier must still serve it.
	got, ok, err := c.Get(4, 4, 1)
	if err != nil {
		t.Fatalf("Get a after eviction: %v", err)
	}
	if !ok {
		t.Fatal("disk tier did not serve evicted key")
	}
	if got.Width != 4 {
		t.Fatalf("got.Width = %d, want 4", got.Width)
	}
}
