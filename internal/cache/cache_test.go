package cache

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](4, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) reported a hit")
	}
	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("Get(a) = %d, %v, want 1, true", got, ok)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, string](4, 10*time.Minute)
	c.SetClock(func() time.Time { return now })

	c.Set("inn", "record")
	now = now.Add(9 * time.Minute)
	if _, ok := c.Get("inn"); !ok {
		t.Fatal("entry expired before its TTL")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("inn"); ok {
		t.Fatal("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after expiry collection, want 0", c.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := New[string, int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a; b becomes the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry was not evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("recently used entry was evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("new entry missing")
	}
}

func TestCache_UpdateExistingKey(t *testing.T) {
	c := New[string, int](2, time.Hour)
	c.Set("a", 1)
	c.Set("a", 2)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if got, _ := c.Get("a"); got != 2 {
		t.Fatalf("Get(a) = %d, want 2", got)
	}
}
