package cache

import (
	"testing"
	"time"
)

func TestLRUBasics(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected hit a=1, got %d ok=%v", v, ok)
	}

	// "a" was just used, so adding "c" evicts "b".
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry should be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("recently used entry should survive")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[string](10, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry should miss")
	}

	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("purge should empty the cache, size=%d", c.Size())
	}
}

func TestLRUCleanExpired(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(2 * time.Minute)
	c.Set("c", 3)

	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Fatalf("expected 2 expired entries cleaned, got %d", cleaned)
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("fresh entry should survive cleanup")
	}
}
