package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Get(missing) found = true, want false")
	}

	c.Set("a", "alpha")
	if v, found := c.Get("a"); !found || v != "alpha" {
		t.Errorf("Get(a) = %q, %v", v, found)
	}

	// Overwrite keeps a single entry.
	c.Set("a", "alpha2")
	if v, _ := c.Get("a"); v != "alpha2" {
		t.Errorf("Get(a) after overwrite = %q", v)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a so b becomes oldest
	c.Set("c", 3)

	if _, found := c.Get("b"); found {
		t.Error("b should have been evicted")
	}
	if _, found := c.Get("a"); !found {
		t.Error("a should still be cached")
	}
	if _, found := c.Get("c"); !found {
		t.Error("c should still be cached")
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("a"); found {
		t.Error("expired entry should not be returned")
	}
	if removed := c.CleanExpired(); removed != 0 {
		// Get already evicted the expired entry.
		t.Errorf("CleanExpired() = %d, want 0", removed)
	}
}

func TestLRUCacheFlushAndDelete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Error("deleted entry should not be returned")
	}

	c.Flush()
	if c.Size() != 0 {
		t.Errorf("Size() after Flush = %d, want 0", c.Size())
	}
	if _, found := c.Get("b"); found {
		t.Error("flushed entry should not be returned")
	}
}
