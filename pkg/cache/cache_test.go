package cache

import (
	"sync"
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string](time.Hour)

	c.Set("key1", "value1")
	val, found := c.Get("key1")
	if !found {
		t.Fatal("expected to find key1")
	}
	if val != "value1" {
		t.Errorf("expected value1, got %v", val)
	}

	val, found = c.Get("nonexistent")
	if found {
		t.Error("expected key not to be found")
	}
	if val != "" {
		t.Errorf("expected zero value, got %q", val)
	}
}

func TestCache_Expiration(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[int](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", 1)
	now = now.Add(59 * time.Second)
	if _, found := c.Get("k"); !found {
		t.Fatal("expected key to be fresh")
	}

	now = now.Add(2 * time.Second)
	if _, found := c.Get("k"); found {
		t.Error("expected key to be expired")
	}
	if n := c.Len(); n != 0 {
		t.Errorf("expected expired entry to be dropped, got %d entries", n)
	}
}

func TestCache_SetOverwrite(t *testing.T) {
	c := New[string](time.Hour)

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	val, _ := c.Get("key1")
	if val != "value2" {
		t.Errorf("expected value2, got %v", val)
	}
	if n := c.Len(); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int](time.Hour)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set("shared", i)
			c.Get("shared")
		}()
	}
	wg.Wait()

	if _, found := c.Get("shared"); !found {
		t.Error("expected shared key to be present")
	}
}
