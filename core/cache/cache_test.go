package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/strumkey/strumkey/core/chord"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	config := Config{
		MaxSize: 3,
		TTL:     0,
	}
	cache := NewLRUCache[string, int](config)

	// Test Put and Get
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if v, ok := cache.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v; want 2, true", v, ok)
	}
	if v, ok := cache.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v; want 3, true", v, ok)
	}

	// Test non-existent key
	if _, ok := cache.Get("d"); ok {
		t.Error("Get(d) should return false")
	}

	// Test Len
	if n := cache.Len(); n != 3 {
		t.Errorf("Len() = %d; want 3", n)
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	config := Config{
		MaxSize: 2,
		TTL:     0,
	}
	cache := NewLRUCache[string, int](config)

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3) // Should evict "a" (least recently used)

	// "a" should be evicted
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after eviction")
	}
	if v, ok := cache.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v; want 2, true", v, ok)
	}
	if v, ok := cache.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v; want 3, true", v, ok)
	}

	stats := cache.Stats()
	if stats.Evictions != 1 {
		t.Errorf("Stats().Evictions = %d; want 1", stats.Evictions)
	}
}

func TestLRUCache_LRUOrdering(t *testing.T) {
	config := Config{
		MaxSize: 2,
		TTL:     0,
	}
	cache := NewLRUCache[string, int](config)

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")    // "a" becomes most recently used
	cache.Put("c", 3) // Should evict "b", not "a"

	if _, ok := cache.Get("b"); ok {
		t.Error("Get(b) should return false after eviction")
	}
	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
}

func TestLRUCache_TTLExpiration(t *testing.T) {
	config := Config{
		MaxSize: 10,
		TTL:     10 * time.Millisecond,
	}
	cache := NewLRUCache[string, int](config)

	cache.Put("a", 1)
	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after TTL expiration")
	}
}

func TestLRUCache_Clear(t *testing.T) {
	cache := NewLRUCache[string, int](DefaultConfig())

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Clear()

	if n := cache.Len(); n != 0 {
		t.Errorf("Len() = %d after Clear(); want 0", n)
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after Clear()")
	}
}

func TestLRUCache_OnEvict(t *testing.T) {
	var evicted []string
	config := Config{
		MaxSize: 1,
		OnEvict: func(key, value interface{}) {
			evicted = append(evicted, key.(string))
		},
	}
	cache := NewLRUCache[string, int](config)

	cache.Put("a", 1)
	cache.Put("b", 2)

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("evicted = %v; want [a]", evicted)
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 100})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", n, j)
				cache.Put(key, j)
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if n := cache.Len(); n > 100 {
		t.Errorf("Len() = %d; want <= 100", n)
	}
}

func TestFilterCache(t *testing.T) {
	fc := NewDefaultFilterCache()

	chords := []chord.Chord{
		{Name: "C#", Position: 1},
		{Name: "C#m", Position: 1},
	}
	fc.Put("C#", chords)

	got, ok := fc.Get("C#")
	if !ok || len(got) != 2 {
		t.Fatalf("Get(C#) = %v, %v; want 2 chords, true", got, ok)
	}
	if got[0].Name != "C#" || got[1].Name != "C#m" {
		t.Errorf("Get(C#) order = [%s %s]; want [C# C#m]", got[0].Name, got[1].Name)
	}

	fc.Clear()
	if _, ok := fc.Get("C#"); ok {
		t.Error("Get(C#) should return false after Clear()")
	}

	stats := fc.Stats()
	if stats.Misses != 1 {
		t.Errorf("Stats().Misses = %d; want 1", stats.Misses)
	}
}
