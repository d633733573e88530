package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type cachedValue struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	ctx := context.Background()
	in := cachedValue{Name: "AAPL", Price: 191.5}
	if err := mc.Set(ctx, "quote:AAPL", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out cachedValue
	if err := mc.Get(ctx, "quote:AAPL", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	var out cachedValue
	err := mc.Get(context.Background(), "missing", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	ctx := context.Background()
	if err := mc.Set(ctx, "short", cachedValue{Name: "X"}, 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var out cachedValue
	if err := mc.Get(ctx, "short", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(3))
	t.Cleanup(func() { _ = mc.Close() })

	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := mc.Set(ctx, k, cachedValue{Name: k}, time.Minute); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
		time.Sleep(2 * time.Millisecond) // distinct access times
	}

	// touch "a" so "b" becomes least recently used
	var out cachedValue
	if err := mc.Get(ctx, "a", &out); err != nil {
		t.Fatalf("get a: %v", err)
	}

	if err := mc.Set(ctx, "d", cachedValue{Name: "d"}, time.Minute); err != nil {
		t.Fatalf("set d: %v", err)
	}

	if err := mc.Get(ctx, "b", &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected b evicted, got %v", err)
	}
	for _, k := range []string{"a", "c", "d"} {
		if err := mc.Get(ctx, k, &out); err != nil {
			t.Errorf("expected %s retained, got %v", k, err)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key("indicators", "abc", "20"); got != "indicators:abc:20" {
		t.Errorf("Key = %q", got)
	}
	if got := Key("health"); got != "health" {
		t.Errorf("Key with no params = %q", got)
	}
}
