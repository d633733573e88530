package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLayeredGetPromotesBackingHit(t *testing.T) {
	backing := NewMemoryCache()
	t.Cleanup(func() { _ = backing.Close() })
	lc := NewLayeredCache(backing)
	t.Cleanup(func() { _ = lc.Close() })

	ctx := context.Background()
	in := cachedValue{Name: "AAPL", Price: 191.5}
	// written behind L1's back, e.g. by another process sharing the store
	if err := backing.Set(ctx, "quote:AAPL", in, time.Minute); err != nil {
		t.Fatalf("seed backing: %v", err)
	}

	var out cachedValue
	if err := lc.Get(ctx, "quote:AAPL", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	// remove from L2: a promoted key must still be served from memory
	if err := backing.Delete(ctx, "quote:AAPL"); err != nil {
		t.Fatalf("delete backing: %v", err)
	}
	var again cachedValue
	if err := lc.Get(ctx, "quote:AAPL", &again); err != nil {
		t.Errorf("expected promoted L1 hit, got %v", err)
	}
}

func TestLayeredSetWritesThrough(t *testing.T) {
	backing := NewMemoryCache()
	t.Cleanup(func() { _ = backing.Close() })
	lc := NewLayeredCache(backing)
	t.Cleanup(func() { _ = lc.Close() })

	ctx := context.Background()
	if err := lc.Set(ctx, "k", cachedValue{Name: "X"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out cachedValue
	if err := backing.Get(ctx, "k", &out); err != nil {
		t.Errorf("expected write-through to backing, got %v", err)
	}

	if err := lc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := lc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected miss after delete, got %v", err)
	}
}
