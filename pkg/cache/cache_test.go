package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	t.Run("MissOnUnknownKey", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if hit {
			t.Error("expected miss")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		want := []byte(`{"nodes":[]}`)
		if err := c.Set(ctx, "k1", want, 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, hit, err := c.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !hit {
			t.Fatal("expected hit")
		}
		if !bytes.Equal(got, want) {
			t.Errorf("data = %q, want %q", got, want)
		}
	})

	t.Run("ExpiredEntryIsMiss", func(t *testing.T) {
		if err := c.Set(ctx, "k2", []byte("x"), -time.Second); err != nil {
			t.Fatalf("Set: %v", err)
		}
		_, hit, err := c.Get(ctx, "k2")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if hit {
			t.Error("expired entry should be a miss")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.Set(ctx, "k3", []byte("x"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := c.Delete(ctx, "k3"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		_, hit, _ := c.Get(ctx, "k3")
		if hit {
			t.Error("deleted entry should be a miss")
		}
		// Deleting again is not an error.
		if err := c.Delete(ctx, "k3"); err != nil {
			t.Errorf("second Delete: %v", err)
		}
	})
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDocumentKey(t *testing.T) {
	doc := map[string]any{
		"name":   "m",
		"states": map[string]any{"a": map[string]any{}},
	}
	same := map[string]any{
		"states": map[string]any{"a": map[string]any{}},
		"name":   "m",
	}
	other := map[string]any{
		"name":   "m2",
		"states": map[string]any{"a": map[string]any{}},
	}

	if DocumentKey(doc) != DocumentKey(same) {
		t.Error("field order must not affect the key")
	}
	if DocumentKey(doc) == DocumentKey(other) {
		t.Error("different documents must get different keys")
	}
}
