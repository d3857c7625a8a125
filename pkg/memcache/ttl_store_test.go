package mem

import (
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	c.Set("k", "v", time.Minute)
	if v, ok := c.Peek("k"); !ok || v != "v" {
		t.Fatalf("Peek = %q, %v", v, ok)
	}

	now = now.Add(61 * time.Second)
	if _, ok := c.Peek("k"); ok {
		t.Fatal("expired entry still visible")
	}
}

func TestTTLCacheIgnoresNonPositiveTTL(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", "v", 0)
	c.Set("k2", "v", -time.Second)
	if len(c.data) != 0 {
		t.Fatalf("stored %d entries with no lifetime", len(c.data))
	}
}

func TestTTLCacheSweepsExpiredEntries(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	c.Set("gone", "v", time.Second)
	c.Set("kept", "v", time.Hour)

	now = now.Add(time.Minute)
	for i := 0; i < sweepEvery; i++ {
		c.Set("fresh", "v", time.Hour)
	}
	if len(c.data) != 2 {
		t.Fatalf("sweep left %d entries, want 2", len(c.data))
	}
	if _, ok := c.data["gone"]; ok {
		t.Fatal("expired entry survived the sweep")
	}
}
