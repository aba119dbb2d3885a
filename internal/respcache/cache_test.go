package respcache

import (
	"testing"
	"time"
)

func TestGetMissesUnknownKey(t *testing.T) {
	c := New()
	if _, ok := c.Get("nope"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestSetThenGet(t *testing.T) {
	c := New()
	c.Set("arenas?limit=10", []string{"a", "b"}, ClassLong)

	v, ok := c.Get("arenas?limit=10")
	if !ok {
		t.Fatalf("expected hit")
	}
	got := v.([]string)
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("unexpected cached value: %#v", got)
	}
}

func TestDistinctKeysDoNotCollide(t *testing.T) {
	c := New()
	c.Set("arenas?limit=10", "page1", ClassLong)
	c.Set("arenas?limit=10&offset=10", "page2", ClassLong)

	v, _ := c.Get("arenas?limit=10")
	if v != "page1" {
		t.Fatalf("pagination keys contaminated each other: %v", v)
	}
}

func TestExpiryByClass(t *testing.T) {
	c := New()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set("profile:u1", "short", ClassShort)
	c.Set("leaderboard", "long", ClassLong)
	c.Set("misc", "default", ClassDefault)

	// À 90 secondes, seule la classe courte est expirée
	current = current.Add(90 * time.Second)
	if _, ok := c.Get("profile:u1"); ok {
		t.Fatalf("short entry should have expired after 90s")
	}
	if _, ok := c.Get("leaderboard"); !ok {
		t.Fatalf("long entry should still be valid after 90s")
	}
	if _, ok := c.Get("misc"); !ok {
		t.Fatalf("default entry should still be valid after 90s")
	}

	// À 6 minutes, tout est expiré
	current = current.Add(5 * time.Minute)
	if _, ok := c.Get("leaderboard"); ok {
		t.Fatalf("long entry should have expired after 6m30s")
	}
	if _, ok := c.Get("misc"); ok {
		t.Fatalf("default entry should have expired after 6m30s")
	}
}

func TestExpiredEntryIsDropped(t *testing.T) {
	c := New()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set("k", "v", ClassShort)
	current = current.Add(2 * time.Minute)
	c.Get("k")

	if c.Size() != 0 {
		t.Fatalf("expired entry should be removed on read, size=%d", c.Size())
	}
}
