package ratelimit

import (
	"testing"
	"time"
)

func TestAdmitBoundary(t *testing.T) {
	l := New(60*time.Second, 100)

	for i := 1; i <= 100; i++ {
		v := l.Admit("10.0.0.1")
		if !v.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	v := l.Admit("10.0.0.1")
	if v.Allowed {
		t.Fatalf("request 101 should be rejected")
	}
	if v.RetryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %d", v.RetryAfter)
	}
}

func TestAdmitIsolatesClients(t *testing.T) {
	l := New(60*time.Second, 1)

	if v := l.Admit("a"); !v.Allowed {
		t.Fatalf("first request of client a should pass")
	}
	if v := l.Admit("b"); !v.Allowed {
		t.Fatalf("client b should not be affected by client a")
	}
	if v := l.Admit("a"); v.Allowed {
		t.Fatalf("second request of client a should be rejected")
	}
}

func TestWindowReset(t *testing.T) {
	l := New(60*time.Second, 2)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	l.Admit("c")
	l.Admit("c")
	if v := l.Admit("c"); v.Allowed {
		t.Fatalf("third request inside the window should be rejected")
	}

	// Passé la fin de fenêtre, le compteur repart à 1
	current = current.Add(61 * time.Second)
	if v := l.Admit("c"); !v.Allowed {
		t.Fatalf("first request of the new window should be allowed")
	}
	if v := l.Admit("c"); !v.Allowed {
		t.Fatalf("second request of the new window should be allowed")
	}
	if v := l.Admit("c"); v.Allowed {
		t.Fatalf("new window should enforce the same limit")
	}
}

func TestRetryAfterMatchesWindowRemainder(t *testing.T) {
	l := New(60*time.Second, 1)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	l.Admit("d")
	current = current.Add(20 * time.Second)
	v := l.Admit("d")
	if v.Allowed {
		t.Fatalf("expected rejection")
	}
	if v.RetryAfter != 40 {
		t.Fatalf("expected retry-after 40s, got %d", v.RetryAfter)
	}
}

func TestSweepEvictsExpiredWindows(t *testing.T) {
	l := New(60*time.Second, 100)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	l.Admit("old-1")
	l.Admit("old-2")
	current = current.Add(30 * time.Second)
	l.Admit("fresh")

	current = current.Add(45 * time.Second) // old-* expirées, fresh encore active
	l.Sweep()

	if got := l.Size(); got != 1 {
		t.Fatalf("expected 1 tracked window after sweep, got %d", got)
	}
	// La fenêtre encore active ne doit pas avoir été réinitialisée par le sweep
	if v := l.Admit("fresh"); !v.Allowed {
		t.Fatalf("fresh window should survive the sweep")
	}
}
