package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	"github.com/skillforge-app/skillforge-backend/internal/ratelimit"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
}

func TestRateLimitRejectsWith429(t *testing.T) {
	limiter := ratelimit.New(60*time.Second, 2)
	h := RateLimit(limiter)(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/arenas", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/arenas", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected a Retry-After header")
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["error"] != "Too many requests. Try again later." {
		t.Fatalf("unexpected error body: %q", body["error"])
	}
}

func TestRateLimitKeysOnForwardedFor(t *testing.T) {
	limiter := ratelimit.New(60*time.Second, 1)
	h := RateLimit(limiter)(okHandler())

	send := func(forwarded string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/arenas", nil)
		req.RemoteAddr = "10.0.0.1:1234" // même socket: un proxy devant
		req.Header.Set("X-Forwarded-For", forwarded)
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if send("198.51.100.1") != http.StatusOK {
		t.Fatalf("first client should pass")
	}
	if send("198.51.100.2") != http.StatusOK {
		t.Fatalf("second client should not share the first client's window")
	}
	if send("198.51.100.1") != http.StatusTooManyRequests {
		t.Fatalf("first client should be limited on its second request")
	}
}

func TestBodyLimitRejectsOversizedContentLength(t *testing.T) {
	h := BodyLimit(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quests", strings.NewReader("x"))
	req.ContentLength = MaxBodyBytes + 1
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["error"] != "Payload too large" {
		t.Fatalf("unexpected error body: %q", body["error"])
	}
}

func TestCacheControlDirectives(t *testing.T) {
	cases := []struct {
		class respcache.Class
		want  string
	}{
		{respcache.ClassLong, "public, max-age=300, s-maxage=600"},
		{respcache.ClassShort, "private, max-age=60"},
		{respcache.ClassDefault, "public, max-age=300"},
	}

	for _, tc := range cases {
		h := CacheControl(tc.class)(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if got := rec.Header().Get("Cache-Control"); got != tc.want {
			t.Fatalf("class %d: expected %q, got %q", tc.class, tc.want, got)
		}
	}
}

func TestDedupeCollapsesConcurrentGets(t *testing.T) {
	var handled int64
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&handled, 1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"entries":[]}`))
	})

	h := Dedupe(dedupe.New())(slow)

	const callers = 20
	codes := make([]int, callers)
	bodies := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=10", nil))
			codes[idx] = rec.Code
			bodies[idx] = rec.Body.String()
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&handled); got != 1 {
		t.Fatalf("expected 1 handler execution for %d concurrent GETs, got %d", callers, got)
	}
	for i := 0; i < callers; i++ {
		if codes[i] != http.StatusOK || bodies[i] != `{"entries":[]}` {
			t.Fatalf("caller %d got an inconsistent response: %d %q", i, codes[i], bodies[i])
		}
	}
}

func TestDedupeIgnoresMutations(t *testing.T) {
	var handled int64
	h := Dedupe(dedupe.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&handled, 1)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quests/q1/complete", nil))
	}
	if got := atomic.LoadInt64(&handled); got != 3 {
		t.Fatalf("POST requests must never be deduplicated, got %d executions", got)
	}
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	h := Recover(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("production error must not leak panic details: %s", rec.Body.String())
	}
}
