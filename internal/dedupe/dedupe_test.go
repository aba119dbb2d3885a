package dedupe

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoCollapsesConcurrentCalls(t *testing.T) {
	d := New()
	var computations int64
	release := make(chan struct{})

	const callers = 50
	results := make([]*Result, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			res, _, err := d.Do(context.Background(), "GET /arenas", func() (*Result, error) {
				atomic.AddInt64(&computations, 1)
				<-release
				return &Result{Status: 200, Body: []byte(`{"ok":true}`)}, nil
			})
			results[idx] = res
			errs[idx] = err
		}(i)
	}

	// Laisser les 50 appelants s'abonner avant de libérer le calcul
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&computations); got != 1 {
		t.Fatalf("expected exactly 1 computation for 50 callers, got %d", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d got error: %v", i, errs[i])
		}
		if !bytes.Equal(results[i].Body, results[0].Body) {
			t.Fatalf("caller %d received a different result", i)
		}
	}
}

func TestDoSharesFailures(t *testing.T) {
	d := New()
	boom := errors.New("store unavailable")
	release := make(chan struct{})

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _, err := d.Do(context.Background(), "GET /feed", func() (*Result, error) {
				<-release
				return nil, boom
			})
			errs[idx] = err
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, boom) {
			t.Fatalf("caller %d expected shared failure, got %v", i, err)
		}
	}
}

func TestDoEntryRemovedAfterSettlement(t *testing.T) {
	d := New()
	var computations int64

	compute := func() (*Result, error) {
		atomic.AddInt64(&computations, 1)
		return &Result{Status: 200}, nil
	}

	if _, _, err := d.Do(context.Background(), "GET /leaderboard", compute); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if _, _, err := d.Do(context.Background(), "GET /leaderboard", compute); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	// Deux appels séquentiels = deux calculs: rien n'est retenu après coup
	if got := atomic.LoadInt64(&computations); got != 2 {
		t.Fatalf("expected 2 computations for sequential calls, got %d", got)
	}
}

func TestDoCanceledCallerDoesNotCancelCompute(t *testing.T) {
	d := New()
	release := make(chan struct{})
	done := make(chan *Result, 1)

	// Premier abonné: contexte annulé pendant le calcul
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, _, _ = d.Do(ctx, "GET /clans", func() (*Result, error) {
			<-release
			return &Result{Status: 200, Body: []byte("clans")}, nil
		})
	}()

	// Deuxième abonné sur la même clé, celui-là patient
	time.Sleep(20 * time.Millisecond)
	go func() {
		res, _, err := d.Do(context.Background(), "GET /clans", func() (*Result, error) {
			t.Error("second caller should have subscribed, not computed")
			return nil, nil
		})
		if err != nil {
			t.Errorf("patient caller got error: %v", err)
		}
		done <- res
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	close(release)

	select {
	case res := <-done:
		if res == nil || string(res.Body) != "clans" {
			t.Fatalf("patient caller did not receive the shared result: %#v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("patient caller never received the result")
	}
}

func TestKeyNormalizesQueryOrder(t *testing.T) {
	a := Key("GET", "/arenas", url.Values{"limit": {"10"}, "offset": {"0"}})
	b := Key("GET", "/arenas", url.Values{"offset": {"0"}, "limit": {"10"}})
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}

	c := Key("GET", "/arenas", url.Values{"limit": {"20"}, "offset": {"0"}})
	if a == c {
		t.Fatalf("different queries must not share a key")
	}
}
