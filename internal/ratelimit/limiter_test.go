package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type fakeCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error

	// expireFailures makes the next n Expire calls fail
	expireFailures int
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		counts:  make(map[string]int64),
		expires: make(map[string]time.Duration),
	}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if f.expireFailures > 0 {
		f.expireFailures--
		return redis.NewBoolResult(false, errors.New("i/o timeout"))
	}
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCounter) TTL(_ context.Context, key string) *redis.DurationCmd {
	if _, ok := f.counts[key]; !ok {
		return redis.NewDurationResult(-2, nil)
	}
	if ttl, ok := f.expires[key]; ok {
		return redis.NewDurationResult(ttl, nil)
	}
	return redis.NewDurationResult(-1, nil)
}

// expire drops a key whose window has passed
func (f *fakeCounter) expire(key string) {
	if _, ok := f.expires[key]; ok {
		delete(f.counts, key)
		delete(f.expires, key)
	}
}

func TestCheckEnforcesLimit(t *testing.T) {
	counter := newFakeCounter()
	l := NewLimiter(counter, 2, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		allowed, err := l.Check(ctx, "10.0.0.1")
		if err != nil || !allowed {
			t.Fatalf("request %d = (%v, %v), want (true, nil)", i, allowed, err)
		}
	}
	allowed, err := l.Check(ctx, "10.0.0.1")
	if err != nil || allowed {
		t.Fatalf("third request = (%v, %v), want (false, nil)", allowed, err)
	}

	if got := counter.expires["ratelimit:10.0.0.1"]; got != time.Minute {
		t.Fatalf("expiry = %v, want %v", got, time.Minute)
	}

	allowed, err = l.Check(ctx, "10.0.0.2")
	if err != nil || !allowed {
		t.Fatalf("other client = (%v, %v), want (true, nil)", allowed, err)
	}
}

func TestCheckRestoresMissingExpiry(t *testing.T) {
	counter := newFakeCounter()
	counter.expireFailures = 1
	l := NewLimiter(counter, 2, time.Minute)
	ctx := context.Background()
	key := "ratelimit:10.0.0.1"

	if _, err := l.Check(ctx, "10.0.0.1"); err == nil {
		t.Fatalf("expected error when the first Expire fails")
	}
	if _, ok := counter.expires[key]; ok {
		t.Fatalf("expiry set despite failure")
	}

	allowed, err := l.Check(ctx, "10.0.0.1")
	if err != nil || !allowed {
		t.Fatalf("second request = (%v, %v), want (true, nil)", allowed, err)
	}

	allowed, err = l.Check(ctx, "10.0.0.1")
	if err != nil || allowed {
		t.Fatalf("third request = (%v, %v), want (false, nil)", allowed, err)
	}
	if got := counter.expires[key]; got != time.Minute {
		t.Fatalf("expiry = %v, want %v", got, time.Minute)
	}

	counter.expire(key)
	allowed, err = l.Check(ctx, "10.0.0.1")
	if err != nil || !allowed {
		t.Fatalf("request after the window = (%v, %v), want (true, nil)", allowed, err)
	}
}

func TestAllowRecoversAfterFailedExpiry(t *testing.T) {
	counter := newFakeCounter()
	counter.expireFailures = 1
	l := NewLimiter(counter, 2, time.Minute)

	results := make([]bool, 0, 5)
	for i := 0; i < 5; i++ {
		allowed, err := l.Allow("10.0.0.1")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		results = append(results, allowed)
	}
	want := []bool{true, true, false, false, false}
	for i := range want {
		if results[i] != want[i] {
			t.Fatalf("results = %v, want %v", results, want)
		}
	}
	if _, ok := counter.expires["ratelimit:10.0.0.1"]; !ok {
		t.Fatalf("key left without an expiry")
	}

	counter.expire("ratelimit:10.0.0.1")
	if allowed, _ := l.Allow("10.0.0.1"); !allowed {
		t.Fatalf("client still blocked after the window")
	}
}

func TestAllowFailsOpen(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("connection refused")
	l := NewLimiter(counter, 1, time.Minute)

	allowed, err := l.Allow("10.0.0.1")
	if err != nil || !allowed {
		t.Fatalf("Allow = (%v, %v), want (true, nil)", allowed, err)
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	e := echo.New()
	e.Use(Middleware(NewLimiter(newFakeCounter(), 1, time.Minute)))
	e.GET("/categories", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("status codes = %v, want [200 429]", codes)
	}

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("health status = %d, want %d", rec.Code, http.StatusOK)
		}
	}
}
