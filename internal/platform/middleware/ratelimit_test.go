package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func rateLimited(t *testing.T, h echo.HandlerFunc, ip string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		rec, err := rateLimited(t, h, "10.0.0.1")
		if err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "1" {
			t.Errorf("request %d: expected X-RateLimit-Limit 1", i+1)
		}
	}

	rec, err := rateLimited(t, h, "10.0.0.1")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	if _, err := rateLimited(t, h, "10.0.0.2"); err != nil {
		t.Errorf("expected a different IP to have its own bucket, got %v", err)
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTokenBucket(2, 1, start)

	if ok, _ := b.take(start); !ok {
		t.Fatal("expected first token")
	}
	ok, retry := b.take(start)
	if ok || retry != 1 {
		t.Fatalf("expected rejection with retry 1, got ok=%v retry=%d", ok, retry)
	}
	if ok, _ := b.take(start.Add(600 * time.Millisecond)); !ok {
		t.Error("expected token after refill")
	}
}

func TestLimiter_EvictsIdleBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	l.now = func() time.Time { return now }

	l.bucket("a")
	l.bucket("b")
	if l.size() != 2 {
		t.Fatalf("expected 2 buckets, got %d", l.size())
	}

	now = now.Add(2 * time.Minute)
	l.bucket("c")
	if l.size() != 1 {
		t.Errorf("expected idle buckets evicted, got %d", l.size())
	}
}
