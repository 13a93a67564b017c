package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newMiddlewareRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id")})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	router := newMiddlewareRouter(RequestLogger())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("expected incoming request id to be kept, got %q", got)
	}
}

func TestRecoveryReturns500(t *testing.T) {
	router := newMiddlewareRouter(Recovery())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := newMiddlewareRouter(SecurityHeaders())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected nosniff header")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected frame denial header")
	}
}

func TestRateLimitPerIP(t *testing.T) {
	router := newMiddlewareRouter(RateLimit(NewIPRateLimiter(1, 2)))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d within burst got %d", i+1, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the burst is spent, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other clients keep their own budget, got %d", code)
	}
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewIPRateLimiter(60, 5)
	defer rl.Stop()

	rl.limiter("10.0.0.1")
	rl.limiter("10.0.0.2")
	if rl.Size() != 2 {
		t.Fatalf("expected 2 visitors, got %d", rl.Size())
	}

	if n := rl.EvictIdle(time.Now().Add(-time.Minute)); n != 0 {
		t.Errorf("recent visitors must stay, evicted %d", n)
	}
	if n := rl.EvictIdle(time.Now().Add(time.Second)); n != 2 {
		t.Errorf("expected 2 idle visitors evicted, got %d", n)
	}
	if rl.Size() != 0 {
		t.Errorf("expected empty limiter, got %d", rl.Size())
	}
}

func TestRateLimiterCleanupLoop(t *testing.T) {
	rl := NewIPRateLimiter(60, 5)
	rl.limiter("10.0.0.1")
	rl.StartCleanup(5*time.Millisecond, time.Nanosecond)

	deadline := time.Now().Add(time.Second)
	for rl.Size() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if rl.Size() != 0 {
		t.Fatal("cleanup loop did not evict the idle visitor")
	}

	rl.Stop()
	rl.Stop()
}
