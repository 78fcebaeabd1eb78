package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{
			name:       "ipv4 remote",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "forwarded header is ignored",
			header:     "203.0.113.1",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "ipv6 remote",
			remoteAddr: net.JoinHostPort("2001:db8::2", "443"),
			want:       "2001:db8::2",
		},
		{
			name:       "remote without port",
			remoteAddr: "203.0.113.1",
			want:       "203.0.113.1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set("X-Forwarded-For", tc.header)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLimiterTokenBucket(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow("a"); !ok {
			t.Fatalf("request %d should pass", i)
		}
	}
	ok, retry := l.Allow("a")
	if ok {
		t.Fatalf("third request in the burst should be rejected")
	}
	if retry < 29*time.Second || retry > 31*time.Second {
		t.Fatalf("expected about 30s until the next token, got %v", retry)
	}
	if ok, _ := l.Allow("b"); !ok {
		t.Fatalf("other clients have their own bucket")
	}

	// a rejected request does not consume the next token
	now = now.Add(31 * time.Second)
	if ok, _ := l.Allow("a"); !ok {
		t.Fatalf("a token should have refilled")
	}
	if ok, _ := l.Allow("a"); ok {
		t.Fatalf("only one token refills in 31s")
	}
}

func TestLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	if len(l.clients) != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", len(l.clients))
	}

	now = now.Add(6 * time.Minute)
	l.Allow("c")
	if len(l.clients) != 1 {
		t.Fatalf("idle clients should be evicted, %d left", len(l.clients))
	}
	if _, ok := l.clients["c"]; !ok {
		t.Fatalf("the active client must be kept")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/visits", nil))
	if first.Code != http.StatusNoContent {
		t.Fatalf("first request: %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/visits", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", second.Code)
	}
	if got := second.Header().Get("Retry-After"); got != "60" && got != "61" {
		t.Fatalf("Retry-After = %q, want about 60", got)
	}
}

func TestRateLimitIgnoresRotatedForwardedFor(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RateLimit(1, time.Minute))
	r.Post("/api/visits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for i, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/visits", nil)
		req.RemoteAddr = "198.51.100.10:1234"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		want := http.StatusNoContent
		if i > 0 {
			want = http.StatusTooManyRequests
		}
		if rec.Code != want {
			t.Fatalf("request %d: status %d, want %d", i, rec.Code, want)
		}
	}
}

func TestRateLimitKeysOnRealIP(t *testing.T) {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, RateLimit(1, time.Minute))
	r.Post("/api/visits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/visits", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("client %s: status %d", ip, rec.Code)
		}
	}
}
