package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, "")
	defer rl.Stop()

	if r := rl.allow("10.0.0.1", 2); !r.allowed || r.remaining != 1 {
		t.Fatalf("first request = %+v, want allowed with 1 remaining", r)
	}
	if r := rl.allow("10.0.0.1", 2); !r.allowed {
		t.Fatalf("second request = %+v, want allowed", r)
	}
	if r := rl.allow("10.0.0.1", 2); r.allowed {
		t.Fatalf("third request = %+v, want rejected", r)
	}

	// Buckets are per client.
	if r := rl.allow("10.0.0.2", 2); !r.allowed {
		t.Errorf("other client = %+v, want allowed", r)
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, "admin-key")
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(adminKey string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		if adminKey != "" {
			req.Header.Set(AdminKeyHeader, adminKey)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("first request: status %d, limit header %q", w.Code, w.Header().Get("X-RateLimit-Limit"))
	}
	if w := do(""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", w.Code)
	}
	if w := do("admin-key"); w.Code != http.StatusOK {
		t.Errorf("admin request: status %d, want 200", w.Code)
	}
}
