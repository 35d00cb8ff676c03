// auth_test.go holds unit tests for admin key checks and access tokens.
//
// Go Pattern: Even simple functions deserve tests. HashAPIKey is security-critical:
// if it breaks, authentication breaks. Tests catch regressions early.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// TestHashAPIKey verifies that hashing is deterministic and produces
// the expected SHA-256 output.
func TestHashAPIKey(t *testing.T) {
	t.Run("known key produces expected hash", func(t *testing.T) {
		// SHA-256 of "abc"
		want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
		if got := HashAPIKey("abc"); got != want {
			t.Errorf("HashAPIKey(%q) = %q, want %q", "abc", got, want)
		}
	})

	t.Run("different inputs different outputs", func(t *testing.T) {
		if HashAPIKey("admin_one") == HashAPIKey("admin_two") {
			t.Error("HashAPIKey produced same hash for different inputs")
		}
	})

	t.Run("output length", func(t *testing.T) {
		if hash := HashAPIKey("any"); len(hash) != 64 {
			t.Errorf("HashAPIKey output length = %d, want 64", len(hash))
		}
	})
}

func TestAdminKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{"correct key", "s3cret", "s3cret", http.StatusOK},
		{"wrong key", "s3cret", "guess", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"admin disabled", "", "anything", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", AdminKeyAuth(tt.configured), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(AdminKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := GenerateAccessToken("alex@example.com", testSecret, now)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if want := now.Add(AccessTokenTTL); !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := ParseAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if claims.Email != "alex@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "alex@example.com")
	}

	if _, err := ParseAccessToken(token, "other-secret"); err == nil {
		t.Error("ParseAccessToken() accepted a token signed with another secret")
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	expired, _, _ := GenerateAccessToken("alex@example.com", testSecret, time.Now().Add(-AccessTokenTTL-time.Minute))

	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{Email: "alex@example.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"expired":  expired,
		"no email": noEmail,
		"alg none": unsigned,
		"garbage":  "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAccessToken(token, testSecret); err == nil {
				t.Error("ParseAccessToken() error = nil, want error")
			}
		})
	}
}

func TestAccessAuth(t *testing.T) {
	valid, _, _ := GenerateAccessToken("alex@example.com", testSecret, time.Now())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantEmail  string
	}{
		{"valid bearer", "Bearer " + valid, http.StatusOK, "alex@example.com"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail string
			r := gin.New()
			r.GET("/me", AccessAuth(testSecret), func(c *gin.Context) {
				gotEmail = GetStudentEmail(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotEmail != tt.wantEmail {
				t.Errorf("GetStudentEmail() = %q, want %q", gotEmail, tt.wantEmail)
			}
		})
	}
}
