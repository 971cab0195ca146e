package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type assertError string

func (e assertError) Error() string { return string(e) }

func TestSignAndVerifyJWT(t *testing.T) {
	token, err := IssueToken("test-secret", "user-123", "jane", "free", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}
	parsed, err := VerifyJWT("test-secret", token)
	if err != nil {
		t.Fatalf("VerifyJWT() unexpected error: %v", err)
	}
	if parsed.Sub != "user-123" || parsed.Username != "jane" || parsed.Plan != "free" || parsed.Issuer != "jobpilot" {
		t.Fatalf("VerifyJWT() returned %+v", parsed)
	}
}

func TestVerifyJWTInvalidSignature(t *testing.T) {
	token, err := SignJWT("secret-a", TokenClaims{Sub: "user-123", Exp: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("SignJWT() error: %v", err)
	}
	if _, err := VerifyJWT("secret-b", token); err != ErrInvalidToken {
		t.Fatalf("VerifyJWT() expected invalid token, got %v", err)
	}
}

func TestVerifyJWTExpired(t *testing.T) {
	token, err := SignJWT("secret", TokenClaims{Sub: "user-123", Exp: time.Now().Add(-time.Minute).Unix()})
	if err != nil {
		t.Fatalf("SignJWT() error: %v", err)
	}
	if _, err := VerifyJWT("secret", token); err != ErrTokenExpired {
		t.Fatalf("VerifyJWT() expected expiration error, got %v", err)
	}
}

func TestOptionalAuth(t *testing.T) {
	var seen string
	handler := OptionalAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := IssueToken("secret", "user-1", "jane", "free", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser string
	}{
		{name: "anonymous", wantCode: http.StatusNoContent},
		{name: "valid bearer", header: "Bearer " + token, wantCode: http.StatusNoContent, wantUser: "user-1"},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if seen != tt.wantUser {
				t.Fatalf("user = %q, want %q", seen, tt.wantUser)
			}
			if rr.Code == http.StatusUnauthorized {
				var body map[string]string
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if body["error"] != "unauthorized" {
					t.Fatalf("unexpected error body %#v", body)
				}
			}
		})
	}
}

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		lookup CountryLookup
		want   string
	}{
		{
			name: "header hint wins",
			setup: func(r *http.Request) {
				r.Header.Set("CF-IPCountry", "de")
				r.Header.Set("Accept-Language", "fr-FR")
			},
			want: "DE",
		},
		{
			name: "unknown cloudflare country ignored",
			setup: func(r *http.Request) {
				r.Header.Set("CF-IPCountry", "XX")
				r.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
			},
			want: "BR",
		},
		{
			name: "lookup used last",
			setup: func(r *http.Request) {
				r.RemoteAddr = "203.0.113.9:5555"
			},
			lookup: func(ip string) (string, error) {
				if ip != "203.0.113.9" {
					t.Fatalf("unexpected ip %q", ip)
				}
				return "nl", nil
			},
			want: "NL",
		},
		{
			name:   "lookup failure yields empty",
			lookup: func(string) (string, error) { return "", assertError("boom") },
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.setup != nil {
				tt.setup(req)
			}
			if got := ResolveCountry(req, tt.lookup); got != tt.want {
				t.Fatalf("ResolveCountry() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeoStoresLocation(t *testing.T) {
	var location string
	handler := Geo(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		location = LocationFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Country-Code", "DE")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if location != "Germany" {
		t.Fatalf("location = %q, want Germany", location)
	}
	if CountryName("") != "" || CountryName("??") != "" {
		t.Fatal("invalid codes should map to empty names")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	if got := ClientIP(req); got != "198.51.100.1" {
		t.Fatalf("ClientIP() = %q", got)
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("request id not propagated: %q", rr.Header().Get("X-Request-ID"))
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(buf.String()), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["request_id"] != "abc-123" || line["status"] != float64(http.StatusTeapot) || line["ip"] != "192.0.2.1" {
		t.Fatalf("unexpected log line %v", line)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if len(rr.Header().Get("X-Request-ID")) != 36 {
		t.Fatalf("oversized request id should be replaced, got %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatal("origin not allowed")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unexpected origin allowed")
	}
}
