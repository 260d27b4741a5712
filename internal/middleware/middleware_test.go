// internal/middleware/middleware_test.go

package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestSecurity(t *testing.T) {
	rr := httptest.NewRecorder()
	Security(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{
		"Strict-Transport-Security", "Content-Security-Policy", "X-Frame-Options",
		"X-Content-Type-Options", "Referrer-Policy", "Permissions-Policy",
	} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
	if csp := rr.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "frame-src https://www.youtube-nocookie.com") {
		t.Fatalf("CSP does not allow embeds: %q", csp)
	}
}

func TestSecurity_HandlerMayOverride(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}

func TestForceHTTPS(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		url      string
		tls      bool
		proto    string
		code     int
		location string
	}{
		{"disabled", false, "http://example.org/lyrics/x", false, "", http.StatusNoContent, ""},
		{"redirects", true, "http://example.org/lyrics/x?mode=list", false, "", http.StatusPermanentRedirect, "https://example.org/lyrics/x?mode=list"},
		{"tls passes", true, "https://example.org/", true, "", http.StatusNoContent, ""},
		{"proxy header passes", true, "http://example.org/", false, "https", http.StatusNoContent, ""},
		{"localhost passes", true, "http://localhost:8080/", false, "", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.tls {
				r.TLS = &tls.ConnectionState{}
			}
			if tt.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			rr := httptest.NewRecorder()
			ForceHTTPS(tt.enabled)(ok).ServeHTTP(rr, r)

			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d", rr.Code, tt.code)
			}
			if got := rr.Header().Get("Location"); got != tt.location {
				t.Fatalf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}
