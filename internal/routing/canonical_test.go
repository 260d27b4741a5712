// internal/routing/canonical_test.go
//
// Unit-tests for the Canonicalize middleware.
//
// Context
// -------
// Each sub-test mounts the middleware on a chi route “/lyrics/{slug}”, fires
// an httptest request, and asserts either a 308 with the expected Location or
// a pass-through to the handler.

package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/choristercorner/chorister/internal/catalog"
)

func canonicalRouter(t *testing.T) http.Handler {
	t.Helper()
	songs, hymns := fixture()
	c := catalog.New(songs, hymns)
	idx := NewIndex(c)

	r := chi.NewRouter()
	r.With(Canonicalize(idx, c)).Get("/lyrics/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Slug", chi.URLParam(r, SlugParam))
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestCanonicalize(t *testing.T) {
	h := canonicalRouter(t)

	tests := []struct {
		name     string
		path     string
		code     int
		location string
	}{
		{"serial redirects to title", "/lyrics/song-12", http.StatusPermanentRedirect, "/lyrics/amazing-grace"},
		{"query preserved", "/lyrics/hymn-12?mode=list", http.StatusPermanentRedirect, "/lyrics/holy-holy-holy?mode=list"},
		{"title passes", "/lyrics/amazing-grace", http.StatusOK, ""},
		{"shadowed hymn stays on serial", "/lyrics/hymn-30", http.StatusOK, ""},
		{"untitled stays on serial", "/lyrics/hymn-7", http.StatusOK, ""},
		{"unknown serial falls through", "/lyrics/song-404", http.StatusOK, ""},
		{"unknown title falls through", "/lyrics/nonexistent-title", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d", rr.Code, tt.code)
			}
			if got := rr.Header().Get("Location"); got != tt.location {
				t.Fatalf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestCanonicalize_SerialShapedTitle(t *testing.T) {
	songs := []catalog.Item{
		{Kind: catalog.KindSong, SerialNumber: 5, Title: ""},
		{Kind: catalog.KindSong, SerialNumber: 9, Title: "Song 5"},
	}
	c := catalog.New(songs, nil)

	r := chi.NewRouter()
	r.With(Canonicalize(NewIndex(c), c)).Get("/lyrics/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/lyrics/song-9", "/lyrics/song-5"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, Location = %q; want 200", path, rr.Code, rr.Header().Get("Location"))
		}
	}
}
