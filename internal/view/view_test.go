// internal/view/view_test.go

package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/choristercorner/chorister/internal/config"
	"github.com/choristercorner/chorister/internal/head"
)

func TestRender_NotFound(t *testing.T) {
	e := New(config.Site{Name: "Chorister Corner", Description: "Lyrics for worship teams."})

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/lyrics/x", nil)
	if err := e.Render(rr, r, http.StatusNotFound, "notfound", nil, "x"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"<title>Chorister Corner</title>", "“x”", "device-other"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRender_HeadBuilder(t *testing.T) {
	e := New(config.Site{Name: "Site"})
	hb := head.New()
	hb.SetTitle("Amazing Grace")
	hb.SetCanonical("https://example.org/lyrics/amazing-grace")

	out, err := e.RenderToString(nil, "notfound", hb, nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if !strings.Contains(string(out), "Amazing Grace") ||
		!strings.Contains(string(out), `rel="canonical"`) {
		t.Fatalf("head not rendered:\n%s", out)
	}
}

func TestRender_UnknownPage(t *testing.T) {
	e := New(config.Site{})
	if _, err := e.RenderToString(nil, "missing", nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMediaFuncs(t *testing.T) {
	fm := mediaFuncMap()
	embed := fm["embedURL"].(func(string) string)
	if got := embed("https://youtu.be/dQw4w9WgXcQ"); !strings.HasPrefix(got, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ") {
		t.Fatalf("embedURL = %q", got)
	}
	if got := embed("https://vimeo.com/1"); got != "" {
		t.Fatalf("foreign embed = %q", got)
	}
}
