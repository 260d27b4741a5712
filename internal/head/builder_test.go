// internal/head/builder_test.go

package head

import (
	"strings"
	"testing"
)

func TestBuilder(t *testing.T) {
	b := New()
	b.SetTitle(`Amazing Grace <live>`)
	b.SetCanonical("https://example.org/lyrics/amazing-grace")
	b.Meta("description", `Lyrics for "Amazing Grace"`)
	b.Meta("description", "duplicate is dropped")
	b.Property("og:type", "music.song")
	b.Link("icon", "/favicon.ico")

	if got := string(b.Title()); got != "<title>Amazing Grace &lt;live&gt;</title>" {
		t.Fatalf("Title = %q", got)
	}
	metas := string(b.Metas())
	if !strings.Contains(metas, `content="Lyrics for &#34;Amazing Grace&#34;"`) {
		t.Fatalf("meta not escaped: %q", metas)
	}
	if strings.Contains(metas, "duplicate") {
		t.Fatalf("duplicate meta kept: %q", metas)
	}
	links := string(b.Links())
	if !strings.HasPrefix(links, `<link rel="canonical" href="https://example.org/lyrics/amazing-grace">`) {
		t.Fatalf("Links = %q", links)
	}
}

func TestBuilder_JSONLD(t *testing.T) {
	b := New()
	c := NewComposition("Holy", "https://example.org/lyrics/holy")
	c.Lyrics = &CreativeWk{Type: "CreativeWork", Text: "</script><b>"}
	b.JSONLD(c)
	b.JSONLD(c)

	got := string(b.JSON())
	if strings.Count(got, `<script type="application/ld+json">`) != 1 {
		t.Fatalf("JSON-LD not deduplicated: %q", got)
	}
	if !strings.Contains(got, `"@type":"MusicComposition"`) {
		t.Fatalf("missing type: %q", got)
	}
	if strings.Count(got, "</script>") != 1 {
		t.Fatalf("lyric text closed the script: %q", got)
	}
	if New().JSON() != "" {
		t.Fatalf("empty builder emitted JSON-LD")
	}
}
