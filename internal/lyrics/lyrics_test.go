// internal/lyrics/lyrics_test.go
//
// Unit-tests for the Lyrics Tag Parser and its helpers.
//
// Run: go test ./internal/lyrics -v

package lyrics

import (
	"strings"
	"testing"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Section
	}{
		{"colon", "Chorus: Hello\nWorld", Section{Label: "Chorus", HasLabel: true, Body: "Hello\nWorld"}},
		{"colon newline", "Verse 2:\nWhen I survey", Section{Label: "Verse 2", HasLabel: true, Body: "When I survey"}},
		{"colon keeps case", "cHoRuS:  x", Section{Label: "cHoRuS", HasLabel: true, Body: "x"}},
		{"colon empty body", "Outro:", Section{Label: "Outro", HasLabel: true, Body: ""}},
		{"pre-chorus", "Pre-Chorus: lift", Section{Label: "Pre-Chorus", HasLabel: true, Body: "lift"}},
		{"newline", "Verse 3\nFoo bar baz", Section{Label: "Verse 3", HasLabel: true, Body: "Foo bar baz"}},
		{"newline crlf", "Bridge\r\nLet all", Section{Label: "Bridge", HasLabel: true, Body: "Let all"}},
		{"newline short body", "Tag\nok", Section{Label: "Tag", HasLabel: true, Body: "ok"}},
		{"inline long", "Bridge take my hand now and never let go",
			Section{Label: "Bridge", HasLabel: true, Body: "take my hand now and never let go"}},
		{"inline short", "Bridge ok", Section{Body: "Bridge ok"}},
		{"inline exactly ten", "Hook 0123456789", Section{Body: "Hook 0123456789"}},
		{"inline eleven", "Hook 0123456789a", Section{Label: "Hook", HasLabel: true, Body: "0123456789a"}},
		{"plain", "Just a normal lyric line", Section{Body: "Just a normal lyric line"}},
		{"prefix word", "Tagline of the morning sun rising", Section{Body: "Tagline of the morning sun rising"}},
		{"verse needs number", "Verse: one", Section{Body: "Verse: one"}},
		{"not anchored", "  Chorus: x", Section{Body: "Chorus: x"}},
		{"empty", "", Section{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSection(tt.in); got != tt.want {
				t.Fatalf("ParseSection(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRender_PositionalFallback(t *testing.T) {
	got := RenderAll([]string{"", "Hello"}, ModeCards)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].DisplayLabel != "Verse 1" || got[1].DisplayLabel != "Verse 2" {
		t.Fatalf("labels = %q, %q", got[0].DisplayLabel, got[1].DisplayLabel)
	}

	// position counts tagged blocks too
	got = RenderAll([]string{"Chorus: a", "b"}, ModeList)
	if got[0].DisplayLabel != "Chorus" || got[1].DisplayLabel != "Verse 2" {
		t.Fatalf("labels = %q, %q", got[0].DisplayLabel, got[1].DisplayLabel)
	}
	if got[1].Mode != ModeList || got[1].Tagged {
		t.Fatalf("rendered = %+v", got[1])
	}
}

func TestRender_LazyAndRestartable(t *testing.T) {
	seq := Render([]string{"a", "b", "c"}, ModeCards)

	for pass := 0; pass < 2; pass++ {
		n := 0
		for i, r := range seq {
			if i != n || r.Body != string(rune('a'+i)) {
				t.Fatalf("pass %d item %d = %+v", pass, i, r)
			}
			n++
		}
		if n != 3 {
			t.Fatalf("pass %d yielded %d", pass, n)
		}
	}

	// early break stops the sequence
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("break yielded %d", n)
	}

	for range Render(nil, ModeCards) {
		t.Fatalf("empty input yielded")
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText([]string{"Verse 1: Amazing grace", "how sweet the sound"})
	want := "Verse 1\nAmazing grace\n\nVerse 2\nhow sweet the sound"
	if got != want {
		t.Fatalf("PlainText = %q, want %q", got, want)
	}
	if PlainText(nil) != "" {
		t.Fatalf("empty PlainText not empty")
	}
}

func TestSearch(t *testing.T) {
	blocks := []string{
		"Verse 1: Amazing GRACE how sweet the sound",
		"Chorus: My chains are gone",
		"Grace: not a tag, so this block is searched as text",
		"Bridge\nno match here",
	}

	got := Search(blocks, "grace")
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(got), got)
	}
	if got[0].Index != 0 || got[0].Label != "Verse 1" {
		t.Fatalf("first match = %+v", got[0])
	}
	if got[1].Index != 2 || got[1].Label != "Verse 3" {
		t.Fatalf("second match = %+v", got[1])
	}

	// labels are not searched
	if m := Search(blocks, "chorus"); len(m) != 0 {
		t.Fatalf("label matched: %+v", m)
	}
	if m := Search(blocks, ""); len(m) != 0 {
		t.Fatalf("empty term matched: %+v", m)
	}
	if m := Search(blocks, "zzz"); m == nil || len(m) != 0 {
		t.Fatalf("no hit should be an empty slice, got %#v", m)
	}
}

func TestSearch_PreviewWindow(t *testing.T) {
	pre := strings.Repeat("a", 60)
	post := strings.Repeat("b", 60)
	got := Search([]string{pre + "Grace" + post}, "grace")
	if len(got) != 1 {
		t.Fatalf("got %d matches", len(got))
	}
	want := Ellipsis + strings.Repeat("a", 50) + "Grace" + strings.Repeat("b", 50) + Ellipsis
	if got[0].Preview != want {
		t.Fatalf("preview = %q, want %q", got[0].Preview, want)
	}

	got = Search([]string{"short grace line"}, "GRACE")
	if got[0].Preview != "short grace line" {
		t.Fatalf("unclipped preview = %q", got[0].Preview)
	}

	// runes, not bytes
	got = Search([]string{strings.Repeat("é", 55) + "grâce"}, "GRÂCE")
	if len(got) != 1 || got[0].Preview != Ellipsis+strings.Repeat("é", 50)+"grâce" {
		t.Fatalf("rune preview = %+v", got)
	}
}

func TestFormatTags(t *testing.T) {
	in := []string{
		"Verse 1: Amazing grace",
		"chorus\nMy chains",
		"pre-chorus: rise",
		"Bridge ok",
		"Tagline stays",
		"plain line",
	}
	want := []string{
		"VERSE 1: Amazing grace",
		"CHORUS\nMy chains",
		"PRE-CHORUS: rise",
		"BRIDGE ok",
		"Tagline stays",
		"plain line",
	}
	got := FormatTags(in)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FormatTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseDisplayMode(t *testing.T) {
	cases := map[string]DisplayMode{
		"":         ModeCards,
		"cards":    ModeCards,
		"LIST":     ModeList,
		" compact": ModeCompact,
		"grid":     ModeCards,
	}
	for in, want := range cases {
		if got := ParseDisplayMode(in); got != want {
			t.Errorf("ParseDisplayMode(%q) = %q, want %q", in, got, want)
		}
	}
}
