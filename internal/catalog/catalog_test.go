// internal/catalog/catalog_test.go
//
// Unit-tests for loading, lookup, and search.
//
// Run: go test ./internal/catalog -v

package catalog

import (
	"errors"
	"strings"
	"testing"
)

const songsJSON = `[
  {"serialNumber": 12, "title": "Amazing Grace", "channel": "Hillsong", "url": "https://youtu.be/abc", "lyrics": ["Verse 1: Amazing grace how sweet the sound"]},
  {"serialNumber": 3, "title": "Way Maker", "channel": "Sinach", "lyrics": []}
]`

const hymnsJSON = `[
  {"serialNumber": 12, "title": "Holy, Holy, Holy", "author": "Reginald Heber", "category": "Trinity", "meter": "11.12.12.10", "year": 1826,
   "lyrics": ["Holy, holy, holy! Lord God Almighty"]},
  {"serialNumber": 7, "title": "Hosánna", "author": "Anon", "category": "Praise"}
]`

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	songs, err := Load(strings.NewReader(songsJSON), KindSong)
	if err != nil {
		t.Fatalf("load songs: %v", err)
	}
	hymns, err := Load(strings.NewReader(hymnsJSON), KindHymn)
	if err != nil {
		t.Fatalf("load hymns: %v", err)
	}
	return New(songs, hymns)
}

func TestLoad_CreatorPerKind(t *testing.T) {
	c := mustCatalog(t)

	if got := c.Songs[0].Creator; got != "Hillsong" {
		t.Fatalf("song creator = %q, want Hillsong", got)
	}
	if got := c.Hymns[0].Creator; got != "Reginald Heber" {
		t.Fatalf("hymn creator = %q, want Reginald Heber", got)
	}
	if c.Hymns[0].Year != 1826 || c.Hymns[0].Meter != "11.12.12.10" {
		t.Fatalf("hymn fields not decoded: %+v", c.Hymns[0])
	}
	if c.Songs[1].Kind != KindSong || c.Hymns[1].Kind != KindHymn {
		t.Fatalf("kind not stamped")
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"not an array": `{"serialNumber": 1}`,
		"zero serial":  `[{"serialNumber": 0, "title": "x"}]`,
		"duplicate":    `[{"serialNumber": 4}, {"serialNumber": 4}]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(in), KindSong); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := Load(strings.NewReader(`[{"serialNumber": 4}, {"serialNumber": 4}]`), KindHymn)
	if !errors.Is(err, ErrDuplicateSerial) {
		t.Fatalf("err = %v, want ErrDuplicateSerial", err)
	}
}

func TestBySerial_IndependentNamespaces(t *testing.T) {
	c := mustCatalog(t)

	song, err := c.BySerial(KindSong, 12)
	if err != nil || song.Title != "Amazing Grace" {
		t.Fatalf("song 12 = %+v, %v", song, err)
	}
	hymn, err := c.Get(Ref{Kind: KindHymn, Serial: 12})
	if err != nil || hymn.Title != "Holy, Holy, Holy" {
		t.Fatalf("hymn 12 = %+v, %v", hymn, err)
	}
	if _, err := c.BySerial(KindSong, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	c := mustCatalog(t)

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"title", Filter{Query: "grace"}, []string{"Amazing Grace"}},
		{"creator", Filter{Query: "heber"}, []string{"Holy, Holy, Holy"}},
		{"lyrics", Filter{Query: "almighty"}, []string{"Holy, Holy, Holy"}},
		{"accent folded", Filter{Query: "hosanna"}, []string{"Hosánna"}},
		{"kind", Filter{Kind: KindHymn}, []string{"Holy, Holy, Holy", "Hosánna"}},
		{"category", Filter{Category: "praise"}, []string{"Hosánna"}},
		{"creator exact", Filter{Creator: "sinach"}, []string{"Way Maker"}},
		{"songs first", Filter{Query: "a"}, []string{"Amazing Grace", "Way Maker", "Holy, Holy, Holy", "Hosánna"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.f)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Title != tt.want[i] {
					t.Fatalf("item %d = %q, want %q", i, got[i].Title, tt.want[i])
				}
			}
		})
	}
}

func TestCategories(t *testing.T) {
	got := mustCatalog(t).Categories()
	if len(got) != 2 || got[0] != "Praise" || got[1] != "Trinity" {
		t.Fatalf("categories = %v", got)
	}
}

func TestPage(t *testing.T) {
	items := make([]Item, 5)
	for i := range items {
		items[i].SerialNumber = i + 1
	}

	p, total := Page(items, 2, 2)
	if total != 3 || len(p) != 2 || p[0].SerialNumber != 3 {
		t.Fatalf("page 2 = %v, total %d", p, total)
	}
	p, _ = Page(items, 3, 2)
	if len(p) != 1 || p[0].SerialNumber != 5 {
		t.Fatalf("last page = %v", p)
	}
	p, _ = Page(items, 9, 2)
	if len(p) != 0 {
		t.Fatalf("out of range page = %v", p)
	}
}
