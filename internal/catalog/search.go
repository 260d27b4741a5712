// internal/catalog/search.go
//
// Browse-page search and filtering.
//
// The query is folded before matching: NFKD decomposition, combining marks
// dropped, lower-cased.  "Hosanna" therefore matches "hosánna", which
// matters for hymn titles copied from older hymnals.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Filter narrows a search.  Zero fields are ignored.
type Filter struct {
	Query    string // title, creator, or lyric text
	Kind     Kind   // restrict to one collection
	Category string // hymns only, exact (case-insensitive)
	Creator  string // channel or author, exact (case-insensitive)
}

// Search returns matching items in collection order, songs before hymns.
func (c *Catalog) Search(f Filter) []Item {
	q := fold(strings.TrimSpace(f.Query))

	var out []Item
	for _, k := range Kinds {
		if f.Kind != "" && f.Kind != k {
			continue
		}
		for _, it := range c.Collection(k) {
			if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
				continue
			}
			if f.Creator != "" && !strings.EqualFold(it.Creator, f.Creator) {
				continue
			}
			if q != "" && !matches(it, q) {
				continue
			}
			out = append(out, it)
		}
	}
	return out
}

func matches(it Item, q string) bool {
	if strings.Contains(fold(it.Title), q) || strings.Contains(fold(it.Creator), q) {
		return true
	}
	for _, block := range it.Lyrics {
		if strings.Contains(fold(block), q) {
			return true
		}
	}
	return false
}

// fold lower-cases s and strips combining marks.
func fold(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// Page slices items into pages of size (1-based page).  It returns the page
// and the total page count.  Out-of-range pages yield an empty slice.
func Page(items []Item, page, size int) ([]Item, int) {
	if size < 1 {
		size = 20
	}
	total := (len(items) + size - 1) / size
	if page < 1 || page > total {
		return []Item{}, total
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}
