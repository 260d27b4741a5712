// internal/lyrics/search.go
//
// In-page lyrics search.
//
// Matching is a case-insensitive substring test against each block's parsed
// body; labels are never searched.  The preview shows up to PreviewRadius
// runes on either side of the first hit, with “...” on any clipped side.

package lyrics

import (
	"strings"
	"unicode"
)

// PreviewRadius is the context kept around a hit, in runes.
const PreviewRadius = 50

// Ellipsis marks a clipped preview edge.
const Ellipsis = "..."

// Match is one block that contains the search term.
type Match struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Body    string `json:"body"`
	Preview string `json:"preview"`
}

// Search returns the blocks whose body contains term.  An empty term matches
// nothing.
func Search(blocks []string, term string) []Match {
	needle := foldRunes(term)
	if len(needle) == 0 {
		return []Match{}
	}

	out := []Match{}
	for i, raw := range blocks {
		s := ParseSection(raw)
		body := []rune(s.Body)
		at := indexRunes(foldRunes(s.Body), needle)
		if at < 0 {
			continue
		}
		out = append(out, Match{
			Index:   i,
			Label:   DisplayLabel(s, i),
			Body:    s.Body,
			Preview: preview(body, at, len(needle)),
		})
	}
	return out
}

func preview(body []rune, at, n int) string {
	start := max(at-PreviewRadius, 0)
	end := min(at+n+PreviewRadius, len(body))

	var b strings.Builder
	if start > 0 {
		b.WriteString(Ellipsis)
	}
	b.WriteString(string(body[start:end]))
	if end < len(body) {
		b.WriteString(Ellipsis)
	}
	return b.String()
}

// foldRunes lower-cases rune by rune so indexes line up with the original.
func foldRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

func indexRunes(haystack, needle []rune) int {
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
