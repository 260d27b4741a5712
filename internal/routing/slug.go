// internal/routing/slug.go
//
// Slug and path helpers.
//
// • TitleToSlug(title) ─ converts a catalog title into a URL path segment.
// • CreateSlug(title, serial, kind) ─ title slug, or "{kind}-{serial}" when
//   the title is blank.
// • BuildPath(parent, slug) ─ joins parent path + slug with a single “/” and
//   guarantees exactly one leading slash.
//
// Rules (TitleToSlug)
// -------------------
// 1. Lower-case everything.
// 2. Drop every rune that is not an ASCII word character (a-z, 0-9, “_”),
//    whitespace, or “-”.  Accented letters are dropped, not transliterated;
//    existing deep links depend on that.
// 3. Replace each run of whitespace with one “-”.
// 4. Collapse consecutive “-” to a single “-”.
// 5. Trim leading / trailing “-”.  The result may be empty.
//
// The output is a fixed point: TitleToSlug(TitleToSlug(t)) == TitleToSlug(t).

package routing

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/choristercorner/chorister/internal/catalog"
)

// TitleToSlug converts title → lower-kebab slug.  Total over all strings.
func TitleToSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	pendingSpace := false
	for _, r := range strings.ToLower(title) {
		switch {
		case isWordRune(r):
			if pendingSpace && !lastWasDash {
				b.WriteByte('-')
			}
			pendingSpace = false
			b.WriteRune(r)
			lastWasDash = false
		case r == '-':
			if !lastWasDash {
				b.WriteByte('-')
				lastWasDash = true
			}
			pendingSpace = false
		case isSlugSpace(r):
			pendingSpace = true
		default:
			// punctuation, symbols, and non-ASCII letters vanish without
			// splitting the surrounding word
		}
	}
	if pendingSpace && !lastWasDash {
		b.WriteByte('-')
	}

	return strings.Trim(b.String(), "-")
}

// isSlugSpace is the whitespace class published slugs were built with:
// unicode.IsSpace plus U+FEFF, minus U+0085.
func isSlugSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' ||
		r >= 'A' && r <= 'Z'
}

// CreateSlug returns the title slug when title is non-blank, otherwise the
// serial slug "{kind}-{serial}" when both parts are usable, otherwise "".
func CreateSlug(title string, serial int, kind catalog.Kind) string {
	if strings.TrimSpace(title) != "" {
		return TitleToSlug(title)
	}
	if serial > 0 && kind.Valid() {
		return SerialSlug(kind, serial)
	}
	return ""
}

// SerialSlug formats the unambiguous serial shape.
func SerialSlug(kind catalog.Kind, serial int) string {
	return string(kind) + "-" + strconv.Itoa(serial)
}

// ItemSlug is CreateSlug for a catalog item.
func ItemSlug(it catalog.Item) string {
	return CreateSlug(it.Title, it.SerialNumber, it.Kind)
}

// BuildPath joins parent + slug ensuring exactly one leading slash and no
// duplicate separators.
func BuildPath(parent, slug string) string {
	parent = strings.Trim(parent, "/")
	slug = strings.Trim(slug, "/")

	switch {
	case parent == "" && slug == "":
		return "/"
	case parent == "":
		return "/" + slug
	case slug == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + slug
	}
}

// LyricsPrefix is the parent path of every lyrics page.
const LyricsPrefix = "lyrics"

// CanonicalPath returns "/lyrics/{slug}" for it, or "" when the item has
// neither a usable title nor a serial.
func CanonicalPath(it catalog.Item) string {
	s := ItemSlug(it)
	if s == "" {
		return ""
	}
	return BuildPath(LyricsPrefix, s)
}
