// internal/routing/resolve.go
//
// Slug → catalog identity resolution.
//
// Context
// -------
// A lyrics URL carries one of two slug shapes:
//
//   • serial  – “song-12”, “hymn-7”.  Unambiguous; encodes kind + serial.
//   • title   – “amazing-grace”.  Ambiguous; a song and a hymn may share a
//     title, and so may two items of one kind.
//
// Title slugs are resolved by scanning songs first, then hymns, each in
// collection order.  The first item whose TitleToSlug(title) equals the
// slug wins.  Sitemaps and old deep links rely on this order, so it must not
// change.
//
// Notes
// -----
// • Nothing here returns an error.  A miss is (zero, false); callers render
//   the not-found page.
// • Oxford commas, two spaces after periods.

package routing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/choristercorner/chorister/internal/catalog"
	"github.com/choristercorner/chorister/internal/metrics"
)

// SlugType tells the two slug shapes apart.
type SlugType string

const (
	SlugSerial SlugType = "serial"
	SlugTitle  SlugType = "title"
)

// Parsed is the classification of one incoming slug.  Serial and Kind are set
// for SlugSerial; Title is set for SlugTitle.
type Parsed struct {
	Type   SlugType
	Serial int
	Kind   catalog.Kind
	Title  string
}

var serialSlugRE = regexp.MustCompile(`(?i)^(song|hymn)-(\d+)$`)

// ParseSlug classifies slug.  Any string is classifiable; a serial slug whose
// digits overflow int falls back to the title shape.
func ParseSlug(slug string) Parsed {
	if m := serialSlugRE.FindStringSubmatch(slug); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return Parsed{
				Type:   SlugSerial,
				Serial: n,
				Kind:   catalog.Kind(strings.ToLower(m[1])),
			}
		}
	}
	return Parsed{Type: SlugTitle, Title: slug}
}

// ParseSlugPtr is ParseSlug with a nil guard for optional route params.
func ParseSlugPtr(slug *string) (Parsed, bool) {
	if slug == nil {
		return Parsed{}, false
	}
	return ParseSlug(*slug), true
}

// ExtractSerialFromSlug maps slug to a serial number.
//
// A serial slug returns its number directly; existence is not checked and
// the caller must use the parsed kind to pick the collection.  A title slug
// is matched against songs, then hymns.  Songs win a cross-kind collision.
func ExtractSerialFromSlug(slug string, songs, hymns []catalog.Item) (int, bool) {
	p := ParseSlug(slug)
	if p.Type == SlugSerial {
		return p.Serial, true
	}
	if it, ok := findByTitleSlug(p.Title, songs, hymns); ok {
		return it.SerialNumber, true
	}
	return 0, false
}

// Resolve is ExtractSerialFromSlug plus the collection the match came from.
// Unlike ExtractSerialFromSlug, a serial slug only resolves when the item
// exists.
func Resolve(slug string, songs, hymns []catalog.Item) (catalog.Ref, bool) {
	p := ParseSlug(slug)
	if p.Type == SlugSerial {
		for _, it := range collectionFor(p.Kind, songs, hymns) {
			if it.SerialNumber == p.Serial {
				metrics.SlugResolveTotal.WithLabelValues(string(SlugSerial), "hit").Inc()
				return catalog.Ref{Kind: p.Kind, Serial: p.Serial}, true
			}
		}
		metrics.SlugResolveTotal.WithLabelValues(string(SlugSerial), "miss").Inc()
		return catalog.Ref{}, false
	}

	it, ok := findByTitleSlug(p.Title, songs, hymns)
	if !ok {
		metrics.SlugResolveTotal.WithLabelValues(string(SlugTitle), "miss").Inc()
		return catalog.Ref{}, false
	}
	metrics.SlugResolveTotal.WithLabelValues(string(SlugTitle), "hit").Inc()
	return it.Ref(), true
}

// findByTitleSlug scans songs then hymns for the first title match.  An
// empty slug never matches, even against an untitled item.
func findByTitleSlug(slug string, songs, hymns []catalog.Item) (catalog.Item, bool) {
	if slug == "" {
		return catalog.Item{}, false
	}
	for _, it := range songs {
		if TitleToSlug(it.Title) == slug {
			if it.Kind == "" {
				it.Kind = catalog.KindSong
			}
			return it, true
		}
	}
	for _, it := range hymns {
		if TitleToSlug(it.Title) == slug {
			if it.Kind == "" {
				it.Kind = catalog.KindHymn
			}
			return it, true
		}
	}
	return catalog.Item{}, false
}

func collectionFor(k catalog.Kind, songs, hymns []catalog.Item) []catalog.Item {
	if k == catalog.KindHymn {
		return hymns
	}
	return songs
}
