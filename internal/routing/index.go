// internal/routing/index.go
//
// Precomputed slug index.
//
// Context
// -------
// Resolve scans both collections on every call.  The HTTP layer instead
// builds one Index at startup: title-slug → Ref, inserted songs first and in
// collection order with first insertion winning, so a lookup always agrees
// with Resolve.  The catalog is immutable, so the Index needs no locking and
// no refresh.
//
// Notes
// -----
// • Title slugs that parse as serial slugs are never indexed.
// • Collisions are counted and logged once at build time; they are expected
//   (a song and a hymn named “Amazing Grace”) but worth seeing in the log.

package routing

import (
	"go.uber.org/zap"

	"github.com/choristercorner/chorister/internal/catalog"
)

// Index maps slugs to catalog refs.  Zero value is unusable; construct with
// NewIndex.
type Index struct {
	byTitle  map[string]catalog.Ref
	bySerial map[catalog.Ref]struct{}
}

// NewIndex builds the index from the catalog.
func NewIndex(c *catalog.Catalog) *Index {
	idx := &Index{
		byTitle:  make(map[string]catalog.Ref, c.Len()),
		bySerial: make(map[catalog.Ref]struct{}, c.Len()),
	}

	collisions := 0
	for _, k := range catalog.Kinds {
		for _, it := range c.Collection(k) {
			idx.bySerial[it.Ref()] = struct{}{}

			s := TitleToSlug(it.Title)
			if !ownsTitleSlug(s) {
				continue
			}
			if owner, taken := idx.byTitle[s]; taken {
				collisions++
				zap.L().Debug("slug collision",
					zap.String("slug", s),
					zap.String("owner", SerialSlug(owner.Kind, owner.Serial)),
					zap.String("shadowed", SerialSlug(it.Kind, it.SerialNumber)))
				continue
			}
			idx.byTitle[s] = it.Ref()
		}
	}

	zap.L().Debug("slug index built",
		zap.Int("titles", len(idx.byTitle)),
		zap.Int("items", len(idx.bySerial)),
		zap.Int("collisions", collisions))
	return idx
}

// Lookup resolves slug with the same precedence as Resolve.
func (idx *Index) Lookup(slug string) (catalog.Ref, bool) {
	p := ParseSlug(slug)
	if p.Type == SlugSerial {
		ref := catalog.Ref{Kind: p.Kind, Serial: p.Serial}
		_, ok := idx.bySerial[ref]
		return ref, ok
	}
	ref, ok := idx.byTitle[p.Title]
	return ref, ok
}

// TitleOwner returns the item that owns title slug s, if any.
func (idx *Index) TitleOwner(s string) (catalog.Ref, bool) {
	ref, ok := idx.byTitle[s]
	return ref, ok
}

// Canonical returns the slug that reaches it without redirects.  Items whose
// title slug is owned by another item, is empty, or parses as a serial slug
// fall back to the serial slug so every record keeps a reachable URL.
func (idx *Index) Canonical(it catalog.Item) string {
	s := TitleToSlug(it.Title)
	if ownsTitleSlug(s) {
		if owner, ok := idx.byTitle[s]; ok && owner == it.Ref() {
			return s
		}
	}
	if it.SerialNumber > 0 && it.Kind.Valid() {
		return SerialSlug(it.Kind, it.SerialNumber)
	}
	return ""
}

// ownsTitleSlug reports whether s can be claimed as a title slug.  A title
// such as "Song 5" slugifies to "song-5", which always parses as a serial and
// so can never route back to its own item.
func ownsTitleSlug(s string) bool {
	return s != "" && ParseSlug(s).Type != SlugSerial
}
