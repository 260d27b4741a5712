// internal/catalog/catalog.go
//
// Catalog aggregate: both collections plus serial indexes.
//
// Context
// -------
// The catalog is loaded once at startup and never mutated, so lookups need
// no locking.  Collection order is authoring order and is significant: the
// slug resolver scans collections in order and the first title match wins.
package catalog

import (
	"fmt"
	"sort"

	"github.com/choristercorner/chorister/internal/metrics"
)

// Catalog holds the immutable song and hymn collections.
type Catalog struct {
	Songs []Item
	Hymns []Item

	bySerial map[Kind]map[int]int // kind → serial → index
}

// New builds a Catalog from already-decoded collections.
func New(songs, hymns []Item) *Catalog {
	c := &Catalog{
		Songs:    songs,
		Hymns:    hymns,
		bySerial: make(map[Kind]map[int]int, 2),
	}
	for _, k := range Kinds {
		coll := c.Collection(k)
		idx := make(map[int]int, len(coll))
		for i, it := range coll {
			if _, dup := idx[it.SerialNumber]; !dup {
				idx[it.SerialNumber] = i
			}
		}
		c.bySerial[k] = idx
		metrics.CatalogItems.WithLabelValues(string(k)).Set(float64(len(coll)))
	}
	return c
}

// Open loads both JSON files and returns a Catalog.
func Open(songsPath, hymnsPath string) (*Catalog, error) {
	songs, err := LoadFile(songsPath, KindSong)
	if err != nil {
		return nil, err
	}
	hymns, err := LoadFile(hymnsPath, KindHymn)
	if err != nil {
		return nil, err
	}
	return New(songs, hymns), nil
}

// Collection returns the items of kind k, or nil for an unknown kind.
func (c *Catalog) Collection(k Kind) []Item {
	switch k {
	case KindSong:
		return c.Songs
	case KindHymn:
		return c.Hymns
	}
	return nil
}

// BySerial returns the item with serial n in collection k.
func (c *Catalog) BySerial(k Kind, n int) (Item, error) {
	if i, ok := c.bySerial[k][n]; ok {
		return c.Collection(k)[i], nil
	}
	return Item{}, fmt.Errorf("%s #%d: %w", k, n, ErrNotFound)
}

// Get is BySerial keyed by Ref.
func (c *Catalog) Get(ref Ref) (Item, error) { return c.BySerial(ref.Kind, ref.Serial) }

// Len returns the number of items across both collections.
func (c *Catalog) Len() int { return len(c.Songs) + len(c.Hymns) }

// Categories returns the distinct non-empty hymn categories, sorted.
func (c *Catalog) Categories() []string {
	set := make(map[string]struct{})
	for _, h := range c.Hymns {
		if h.Category != "" {
			set[h.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
