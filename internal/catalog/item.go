// internal/catalog/item.go
//
// Catalog item model.
//
// Context
// -------
// The catalog ships with the build as two JSON arrays, one for songs and one
// for hymns.  Both variants share one Go type, `Item`, tagged with a `Kind`.
// Songs and hymns are independent serial namespaces: Song #5 and Hymn #5 may
// coexist, so any lookup must carry the Kind alongside the serial.
//
// Notes
// -----
// • Items are immutable after Load; callers must not mutate Lyrics.
// • Oxford commas, two spaces after periods.
package catalog

import "errors"

// Kind selects one of the two catalog collections.
type Kind string

const (
	KindSong Kind = "song"
	KindHymn Kind = "hymn"
)

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool { return k == KindSong || k == KindHymn }

// Kinds lists the collections in search-precedence order.
var Kinds = []Kind{KindSong, KindHymn}

var (
	// ErrNotFound is returned when no item carries the requested serial.
	ErrNotFound = errors.New("catalog item not found")

	// ErrDuplicateSerial is returned by Load when one collection repeats a
	// serial number.
	ErrDuplicateSerial = errors.New("duplicate serial number")
)

// Item is one song or hymn record.
//
// Creator holds the YouTube channel for songs and the author for hymns.
// Category, Meter, and Year are only populated for hymns.
type Item struct {
	Kind         Kind     `json:"kind"`
	SerialNumber int      `json:"serialNumber"`
	Title        string   `json:"title"`
	Creator      string   `json:"creator"`
	URL          string   `json:"url,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Lyrics       []string `json:"lyrics"`
	Category     string   `json:"category,omitempty"`
	Meter        string   `json:"meter,omitempty"`
	Year         int      `json:"year,omitempty"`
}

// Ref identifies one item across both namespaces.
type Ref struct {
	Kind   Kind `json:"kind"`
	Serial int  `json:"serial"`
}

// Ref returns the identity of it.
func (it Item) Ref() Ref { return Ref{Kind: it.Kind, Serial: it.SerialNumber} }

// HasLyrics reports whether at least one lyric block is present.
func (it Item) HasLyrics() bool { return len(it.Lyrics) > 0 }
