// internal/catalog/load.go
//
// JSON loader for the bundled song and hymn files.
//
// The on-disk format is a top-level array of objects.  Songs name their
// creator `channel`; hymns name it `author`.  Both keys are accepted for
// either kind so hand-edited files do not break the build.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// record mirrors one JSON object before it becomes an Item.
type record struct {
	SerialNumber int      `json:"serialNumber"`
	Title        string   `json:"title"`
	Channel      string   `json:"channel"`
	Author       string   `json:"author"`
	URL          string   `json:"url"`
	Duration     string   `json:"duration"`
	Lyrics       []string `json:"lyrics"`
	Category     string   `json:"category"`
	Meter        string   `json:"meter"`
	Year         int      `json:"year"`
}

func (r record) item(kind Kind) Item {
	creator := r.Channel
	if kind == KindHymn || creator == "" {
		if r.Author != "" {
			creator = r.Author
		}
	}
	return Item{
		Kind:         kind,
		SerialNumber: r.SerialNumber,
		Title:        r.Title,
		Creator:      creator,
		URL:          r.URL,
		Duration:     r.Duration,
		Lyrics:       r.Lyrics,
		Category:     r.Category,
		Meter:        r.Meter,
		Year:         r.Year,
	}
}

// Load decodes one collection from r.  Serial numbers must be positive and
// unique within the collection; file order is preserved.
func Load(r io.Reader, kind Kind) ([]Item, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("load catalog: unknown kind %q", kind)
	}

	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", kind, err)
	}

	items := make([]Item, 0, len(recs))
	seen := make(map[int]struct{}, len(recs))
	for i, rec := range recs {
		if rec.SerialNumber <= 0 {
			return nil, fmt.Errorf("%s catalog entry %d: serial number must be positive, got %d",
				kind, i, rec.SerialNumber)
		}
		if _, dup := seen[rec.SerialNumber]; dup {
			return nil, fmt.Errorf("%s catalog entry %d: %w: %d",
				kind, i, ErrDuplicateSerial, rec.SerialNumber)
		}
		seen[rec.SerialNumber] = struct{}{}
		items = append(items, rec.item(kind))
	}
	return items, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string, kind Kind) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", kind, err)
	}
	defer f.Close()

	items, err := Load(f, kind)
	if err != nil {
		return nil, err
	}
	zap.S().Debugw("catalog file loaded", "kind", kind, "file", path, "count", len(items))
	return items, nil
}
