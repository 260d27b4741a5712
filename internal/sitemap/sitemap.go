// internal/sitemap/sitemap.go
//
// sitemap.xml generator.
//
// Context
// -------
// One <url> per catalog item, songs first, each in collection order.  The
// location is the item's canonical lyrics URL from the slug index, so an
// item whose title slug is shadowed by a collision is listed under its
// serial slug and no two entries share a <loc>.  Items without any usable
// slug are skipped and counted in the log.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/choristercorner/chorister/internal/catalog"
	"github.com/choristercorner/chorister/internal/routing"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Locations returns every absolute lyrics URL in sitemap order.
func Locations(baseURL string, c *catalog.Catalog, idx *routing.Index) []string {
	base := strings.TrimRight(baseURL, "/")
	out := make([]string, 0, c.Len())
	skipped := 0
	for _, k := range catalog.Kinds {
		for _, it := range c.Collection(k) {
			slug := idx.Canonical(it)
			if slug == "" {
				skipped++
				continue
			}
			out = append(out, base+routing.BuildPath(routing.LyricsPrefix, slug))
		}
	}
	if skipped > 0 {
		zap.L().Warn("sitemap skipped items without slug", zap.Int("count", skipped))
	}
	return out
}

// Build writes the sitemap document to w.  The home page is listed first.
func Build(w io.Writer, baseURL string, c *catalog.Catalog, idx *routing.Index) error {
	base := strings.TrimRight(baseURL, "/")
	set := urlset{Xmlns: xmlns}
	set.URLs = append(set.URLs, entry{Loc: base + "/", ChangeFreq: "weekly", Priority: "1.0"})
	for _, loc := range Locations(base, c, idx) {
		set.URLs = append(set.URLs, entry{Loc: loc, ChangeFreq: "monthly", Priority: "0.8"})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("sitemap: encode: %w", err)
	}
	return enc.Flush()
}
