// components/lyrics/lyrics.go
//
// Lyrics Component – the song / hymn page and its JSON, search, and print
// variants.
//
// Routes
// ------
//   GET /lyrics/{slug}              HTML page (canonical redirect first)
//   GET /lyrics/{slug}/print        text/plain, one block per paragraph
//   GET /api/lyrics/{slug}          item, sections, embed URL, canonical
//   GET /api/lyrics/{slug}/search   in-page matches for ?q=
//
// Context
// -------
// Slugs resolve through the startup Index.  Parsed sections are cached per
// (item, display mode) in a cache.Loader sized by catalog.cache_size; the
// catalog is immutable, so entries never go stale.  Page views bump the
// popularity counter unless the request comes from a crawler.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package lyrics

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/choristercorner/chorister/internal/cache"
	"github.com/choristercorner/chorister/internal/catalog"
	"github.com/choristercorner/chorister/internal/component"
	"github.com/choristercorner/chorister/internal/head"
	"github.com/choristercorner/chorister/internal/logger"
	"github.com/choristercorner/chorister/internal/lyrics"
	"github.com/choristercorner/chorister/internal/metrics"
	"github.com/choristercorner/chorister/internal/requestinfo"
	"github.com/choristercorner/chorister/internal/routing"
	"github.com/choristercorner/chorister/internal/video"
)

const defaultCacheSize = 512

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

type sectionKey struct {
	Ref  catalog.Ref
	Mode lyrics.DisplayMode
}

// Comp implements component.Component.
type Comp struct {
	env      component.Env
	sections *cache.Loader[sectionKey, []lyrics.Rendered]
}

func (c *Comp) Name() string         { return "lyrics" }
func (c *Comp) Migrations() []string { return nil }

func (c *Comp) Init(env component.Env) error {
	c.env = env
	size := defaultCacheSize
	if env.Config != nil && env.Config.Catalog.CacheSize > 0 {
		size = env.Config.Catalog.CacheSize
	}
	c.sections = cache.NewLoader(size, c.render)
	return nil
}

func (c *Comp) Routes(r chi.Router) {
	slug := "/{" + routing.SlugParam + "}"

	r.Route("/"+routing.LyricsPrefix, func(lr chi.Router) {
		lr.With(routing.Canonicalize(c.env.Index, c.env.Catalog)).Get(slug, c.page)
		lr.Get(slug+"/print", c.print)
	})
	r.Route("/api/"+routing.LyricsPrefix, func(api chi.Router) {
		api.Get(slug, c.api)
		api.Get(slug+"/search", c.search)
	})
}

// Register component at package init.
func init() {
	component.Register(&Comp{})
}

//
// DTOs
//

// Response is the body of GET /api/lyrics/{slug}.
type Response struct {
	Item      catalog.Item      `json:"item"`
	Slug      string            `json:"slug"`
	Canonical string            `json:"canonical"`
	EmbedURL  string            `json:"embedUrl,omitempty"`
	Sections  []lyrics.Rendered `json:"sections"`
	Formatted []string          `json:"formatted"`
}

// SearchResponse is the body of GET /api/lyrics/{slug}/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Matches []lyrics.Match `json:"matches"`
}

// pageData feeds lyrics.html.
type pageData struct {
	Item     catalog.Item
	Slug     string
	Mode     lyrics.DisplayMode
	Modes    []lyrics.DisplayMode
	Sections []lyrics.Rendered
	Embed    string
}

var modes = []lyrics.DisplayMode{lyrics.ModeCards, lyrics.ModeList, lyrics.ModeCompact}

//
// handlers
//

func (c *Comp) page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, routing.SlugParam)
	it, ok := c.lookup(slug)
	if !ok {
		c.env.NotFound(w, r, slug)
		return
	}

	mode := lyrics.ParseDisplayMode(r.URL.Query().Get("mode"))
	sections, err := c.sections.Get(sectionKey{Ref: it.Ref(), Mode: mode})
	if err != nil {
		c.env.ServerError(w, r, err)
		return
	}
	c.countView(r, it)

	embed := ""
	if id, ok := video.YouTubeID(it.URL); ok {
		embed = video.EmbedURL(id)
	}

	canon := c.env.Index.Canonical(it)
	data := pageData{
		Item:     it,
		Slug:     canon,
		Mode:     mode,
		Modes:    modes,
		Sections: sections,
		Embed:    embed,
	}
	if err := c.env.Views.Render(w, r, http.StatusOK, "lyrics", c.head(it, canon, embed), data); err != nil {
		c.env.ServerError(w, r, err)
	}
}

func (c *Comp) print(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, routing.SlugParam)
	it, ok := c.lookup(slug)
	if !ok {
		c.env.NotFound(w, r, slug)
		return
	}
	var b strings.Builder
	b.WriteString(it.Title)
	if it.Creator != "" {
		b.WriteString("\n" + it.Creator)
	}
	if it.HasLyrics() {
		b.WriteString("\n\n" + lyrics.PlainText(it.Lyrics))
	}
	b.WriteByte('\n')

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, b.String()); err != nil {
		logger.FromContext(r.Context()).Debugw("print write", "err", err)
	}
}

func (c *Comp) api(w http.ResponseWriter, r *http.Request) {
	it, ok := c.lookup(chi.URLParam(r, routing.SlugParam))
	if !ok {
		component.JSONError(w, r, http.StatusNotFound, "not found")
		return
	}
	mode := lyrics.ParseDisplayMode(r.URL.Query().Get("mode"))
	sections, err := c.sections.Get(sectionKey{Ref: it.Ref(), Mode: mode})
	if err != nil {
		c.env.ServerError(w, r, err)
		return
	}
	canon := c.env.Index.Canonical(it)
	resp := Response{
		Item:      it,
		Slug:      canon,
		Canonical: c.env.Config.Site.BaseURL + routing.BuildPath(routing.LyricsPrefix, canon),
		Sections:  sections,
		Formatted: lyrics.FormatTags(it.Lyrics),
	}
	if id, ok := video.YouTubeID(it.URL); ok {
		resp.EmbedURL = video.EmbedURL(id)
	}
	component.JSON(w, r, http.StatusOK, resp)
}

func (c *Comp) search(w http.ResponseWriter, r *http.Request) {
	it, ok := c.lookup(chi.URLParam(r, routing.SlugParam))
	if !ok {
		component.JSONError(w, r, http.StatusNotFound, "not found")
		return
	}
	q := r.URL.Query().Get("q")
	component.JSON(w, r, http.StatusOK, SearchResponse{
		Query:   q,
		Matches: lyrics.Search(it.Lyrics, q),
	})
}

//
// helpers
//

func (c *Comp) lookup(slug string) (catalog.Item, bool) {
	ref, ok := c.env.Index.Lookup(slug)
	if !ok {
		return catalog.Item{}, false
	}
	it, err := c.env.Catalog.Get(ref)
	if err != nil {
		return catalog.Item{}, false
	}
	return it, true
}

func (c *Comp) render(k sectionKey) ([]lyrics.Rendered, error) {
	it, err := c.env.Catalog.Get(k.Ref)
	if err != nil {
		return nil, err
	}
	return lyrics.RenderAll(it.Lyrics, k.Mode), nil
}

// countView records one page view.  Counter failures never fail the page.
func (c *Comp) countView(r *http.Request, it catalog.Item) {
	bot := requestinfo.IsBot(r.Context())
	metrics.LyricsViewsTotal.WithLabelValues(string(it.Kind), strconv.FormatBool(bot)).Inc()
	if bot || c.env.Popular == nil {
		return
	}
	if err := c.env.Popular.Incr(r.Context(), it.Ref()); err != nil {
		logger.FromContext(r.Context()).Warnw("popularity incr", "ref", it.Ref(), "err", err)
	}
}

func (c *Comp) head(it catalog.Item, canon, embed string) *head.Builder {
	site := c.env.Config.Site
	abs := site.BaseURL + routing.BuildPath(routing.LyricsPrefix, canon)

	hb := head.New()
	hb.SetTitle(it.Title + " | " + site.Name)
	hb.SetCanonical(abs)
	hb.Property("og:title", it.Title)
	hb.Property("og:type", "music.song")
	hb.Property("og:url", abs)
	if desc := description(it); desc != "" {
		hb.Meta("description", desc)
		hb.Property("og:description", desc)
	}

	doc := head.NewComposition(it.Title, abs)
	if it.Creator != "" {
		p := &head.Person{Type: "Person", Name: it.Creator}
		if it.Kind == catalog.KindSong {
			doc.Composer = p
		} else {
			doc.Lyricist = p
		}
	}
	if it.Year > 0 {
		doc.DateCreated = strconv.Itoa(it.Year)
	}
	doc.Genre = it.Category
	if it.HasLyrics() {
		doc.Lyrics = &head.CreativeWk{Type: "CreativeWork", Text: lyrics.PlainText(it.Lyrics)}
	}
	if embed != "" {
		doc.Recording = &head.Recording{Type: "MusicRecording", Name: it.Title, URL: it.URL, Duration: it.Duration}
		if id, ok := video.YouTubeID(it.URL); ok {
			hb.Property("og:image", video.Thumbnail(id))
		}
	}
	hb.JSONLD(doc)
	return hb
}

// description is the first lyric body, trimmed to one line of ~155 runes.
func description(it catalog.Item) string {
	if !it.HasLyrics() {
		return ""
	}
	body := strings.Join(strings.Fields(lyrics.ParseSection(it.Lyrics[0]).Body), " ")
	const limit = 155
	if rs := []rune(body); len(rs) > limit {
		return string(rs[:limit-len(lyrics.Ellipsis)]) + lyrics.Ellipsis
	}
	return body
}
