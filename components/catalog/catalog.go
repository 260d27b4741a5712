// components/catalog/catalog.go
//
// Catalog Component – browse page plus the list, search, category, and
// popularity JSON endpoints.
//
// Routes
// ------
//   GET /                      browse page (HTML)
//   GET /api/songs             songs, filtered and paged
//   GET /api/hymns             hymns, filtered and paged
//   GET /api/search            both kinds, filtered and paged
//   GET /api/categories        hymn categories
//   GET /api/popular/{kind}    most viewed items of one kind
//
// Query parameters: q, kind (search only), category, creator, page, size.
//
// Notes
// -----
// • Every listed item carries its canonical slug and path so clients never
//   re-implement the slug rules.
// • Oxford commas, two spaces after periods.
package catalog

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/choristercorner/chorister/internal/catalog"
	"github.com/choristercorner/chorister/internal/component"
	"github.com/choristercorner/chorister/internal/head"
	"github.com/choristercorner/chorister/internal/logger"
	"github.com/choristercorner/chorister/internal/routing"
)

const (
	maxPageSize   = 100
	popularHome   = 5
	popularMax    = 50
	popularAPIDef = 10
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	env component.Env
}

func (c *Comp) Name() string         { return "catalog" }
func (c *Comp) Migrations() []string { return nil }

func (c *Comp) Init(env component.Env) error {
	c.env = env
	return nil
}

func (c *Comp) Routes(r chi.Router) {
	r.Get("/", c.browse)
	r.Route("/api", func(api chi.Router) {
		api.Get("/songs", c.list(catalog.KindSong))
		api.Get("/hymns", c.list(catalog.KindHymn))
		api.Get("/search", c.list(""))
		api.Get("/categories", c.categories)
		api.Get("/popular/{kind}", c.popular)
	})
}

// Register component at package init.
func init() {
	component.Register(&Comp{})
}

//
// DTOs
//

// Listed is an item plus its canonical address.
type Listed struct {
	catalog.Item
	Slug string `json:"slug"`
	Path string `json:"path"`
}

// ListResponse is the body of the list endpoints.
type ListResponse struct {
	Items []Listed `json:"items"`
	Page  int      `json:"page"`
	Pages int      `json:"pages"`
	Total int      `json:"total"`
}

// PopularEntry is one row of /api/popular/{kind}.
type PopularEntry struct {
	Listed
	Views int64 `json:"views"`
}

//
// handlers
//

func (c *Comp) list(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := filterFrom(q)
		if kind != "" {
			f.Kind = kind
		} else if k := catalog.Kind(q.Get("kind")); k != "" && !k.Valid() {
			component.JSONError(w, r, http.StatusBadRequest, "unknown kind")
			return
		}

		items := c.env.Catalog.Search(f)
		size := intParam(q, "size", c.pageSize())
		if size > maxPageSize {
			size = maxPageSize
		}
		page := intParam(q, "page", 1)
		slice, pages := catalog.Page(items, page, size)

		component.JSON(w, r, http.StatusOK, ListResponse{
			Items: c.listed(slice),
			Page:  page,
			Pages: pages,
			Total: len(items),
		})
	}
}

func (c *Comp) categories(w http.ResponseWriter, r *http.Request) {
	cats := c.env.Catalog.Categories()
	component.JSON(w, r, http.StatusOK, cats)
}

func (c *Comp) popular(w http.ResponseWriter, r *http.Request) {
	kind := catalog.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		component.JSONError(w, r, http.StatusBadRequest, "unknown kind")
		return
	}
	n := intParam(r.URL.Query(), "n", popularAPIDef)
	if n > popularMax {
		n = popularMax
	}

	out, err := c.top(r, kind, n)
	if err != nil {
		c.env.ServerError(w, r, err)
		return
	}
	component.JSON(w, r, http.StatusOK, out)
}

// browseData feeds browse.html.
type browseData struct {
	Filter     catalog.Filter
	Categories []string
	Rows       []Listed
	Popular    []PopularEntry
	Page       int
	Pages      int
	Query      template.URL
}

func (c *Comp) browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filterFrom(q)
	if k := catalog.Kind(q.Get("kind")); k.Valid() {
		f.Kind = k
	}

	items := c.env.Catalog.Search(f)
	page := intParam(q, "page", 1)
	slice, pages := catalog.Page(items, page, c.pageSize())

	data := browseData{
		Filter:     f,
		Categories: c.env.Catalog.Categories(),
		Rows:       c.listed(slice),
		Page:       page,
		Pages:      pages,
		Query:      template.URL(pagerQuery(q)),
	}
	if f == (catalog.Filter{}) && page == 1 {
		for _, k := range catalog.Kinds {
			top, err := c.top(r, k, popularHome)
			if err != nil {
				logger.FromContext(r.Context()).Warnw("popular lookup", "kind", k, "err", err)
				continue
			}
			data.Popular = append(data.Popular, top...)
		}
	}

	hb := head.New()
	site := c.env.Config.Site
	hb.SetTitle(site.Name)
	hb.SetCanonical(site.BaseURL + "/")
	if site.Description != "" {
		hb.Meta("description", site.Description)
	}
	if err := c.env.Views.Render(w, r, http.StatusOK, "browse", hb, data); err != nil {
		c.env.ServerError(w, r, err)
	}
}

//
// helpers
//

func (c *Comp) top(r *http.Request, kind catalog.Kind, n int) ([]PopularEntry, error) {
	entries, err := c.env.Popular.Top(r.Context(), kind, n)
	if err != nil {
		return nil, err
	}
	out := make([]PopularEntry, 0, len(entries))
	for _, e := range entries {
		it, err := c.env.Catalog.BySerial(kind, e.Serial)
		if err != nil {
			// counter outlived a catalog edit
			continue
		}
		out = append(out, PopularEntry{Listed: c.listOne(it), Views: e.Views})
	}
	return out, nil
}

func (c *Comp) listed(items []catalog.Item) []Listed {
	out := make([]Listed, 0, len(items))
	for _, it := range items {
		out = append(out, c.listOne(it))
	}
	return out
}

func (c *Comp) listOne(it catalog.Item) Listed {
	slug := c.env.Index.Canonical(it)
	return Listed{Item: it, Slug: slug, Path: routing.BuildPath(routing.LyricsPrefix, slug)}
}

func (c *Comp) pageSize() int {
	if c.env.Config != nil && c.env.Config.Catalog.PageSize > 0 {
		return c.env.Config.Catalog.PageSize
	}
	return 20
}

func filterFrom(q url.Values) catalog.Filter {
	return catalog.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Creator:  q.Get("creator"),
	}
}

// intParam returns q[name] when it is a positive integer, else def.
func intParam(q url.Values, name string, def int) int {
	n, err := strconv.Atoi(q.Get(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// pagerQuery re-encodes the current filter, minus page, with a trailing '&'
// so the template can append "page=N".
func pagerQuery(q url.Values) string {
	keep := url.Values{}
	for _, k := range []string{"q", "kind", "category", "creator"} {
		if v := q.Get(k); v != "" {
			keep.Set(k, v)
		}
	}
	if len(keep) == 0 {
		return ""
	}
	return keep.Encode() + "&"
}
