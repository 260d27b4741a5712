// internal/view/render.go
//
// Central view engine: embedded templates, func-map injection, and a cache of
// parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (tests, e-mail bodies).
//
// Layout
// ------
// Every page is parsed as its own set: layout.html plus <name>.html.  Page
// files define "content" (and optionally "scripts"), so two pages never
// collide on a block name.  Sets are parsed on first use and kept in a
// cache.Loader, so concurrent first hits parse once.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/choristercorner/chorister/internal/cache"
	"github.com/choristercorner/chorister/internal/config"
	"github.com/choristercorner/chorister/internal/head"
	"github.com/choristercorner/chorister/internal/requestinfo"
)

//go:embed templates/*.html
var files embed.FS

// Page is the root value every template receives.
type Page struct {
	Head *head.Builder
	Site config.Site
	Info *requestinfo.RequestInfo
	Data any
}

// Engine renders the embedded pages.
type Engine struct {
	site config.Site
	sets *cache.Loader[string, *template.Template]
}

// New returns an Engine for site.
func New(site config.Site) *Engine {
	e := &Engine{site: site}
	e.sets = cache.NewLoader(32, e.parse)
	return e
}

// Render executes page name and streams it to w with status.  The page is
// buffered first so a template error never leaves a half-written body.
func (e *Engine) Render(w http.ResponseWriter, r *http.Request, status int, name string, hb *head.Builder, data any) error {
	out, err := e.RenderToString(r, name, hb, data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write([]byte(out))
	return err
}

// RenderToString mirrors Render, but returns the HTML instead of writing it.
func (e *Engine) RenderToString(r *http.Request, name string, hb *head.Builder, data any) (template.HTML, error) {
	t, err := e.sets.Get(name)
	if err != nil {
		return "", err
	}
	if hb == nil {
		hb = head.New()
	}
	if hb.TitleText() == "" {
		hb.SetTitle(e.site.Name)
	}

	p := Page{Head: hb, Site: e.site, Data: data}
	if r != nil {
		p.Info = requestinfo.FromContext(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

//
// internal: parse
//

func (e *Engine) parse(name string) (*template.Template, error) {
	t, err := template.New(name).Funcs(funcMap()).ParseFS(files,
		"templates/layout.html", "templates/"+name+".html")
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

//
// func-map builders
//

func funcMap() template.FuncMap {
	fm := template.FuncMap{
		"dict": dict,
		"seq":  seq,
		"add":  func(a, b int) int { return a + b },
	}
	for k, v := range uaFuncMap() {
		fm[k] = v
	}
	for k, v := range mediaFuncMap() {
		fm[k] = v
	}
	return fm
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// seq returns 1..n for pagination links.
func seq(n int) []int {
	out := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}
