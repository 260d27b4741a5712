// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s <head>
// element.  It is scoped to a single request.  Handlers push tags into it,
// then the base layout emits each slice where it belongs.
//
// Features
// --------
//   - SetTitle, SetCanonical – single-value tags (last call wins).
//   - Meta, Property, Link   – attribute-escaped tags, deduplicated.
//   - JSONLD                 – marshals a value and wraps it in
//     <script type="application/ld+json">…</script>.
//   - Render helpers         – methods returning template.HTML.
package head

import (
	"encoding/json"
	"html/template"
	"strings"
	"sync"
)

// Builder is safe for concurrent writes; typical use is one per request.
type Builder struct {
	mu sync.Mutex

	title     string
	canonical string

	metas  []string
	links  []string
	jsonLD []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helpers
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// SetCanonical sets the absolute canonical URL.  The last caller wins.
func (b *Builder) SetCanonical(u string) {
	b.mu.Lock()
	b.canonical = u
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// TitleText returns the raw title for templates that need it unwrapped.
func (b *Builder) TitleText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

// Meta adds <meta name=… content=…>.
func (b *Builder) Meta(name, content string) {
	b.add("meta:"+name, &b.metas, tag("meta", "name", name, "content", content))
}

// Property adds an OpenGraph <meta property=… content=…>.
func (b *Builder) Property(prop, content string) {
	b.add("prop:"+prop, &b.metas, tag("meta", "property", prop, "content", content))
}

// Link adds <link rel=… href=…>.
func (b *Builder) Link(rel, href string) {
	b.add("link:"+rel+href, &b.links, tag("link", "rel", rel, "href", href))
}

// JSONLD marshals v as a structured-data block.  Marshal errors drop the
// block; structured data is never worth failing a page over.
func (b *Builder) JSONLD(v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	js := string(raw)
	b.add("jsonld:"+hash(js), &b.jsonLD, js)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

func tag(name string, kv ...string) string {
	var sb strings.Builder
	sb.WriteString("<" + name)
	for i := 0; i+1 < len(kv); i += 2 {
		sb.WriteString(" " + kv[i] + `="` + template.HTMLEscapeString(kv[i+1]) + `"`)
	}
	sb.WriteString(">")
	return sb.String()
}

// hash creates a short, stable key for JSON-LD strings.
func hash(s string) string {
	if len(s) > 64 {
		return s[:64]
	}
	return s
}

// ------------------------------------------------------------------
// Rendering helpers called from templates
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML { return b.concat(b.metas) }

// Links includes the canonical link first when one is set.
func (b *Builder) Links() template.HTML {
	b.mu.Lock()
	canon := b.canonical
	b.mu.Unlock()
	out := b.concat(b.links)
	if canon != "" {
		out = template.HTML(tag("link", "rel", "canonical", "href", canon)) + out
	}
	return out
}

// JSON returns all JSON-LD blocks wrapped in <script> tags.  “</” is escaped
// so lyric text cannot close the script element.
func (b *Builder) JSON() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(strings.ReplaceAll(js, "</", `<\/`))
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags without a separator.
func (b *Builder) concat(sl []string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return template.HTML(strings.Join(sl, ""))
}
