// internal/routing/canonical.go
//
// Canonical-slug redirect middleware.
//
// Context
// -------
// Every record should answer on one URL so search engines do not split
// ranking across “/lyrics/song-12” and “/lyrics/amazing-grace”.  The
// middleware runs on the lyrics page route only.  When the incoming slug is
// serial-shaped and the item owns a title slug, it issues a 308 to the title
// URL.  Items whose title slug is shadowed by a collision keep the serial URL
// as canonical, so they never redirect into someone else's page.
//
// Notes
// -----
// • Title-shaped slugs are never redirected; Lookup already resolves them.
// • Unknown slugs fall through so the handler can render its 404 page.

package routing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/choristercorner/chorister/internal/catalog"
)

// ItemSource is the minimal contract a catalog must fulfil.  *catalog.Catalog
// satisfies it.
type ItemSource interface {
	Get(catalog.Ref) (catalog.Item, error)
}

// SlugParam is the chi URL parameter carrying the slug.
const SlugParam = "slug"

// Canonicalize returns a chi middleware that redirects serial slugs to the
// canonical title slug.
func Canonicalize(idx *Index, src ItemSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, SlugParam)
			if ParseSlug(slug).Type != SlugSerial {
				next.ServeHTTP(w, r)
				return
			}

			ref, ok := idx.Lookup(slug)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			it, err := src.Get(ref)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			canon := idx.Canonical(it)
			if canon == "" || canon == slug {
				next.ServeHTTP(w, r)
				return
			}

			target := BuildPath(LyricsPrefix, canon)
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			zap.L().Debug("canonical redirect",
				zap.String("from", r.URL.Path),
				zap.String("to", target))
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}
