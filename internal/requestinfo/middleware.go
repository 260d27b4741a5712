// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits high in the chain, right after request logging.  For
every request it:

  1. Parses the User-Agent header and Accept-Language list.
  2. Extracts the client IP from X-Forwarded-For or X-Real-IP when the
     direct peer is a trusted proxy, falling back to `r.RemoteAddr`.
  3. Performs a GeoLite2 country lookup when a database is configured.
  4. Stores a `*RequestInfo` in the request context.

Notes
-----
  • Forwarded headers are ignored unless TrustProxy is set; otherwise any
    client could spoof its address.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enricher holds the optional geo database.
type Enricher struct {
	geo        countryReader
	TrustProxy bool
}

// NewEnricher returns an Enricher.  geo may be nil.
func NewEnricher(geo countryReader, trustProxy bool) *Enricher {
	e := &Enricher{TrustProxy: trustProxy}
	if geo != nil {
		e.geo = geo
	}
	return e
}

// Middleware attaches *RequestInfo and forwards.
func (e *Enricher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, e.TrustProxy)
		info := &RequestInfo{
			UA:        ParseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       lookupGeo(e.geo, ip),
			Timestamp: time.Now().UTC(),
		}

		zap.S().Debugw("request info",
			"ip", info.Geo.IP,
			"country", info.Geo.CountryISO,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"path", r.URL.Path,
		)

		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// clientIP returns the left-most parseable X-Forwarded-For entry or
// X-Real-IP when trusted, else the peer address.
func clientIP(r *http.Request, trust bool) net.IP {
	if trust {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			for _, part := range strings.Split(xff, ",") {
				if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
					return ip
				}
			}
		}
		if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
			if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}
