// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CatalogItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of catalog items loaded, by kind.",
		}, []string{"kind"})

	SlugResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slug_resolve_total",
			Help: "Slug resolutions by slug shape (serial, title) and result (hit, miss).",
		}, []string{"shape", "result"})

	LyricsViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrics_views_total",
			Help: "Lyrics page views, by kind and bot flag.  API fetches are not counted.",
		}, []string{"kind", "bot"})

	ContactSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by result (ok, invalid, error).",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		CatalogItems,
		SlugResolveTotal,
		LyricsViewsTotal,
		ContactSubmissionsTotal,
	)
}
