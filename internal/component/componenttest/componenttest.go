// Package componenttest builds a component.Env over a small fixed catalog so
// component handlers can be exercised with httptest.
package componenttest

import (
	"context"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/choristercorner/chorister/internal/catalog"
	"github.com/choristercorner/chorister/internal/component"
	"github.com/choristercorner/chorister/internal/config"
	"github.com/choristercorner/chorister/internal/popularity"
	"github.com/choristercorner/chorister/internal/routing"
	"github.com/choristercorner/chorister/internal/view"
)

// Songs and Hymns are the fixture collections.  Song 12 and hymn 30 share a
// title slug, so hymn 30 is only reachable by serial.
var (
	Songs = []catalog.Item{
		{
			Kind: catalog.KindSong, SerialNumber: 12, Title: "Amazing Grace",
			Creator: "Chris Tomlin", URL: "https://www.youtube.com/watch?v=Jbe7OruLk8I",
			Lyrics: []string{
				"Verse 1: Amazing grace how sweet the sound that saved a wretch like me",
				"Chorus\nMy chains are gone, I've been set free",
				"Through many dangers, toils, and snares",
			},
		},
		{
			Kind: catalog.KindSong, SerialNumber: 4, Title: "Way Maker", Creator: "Sinach",
			Lyrics: []string{"Verse 1: You are here, moving in our midst"},
		},
	}
	Hymns = []catalog.Item{
		{
			Kind: catalog.KindHymn, SerialNumber: 30, Title: "Amazing  Grace",
			Creator: "John Newton", Category: "Grace", Year: 1779,
			Lyrics: []string{"'Twas grace that taught my heart to fear"},
		},
		{
			Kind: catalog.KindHymn, SerialNumber: 12, Title: "Holy, Holy, Holy",
			Creator: "Reginald Heber", Category: "Trinity", Meter: "11.12.12.10",
			Lyrics: []string{"Holy, holy, holy! Lord God Almighty!"},
		},
	}
)

// Config is the configuration the fixture Env carries.
func Config() *config.Config {
	return &config.Config{
		Site:    config.Site{Name: "Chorister Corner", BaseURL: "https://example.org"},
		Catalog: config.Catalog{PageSize: 2, CacheSize: 8},
	}
}

// Env returns a fresh Env; counter is returned so tests can inspect views.
func Env() (component.Env, *Counter) {
	cfg := Config()
	c := catalog.New(Songs, Hymns)
	ctr := &Counter{views: map[catalog.Ref]int64{}}
	return component.Env{
		Config:  cfg,
		Catalog: c,
		Index:   routing.NewIndex(c),
		Views:   view.New(cfg.Site),
		Popular: ctr,
	}, ctr
}

// Router initialises comp against env and returns a router serving it.
func Router(env component.Env, comp component.Component) (chi.Router, error) {
	r := chi.NewRouter()
	if err := component.Setup(r, env, []component.Component{comp}); err != nil {
		return nil, err
	}
	return r, nil
}

// Counter is an in-memory popularity.Counter.
type Counter struct {
	mu    sync.Mutex
	views map[catalog.Ref]int64
}

var _ popularity.Counter = (*Counter)(nil)

func (c *Counter) Incr(_ context.Context, ref catalog.Ref) error {
	c.mu.Lock()
	c.views[ref]++
	c.mu.Unlock()
	return nil
}

func (c *Counter) Top(_ context.Context, kind catalog.Kind, n int) ([]popularity.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []popularity.Entry{}
	for ref, v := range c.views {
		if ref.Kind == kind {
			out = append(out, popularity.Entry{Serial: ref.Serial, Views: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Views returns the count for ref.
func (c *Counter) Views(ref catalog.Ref) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views[ref]
}
