// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web builds one Env, calls
// Init(env) on every component, applies their Migrations when a database is
// configured, and finally lets each one add its routes to the shared router.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Initializer is optional.  If a Component implements it, cmd/web calls
// Init(env) once before Routes.
type Initializer interface {
	Init(Env) error
}

// Component contract.
//
// Migrations() may return nil if the component has no schema changes.
// Routes() should mount BOTH page and API endpoints on r, e.g:
//
//	r.Get("/contact", c.getContact)
//	r.Route("/api", func(api chi.Router) { ... })
//
// Components share one router, so paths must not overlap.
type Component interface {
	Name() string
	Routes(r chi.Router)
	Migrations() []string
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name, so mount order and
// migration order are stable.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Setup initialises every component in cs and mounts its routes on r.
func Setup(r chi.Router, env Env, cs []Component) error {
	for _, c := range cs {
		if in, ok := c.(Initializer); ok {
			if err := in.Init(env); err != nil {
				return &InitError{Component: c.Name(), Err: err}
			}
		}
	}
	for _, c := range cs {
		c.Routes(r)
	}
	return nil
}

// Migrations concatenates the DDL of cs in order.
func Migrations(cs []Component) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Migrations()...)
	}
	return out
}

// InitError reports which component refused to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string { return "component " + e.Component + ": " + e.Err.Error() }
func (e *InitError) Unwrap() error { return e.Err }
